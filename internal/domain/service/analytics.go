package service

import (
	"context"

	"FitPrice/internal/domain/models"
)

// ElasticityEstimator fits log(demand) on log(price) and returns the slope.
type ElasticityEstimator interface {
	Estimate(ctx context.Context, points []models.PricePoint) (models.ElasticityResult, error)
}

// DemandForecaster fits a daily demand series and predicts every date of it.
// trainFraction selects the leading training segment; the rest is holdout.
type DemandForecaster interface {
	Forecast(ctx context.Context, series []models.DailyDemand, trainFraction float64) (models.ForecastResult, error)
}
