package usecase

import (
	"time"

	"FitPrice/internal/domain/models"
	"FitPrice/pkg/logger"
)

// Summary describes the outcome of one pricing run.
type Summary struct {
	Records        int
	Elasticity     float64
	Regime         string
	RSquared       float64
	ForecastModel  string
	ForecastPoints int
	ForecastMAE    float64
	ForecastRMSE   float64
	HoldoutSize    int
	Raised         int
	Lowered        int
	Unchanged      int
	MeanPriceRatio float64 // mean of recommended / original price
	Duration       time.Duration
}

const (
	RegimeElastic   = "elastic"
	RegimeInelastic = "inelastic"
)

// Summarize counts price moves and collects the signal diagnostics.
func Summarize(priced []models.PricedRecord, el models.ElasticityResult, fc models.ForecastResult) *Summary {
	s := &Summary{
		Records:        len(priced),
		Elasticity:     el.Coefficient,
		Regime:         RegimeInelastic,
		RSquared:       el.Metrics.RSquared,
		ForecastModel:  fc.Model,
		ForecastPoints: len(fc.Points),
		ForecastMAE:    fc.Metrics.MAE,
		ForecastRMSE:   fc.Metrics.RMSE,
		HoldoutSize:    fc.Metrics.HoldoutSize,
	}
	if el.Elastic() {
		s.Regime = RegimeElastic
	}
	ratioSum := 0.0
	for _, p := range priced {
		switch {
		case p.RecommendedPrice > p.Price:
			s.Raised++
		case p.RecommendedPrice < p.Price:
			s.Lowered++
		default:
			s.Unchanged++
		}
		ratioSum += p.PriceRatio()
	}
	if len(priced) > 0 {
		s.MeanPriceRatio = ratioSum / float64(len(priced))
	}
	return s
}

// Fields renders the summary as log fields.
func (s *Summary) Fields() []logger.Field {
	return []logger.Field{
		logger.Int("records", s.Records),
		logger.Float64("elasticity", s.Elasticity),
		logger.String("regime", s.Regime),
		logger.Float64("r_squared", s.RSquared),
		logger.String("forecast_model", s.ForecastModel),
		logger.Int("forecast_points", s.ForecastPoints),
		logger.Float64("forecast_mae", s.ForecastMAE),
		logger.Float64("forecast_rmse", s.ForecastRMSE),
		logger.Int("raised", s.Raised),
		logger.Int("lowered", s.Lowered),
		logger.Int("unchanged", s.Unchanged),
		logger.Float64("mean_price_ratio", s.MeanPriceRatio),
		logger.Duration("duration_ms", s.Duration),
	}
}
