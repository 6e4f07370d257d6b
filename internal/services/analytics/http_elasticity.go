package analytics

import (
	"context"
	"fmt"

	"FitPrice/internal/domain/models"
	domsvc "FitPrice/internal/domain/service"
	"FitPrice/pkg/config"
	xhttp "FitPrice/pkg/http"
)

// HTTPElasticityEstimator delegates the log-log fit to the remote model service.
type HTTPElasticityEstimator struct{ base *HTTPServiceBase }

func NewHTTPElasticityEstimator(cfg *config.Config, opts ...xhttp.ClientOption) *HTTPElasticityEstimator {
	return &HTTPElasticityEstimator{base: NewHTTPServiceBase(cfg, opts...)}
}

type elasticityReq struct {
	Prices []float64 `json:"prices"`
	Demand []float64 `json:"demand"`
}

type elasticityResp struct {
	Elasticity      float64   `json:"elasticity"`
	Intercept       float64   `json:"intercept"`
	RSquared        float64   `json:"r_squared"`
	AdjRSquared     float64   `json:"adj_r_squared"`
	MSE             float64   `json:"mse"`
	RMSE            float64   `json:"rmse"`
	MAE             float64   `json:"mae"`
	MAPE            float64   `json:"mape"`
	PredictedDemand []float64 `json:"predicted_demand"`
}

func (e *HTTPElasticityEstimator) Estimate(ctx context.Context, points []models.PricePoint) (models.ElasticityResult, error) {
	var result models.ElasticityResult
	if err := checkPricePoints(points); err != nil {
		return result, err
	}

	req := elasticityReq{Prices: make([]float64, len(points)), Demand: make([]float64, len(points))}
	for i, p := range points {
		req.Prices[i] = p.Price
		req.Demand[i] = p.Demand
	}

	var er elasticityResp
	if err := e.base.PostJSONWithRetry(ctx, "/elasticity/fit", req, &er); err != nil {
		return result, fmt.Errorf("post elasticity: %w", err)
	}
	if n := len(er.PredictedDemand); n != 0 && n != len(points) {
		return result, fmt.Errorf("elasticity service returned %d predictions for %d points", n, len(points))
	}

	result.Coefficient = er.Elasticity
	result.Intercept = er.Intercept
	result.N = len(points)
	result.Predictions = er.PredictedDemand
	result.Metrics = models.ElasticityMetrics{
		RSquared:    er.RSquared,
		AdjRSquared: er.AdjRSquared,
		MSE:         er.MSE,
		RMSE:        er.RMSE,
		MAE:         er.MAE,
		MAPE:        er.MAPE,
	}
	return result, nil
}

var _ domsvc.ElasticityEstimator = (*HTTPElasticityEstimator)(nil)
