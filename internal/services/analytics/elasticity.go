package analytics

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"FitPrice/internal/domain/models"
	domsvc "FitPrice/internal/domain/service"
	"FitPrice/pkg/validate"
)

// OLSElasticityEstimator fits log(demand) = a + b*log(price) by ordinary
// least squares; b is the elasticity.
type OLSElasticityEstimator struct{}

func NewOLSElasticityEstimator() *OLSElasticityEstimator { return &OLSElasticityEstimator{} }

func (e *OLSElasticityEstimator) Estimate(ctx context.Context, points []models.PricePoint) (models.ElasticityResult, error) {
	var result models.ElasticityResult
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := checkPricePoints(points); err != nil {
		return result, err
	}

	n := len(points)
	logP := make([]float64, n)
	logQ := make([]float64, n)
	for i, p := range points {
		logP[i] = math.Log(p.Price)
		logQ[i] = math.Log(p.Demand)
	}

	alpha, beta := stat.LinearRegression(logP, logQ, nil, false)
	r2 := stat.RSquared(logP, logQ, nil, alpha, beta)

	result.Coefficient = beta
	result.Intercept = alpha
	result.N = n
	result.Predictions = make([]float64, n)
	for i := range points {
		result.Predictions[i] = math.Exp(alpha + beta*logP[i])
	}
	result.Metrics = demandMetrics(points, result.Predictions)
	result.Metrics.RSquared = r2
	result.Metrics.AdjRSquared = adjustedRSquared(r2, n, 1)
	return result, nil
}

// checkPricePoints enforces the fit preconditions: every value positive and
// finite, and at least two distinct prices.
func checkPricePoints(points []models.PricePoint) error {
	if err := validate.Each("price points", len(points), func(i int) interface{} { return points[i] }); err != nil {
		return fmt.Errorf("%w: %w", ErrNonPositive, err)
	}
	distinct := make(map[float64]struct{}, 2)
	for _, p := range points {
		distinct[p.Price] = struct{}{}
		if len(distinct) >= 2 {
			return nil
		}
	}
	return fmt.Errorf("%w: elasticity needs at least 2 distinct prices, got %d", ErrInsufficientData, len(distinct))
}

// demandMetrics compares predicted and actual demand on the original scale.
func demandMetrics(points []models.PricePoint, predicted []float64) models.ElasticityMetrics {
	var m models.ElasticityMetrics
	n := float64(len(points))
	for i, p := range points {
		diff := p.Demand - predicted[i]
		m.MSE += diff * diff
		m.MAE += math.Abs(diff)
		m.MAPE += math.Abs(diff / p.Demand)
	}
	m.MSE /= n
	m.MAE /= n
	m.MAPE = m.MAPE / n * 100
	m.RMSE = math.Sqrt(m.MSE)
	return m
}

// adjustedRSquared falls back to r2 when there are no residual degrees of freedom.
func adjustedRSquared(r2 float64, n, regressors int) float64 {
	dof := n - regressors - 1
	if dof <= 0 {
		return r2
	}
	return 1 - (1-r2)*float64(n-1)/float64(dof)
}

var _ domsvc.ElasticityEstimator = (*OLSElasticityEstimator)(nil)
