package models

import "time"

// PricePoint is one (price, demand) observation fed to the elasticity fit.
type PricePoint struct {
	Price  float64 `json:"price" validate:"finite,gt=0"`
	Demand float64 `json:"demand" validate:"finite,gt=0"`
}

// ElasticityResult is the fitted log-log demand curve. Only Coefficient
// drives pricing; the rest is diagnostics.
type ElasticityResult struct {
	Coefficient float64
	Intercept   float64
	N           int
	Metrics     ElasticityMetrics
	Predictions []float64 // predicted demand per input point, same order
}

type ElasticityMetrics struct {
	RSquared    float64
	AdjRSquared float64
	MSE         float64
	RMSE        float64
	MAE         float64
	MAPE        float64 // percent
}

// Elastic reports whether demand reacts more than proportionally to price.
func (e ElasticityResult) Elastic() bool {
	return e.Coefficient < -1
}

// ForecastPoint is the model estimate for one calendar date.
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	PredictedDemand float64   `json:"predicted_demand"`
	LowerBound      float64   `json:"lower_bound"`
	UpperBound      float64   `json:"upper_bound"`
}

type ForecastMetrics struct {
	MAE         float64
	RMSE        float64
	TrainSize   int
	HoldoutSize int
}

// ForecastResult covers the training and holdout dates plus any extra
// future days that were requested.
type ForecastResult struct {
	Points  []ForecastPoint
	Metrics ForecastMetrics
	Model   string
}
