package models

// Adjustment is one rule multiplier that changed the price.
type Adjustment struct {
	Rule       string  `json:"rule"`
	Multiplier float64 `json:"multiplier"`
}

// PricedRecord is a booking record with its pricing inputs and outcome.
type PricedRecord struct {
	BookingRecord
	Utilization      float64      `json:"utilization"`
	ForecastDemand   *float64     `json:"forecast_demand"` // nil when no forecast date matched
	RecommendedPrice float64      `json:"recommended_price"`
	Adjustments      []Adjustment `json:"adjustments,omitempty"`
}

// PriceRatio is recommended over original price.
func (p PricedRecord) PriceRatio() float64 {
	return p.RecommendedPrice / p.Price
}
