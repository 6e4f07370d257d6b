// Package pricing turns booking records plus the elasticity and forecast
// signals into recommended prices.
package pricing

import (
	"fmt"

	"FitPrice/internal/domain/models"
	"FitPrice/internal/services/features"
	"FitPrice/pkg/util"
	"FitPrice/pkg/validate"
)

// Aggregates are dataset-level values fixed before any record is priced.
type Aggregates struct {
	Elasticity   float64
	MeanBookings float64
}

type Engine struct {
	rules []Rule
}

// NewEngine builds an engine evaluating rules in the given order. With no
// rules it uses DefaultRules.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Rules returns the rule names in evaluation order.
func (e *Engine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name)
	}
	return names
}

// ComputeRecommendations prices every record using the global elasticity and
// the mean bookings of records. Output order matches input order.
func (e *Engine) ComputeRecommendations(records []models.BookingRecord, elasticity float64, forecast []models.ForecastPoint) ([]models.PricedRecord, error) {
	agg := Aggregates{
		Elasticity:   elasticity,
		MeanBookings: features.MeanBookings(records),
	}
	return e.Price(records, agg, forecast)
}

// Price applies the rules with caller-supplied aggregates.
func (e *Engine) Price(records []models.BookingRecord, agg Aggregates, forecast []models.ForecastPoint) ([]models.PricedRecord, error) {
	if err := checkInputs(records, agg, forecast); err != nil {
		return nil, err
	}

	byDate := forecastIndex(forecast)
	out := make([]models.PricedRecord, 0, len(records))
	for _, r := range records {
		in := Input{
			Hour:        r.Timestamp.Hour(),
			Utilization: r.Utilization(),
		}
		if v, ok := byDate[util.DateKey(r.Timestamp)]; ok {
			in.ForecastDemand = &v
		}

		price := r.Price
		var adjustments []models.Adjustment
		for _, rule := range e.rules {
			m := rule.Apply(in, agg)
			if m == 1 {
				continue
			}
			price *= m
			adjustments = append(adjustments, models.Adjustment{Rule: rule.Name, Multiplier: m})
		}

		out = append(out, models.PricedRecord{
			BookingRecord:    r,
			Utilization:      in.Utilization,
			ForecastDemand:   in.ForecastDemand,
			RecommendedPrice: price,
			Adjustments:      adjustments,
		})
	}
	return out, nil
}

// forecastIndex keys predicted demand by calendar date. The first point for a
// date wins.
func forecastIndex(points []models.ForecastPoint) map[string]float64 {
	idx := make(map[string]float64, len(points))
	for _, p := range points {
		key := util.DateKey(p.Date)
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = p.PredictedDemand
	}
	return idx
}

func checkInputs(records []models.BookingRecord, agg Aggregates, forecast []models.ForecastPoint) error {
	if err := validate.Var("elasticity", agg.Elasticity, "finite"); err != nil {
		return err
	}
	if err := validate.Each("booking records", len(records), func(i int) interface{} { return records[i] }); err != nil {
		return err
	}
	return validate.Each("forecast points", len(forecast), func(i int) interface{} {
		return forecastCheck{PredictedDemand: forecast[i].PredictedDemand}
	})
}

type forecastCheck struct {
	PredictedDemand float64 `json:"predicted_demand" validate:"finite"`
}

// Direction classifies a multiplier for reporting.
func Direction(multiplier float64) string {
	switch {
	case multiplier > 1:
		return "up"
	case multiplier < 1:
		return "down"
	default:
		return "none"
	}
}

func (a Aggregates) String() string {
	return fmt.Sprintf("elasticity=%.4f mean_bookings=%.4f", a.Elasticity, a.MeanBookings)
}
