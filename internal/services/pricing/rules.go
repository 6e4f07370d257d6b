package pricing

// Policy constants. Both utilization regimes share the thresholds; the
// elastic regime uses the gentler multipliers.
const (
	ElasticThreshold = -1.0

	HighUtilization = 0.85
	LowUtilization  = 0.50

	ElasticRaise   = 1.10
	ElasticCut     = 0.90
	InelasticRaise = 1.20
	InelasticCut   = 0.95

	HighForecastRatio = 1.2
	LowForecastRatio  = 0.8
	ForecastRaise     = 1.10
	ForecastCut       = 0.90

	PeakRaise  = 1.10
	OffPeakCut = 0.90
)

const (
	RuleElasticity = "elasticity"
	RuleForecast   = "forecast"
	RuleTimeOfDay  = "time_of_day"
)

// HourWindow is an inclusive range of clock hours.
type HourWindow struct {
	From, To int
}

func (w HourWindow) Contains(hour int) bool {
	return hour >= w.From && hour <= w.To
}

var (
	PeakHours    = []HourWindow{{From: 8, To: 11}, {From: 17, To: 20}}
	OffPeakHours = []HourWindow{{From: 12, To: 16}, {From: 21, To: 23}}
)

// Input is the per-record view a rule evaluates.
type Input struct {
	Hour           int
	Utilization    float64
	ForecastDemand *float64
}

// Rule maps one record plus the run aggregates to a price multiplier.
// A multiplier of exactly 1 means the rule does not apply.
type Rule struct {
	Name  string
	Apply func(in Input, agg Aggregates) float64
}

// DefaultRules returns the rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleElasticity, Apply: elasticityMultiplier},
		{Name: RuleForecast, Apply: forecastMultiplier},
		{Name: RuleTimeOfDay, Apply: timeOfDayMultiplier},
	}
}

func elasticityMultiplier(in Input, agg Aggregates) float64 {
	raise, cut := InelasticRaise, InelasticCut
	if agg.Elasticity < ElasticThreshold {
		raise, cut = ElasticRaise, ElasticCut
	}
	switch {
	case in.Utilization > HighUtilization:
		return raise
	case in.Utilization < LowUtilization:
		return cut
	default:
		return 1
	}
}

func forecastMultiplier(in Input, agg Aggregates) float64 {
	if in.ForecastDemand == nil {
		return 1
	}
	f := *in.ForecastDemand
	switch {
	case f > agg.MeanBookings*HighForecastRatio:
		return ForecastRaise
	case f < agg.MeanBookings*LowForecastRatio:
		return ForecastCut
	default:
		return 1
	}
}

func timeOfDayMultiplier(in Input, _ Aggregates) float64 {
	// Peak is checked first so it wins if the windows ever overlap.
	if inAny(PeakHours, in.Hour) {
		return PeakRaise
	}
	if inAny(OffPeakHours, in.Hour) {
		return OffPeakCut
	}
	return 1
}

func inAny(windows []HourWindow, hour int) bool {
	for _, w := range windows {
		if w.Contains(hour) {
			return true
		}
	}
	return false
}
