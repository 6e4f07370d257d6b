package features

import (
	"sort"

	"FitPrice/internal/domain/models"
	"FitPrice/pkg/util"
)

// PricePoints pairs each record's price with its bookings for the elasticity fit.
func PricePoints(records []models.BookingRecord) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(records))
	for _, r := range records {
		out = append(out, models.PricePoint{Price: r.Price, Demand: float64(r.Bookings)})
	}
	return out
}

// AggregateDaily sums bookings per calendar date and returns the series in
// chronological order.
func AggregateDaily(records []models.BookingRecord) []models.DailyDemand {
	if len(records) == 0 {
		return nil
	}
	byDay := make(map[string]*models.DailyDemand)
	for _, r := range records {
		key := util.DateKey(r.Timestamp)
		d, ok := byDay[key]
		if !ok {
			d = &models.DailyDemand{Date: util.TruncateDay(r.Timestamp)}
			byDay[key] = d
		}
		d.Total += float64(r.Bookings)
	}
	out := make([]models.DailyDemand, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// MeanBookings is the arithmetic mean of bookings over all records.
func MeanBookings(records []models.BookingRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += float64(r.Bookings)
	}
	return sum / float64(len(records))
}

// SplitIndex returns the size of the leading training segment, truncating
// n*fraction toward zero.
func SplitIndex(n int, fraction float64) int {
	k := int(float64(n) * fraction)
	if k < 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}
