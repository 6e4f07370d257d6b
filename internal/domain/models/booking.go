package models

import "time"

// BookingRecord is one scheduled class occurrence with its price and fill.
type BookingRecord struct {
	Timestamp  time.Time `json:"timestamp" validate:"required"`
	ActivityID string    `json:"activity_id"`
	SiteID     string    `json:"site_id"`
	Price      float64   `json:"price" validate:"finite,gt=0"`
	Bookings   int       `json:"bookings" validate:"gte=0"`
	Capacity   int       `json:"capacity" validate:"gt=0"`
}

// Utilization is the booked fraction of capacity.
func (r BookingRecord) Utilization() float64 {
	return float64(r.Bookings) / float64(r.Capacity)
}

// DailyDemand is the total bookings on one calendar date.
type DailyDemand struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}
