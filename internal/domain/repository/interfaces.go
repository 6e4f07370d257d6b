package repository

import (
	"context"

	"FitPrice/internal/domain/models"
)

// RecordSource yields booking records in source order.
type RecordSource interface {
	Load(ctx context.Context) ([]models.BookingRecord, error)
}

// RecommendationWriter persists priced records, one row each, in order.
type RecommendationWriter interface {
	WriteRecommendations(path string, priced []models.PricedRecord) error
}

// ForecastWriter persists forecast points.
type ForecastWriter interface {
	WriteForecast(path string, points []models.ForecastPoint) error
}

// ElasticityWriter persists per-record elasticity predictions.
type ElasticityWriter interface {
	WriteElasticity(path string, records []models.BookingRecord, predicted []float64) error
}

type Metrics interface {
	RecordRecords(stage string, n int)
	RecordAdjustment(rule, direction string)
	RecordError(kind string)
	RecordSignal(name string, value float64)
	RecordLatency(stage string, seconds float64)
}

// OutputWriter stages every pipeline output file. Staged files become
// visible only on Commit; Discard drops them.
type OutputWriter interface {
	RecommendationWriter
	ForecastWriter
	ElasticityWriter
	Commit() error
	Discard()
}
