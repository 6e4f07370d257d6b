package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics on a private Prometheus
// registry so that one pipeline run produces one self-contained textfile.
type Recorder struct {
	registry    *prometheus.Registry
	records     *prometheus.CounterVec
	adjustments *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	signals     *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder. Every series carries the run_id label.
func New(runID string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"run_id": runID}, reg))
	return &Recorder{
		registry: reg,
		records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitprice_records_total",
				Help: "Number of booking records handled per pipeline stage",
			},
			[]string{"stage"},
		),
		adjustments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitprice_price_adjustments_total",
				Help: "Pricing rule applications by rule and direction",
			},
			[]string{"rule", "direction"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitprice_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		signals: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fitprice_signal_value",
				Help: "Dataset-level signals computed during the run",
			},
			[]string{"signal"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitprice_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordRecords adds n records handled by stage.
func (r *Recorder) RecordRecords(stage string, n int) {
	r.records.WithLabelValues(stage).Add(float64(n))
}

// RecordAdjustment counts one rule application; direction is "up" or "down".
func (r *Recorder) RecordAdjustment(rule, direction string) {
	r.adjustments.WithLabelValues(rule, direction).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSignal sets a dataset-level value such as the elasticity coefficient.
func (r *Recorder) RecordSignal(name string, value float64) {
	r.signals.WithLabelValues(name).Set(value)
}

// RecordLatency records stage latency in seconds.
func (r *Recorder) RecordLatency(stage string, seconds float64) {
	r.latency.WithLabelValues(stage).Observe(seconds)
}

// Gatherer exposes the registry for inspection.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the registry in exposition format for the node_exporter
// textfile collector. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
