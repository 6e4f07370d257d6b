package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"FitPrice/internal/domain/models"
	"FitPrice/pkg/logger"
	"FitPrice/pkg/util"
)

// DefaultRecommendationHeader names the recommendation columns in output order.
var DefaultRecommendationHeader = []string{
	"BookingEndDateTime", "ActivityDescription", "ActivitySiteID", "Price (INR)", "recommended_price",
}

const timestampLayout = "2006-01-02 15:04:05"

// CSVWriter writes pipeline outputs as CSV. Write* calls only stage a
// temporary sibling of each destination; Commit renames every staged file
// into place together and Discard drops them.
type CSVWriter struct {
	header  []string
	log     *logger.Logger
	pending []staged
}

type staged struct {
	tmp, path, kind string
	rows            int
}

// NewCSVWriter creates a writer. A nil header selects DefaultRecommendationHeader.
func NewCSVWriter(header []string, log *logger.Logger) *CSVWriter {
	if len(header) == 0 {
		header = DefaultRecommendationHeader
	}
	return &CSVWriter{header: header, log: log}
}

// WriteRecommendations stages one row per priced record, in order.
func (w *CSVWriter) WriteRecommendations(path string, priced []models.PricedRecord) error {
	err := w.stage(path, "recommendations", len(priced), func(cw *csv.Writer) error {
		if err := cw.Write(w.header); err != nil {
			return err
		}
		for _, p := range priced {
			row := []string{
				FormatTimestamp(p.Timestamp),
				p.ActivityID,
				p.SiteID,
				util.FormatFloat(p.Price),
				util.FormatFloat(p.RecommendedPrice),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write recommendations: %w", err)
	}
	return nil
}

// WriteForecast stages ds, yhat, yhat_lower, yhat_upper per point.
func (w *CSVWriter) WriteForecast(path string, points []models.ForecastPoint) error {
	err := w.stage(path, "forecast", len(points), func(cw *csv.Writer) error {
		if err := cw.Write([]string{"ds", "yhat", "yhat_lower", "yhat_upper"}); err != nil {
			return err
		}
		for _, p := range points {
			row := []string{
				util.DateKey(p.Date),
				util.FormatFloat(p.PredictedDemand),
				util.FormatFloat(p.LowerBound),
				util.FormatFloat(p.UpperBound),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write forecast: %w", err)
	}
	return nil
}

// WriteElasticity stages price, bookings, predicted_demand per record.
func (w *CSVWriter) WriteElasticity(path string, records []models.BookingRecord, predicted []float64) error {
	if len(predicted) != len(records) {
		return fmt.Errorf("write elasticity: %d predictions for %d records", len(predicted), len(records))
	}
	err := w.stage(path, "elasticity", len(records), func(cw *csv.Writer) error {
		if err := cw.Write([]string{"price", "bookings", "predicted_demand"}); err != nil {
			return err
		}
		for i, r := range records {
			row := []string{util.FormatFloat(r.Price), strconv.Itoa(r.Bookings), util.FormatFloat(predicted[i])}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write elasticity: %w", err)
	}
	return nil
}

// FormatTimestamp renders date-only values as dates and everything else with a clock.
func FormatTimestamp(t time.Time) string {
	if t.Equal(util.TruncateDay(t)) {
		return t.Format(util.DateLayout)
	}
	return t.Format(timestampLayout)
}

// Commit renames every staged file into place. Destinations are checked
// first; if a rename still fails, files already moved by this call are
// removed so that either all outputs appear or none do.
func (w *CSVWriter) Commit() error {
	pending := w.pending
	w.pending = nil
	for _, s := range pending {
		if fi, err := os.Stat(s.path); err == nil && fi.IsDir() {
			discard(pending)
			return fmt.Errorf("commit %s: destination is a directory", s.path)
		}
	}
	var done []string
	for i, s := range pending {
		if err := os.Rename(s.tmp, s.path); err != nil {
			for _, path := range done {
				_ = os.Remove(path)
			}
			discard(pending[i:])
			return fmt.Errorf("commit %s: %w", s.path, err)
		}
		done = append(done, s.path)
	}
	for _, s := range pending {
		w.log.Info("Output written", logger.String("kind", s.kind), logger.String("path", s.path), logger.Int("rows", s.rows))
	}
	return nil
}

// Discard removes every staged file without touching the destinations.
func (w *CSVWriter) Discard() {
	discard(w.pending)
	w.pending = nil
}

func discard(pending []staged) {
	for _, s := range pending {
		_ = os.Remove(s.tmp)
	}
}

// stage writes fill's rows to a temporary file next to path and queues it for Commit.
func (w *CSVWriter) stage(path, kind string, rows int, fill func(cw *csv.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	cw := csv.NewWriter(tmp)
	if err = fill(cw); err != nil {
		return err
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	w.pending = append(w.pending, staged{tmp: tmp.Name(), path: path, kind: kind, rows: rows})
	return nil
}
