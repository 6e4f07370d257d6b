package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"FitPrice/internal/domain/models"
	"FitPrice/internal/domain/repository"
	"FitPrice/pkg/config"
	"FitPrice/pkg/logger"
	"FitPrice/pkg/util"
	"FitPrice/pkg/validate"
)

// CSVRecordSource reads booking records from a headered CSV file. Columns
// are matched by header name; extra columns are ignored.
type CSVRecordSource struct {
	path    string
	columns config.Columns
	log     *logger.Logger
}

// NewCSVRecordSource creates a record source for path.
func NewCSVRecordSource(path string, columns config.Columns, log *logger.Logger) repository.RecordSource {
	return &CSVRecordSource{path: path, columns: columns, log: log}
}

func (s *CSVRecordSource) Load(ctx context.Context) ([]models.BookingRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := ReadRecords(ctx, f, s.columns)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	s.log.Info("Loaded booking records", logger.String("path", s.path), logger.Int("records", len(records)))
	return records, nil
}

// columnIndex holds header positions; -1 marks an absent optional column.
type columnIndex struct {
	timestamp, startTime, activity, site, price, bookings, capacity int
}

// ReadRecords parses CSV rows into records in file order. Unparseable cells
// are collected and returned together as a *validate.Error whose indices are
// record positions (header excluded).
func ReadRecords(ctx context.Context, r io.Reader, cols config.Columns) ([]models.BookingRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveColumns(header, cols)
	if err != nil {
		return nil, err
	}

	var (
		out        []models.BookingRecord
		violations []validate.Violation
	)
	for row := 0; ; row++ {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}

		rec, bad := parseRow(row, fields, idx, cols)
		violations = append(violations, bad...)
		out = append(out, rec)
	}
	if len(violations) > 0 {
		return nil, &validate.Error{Subject: "input rows", Violations: violations}
	}
	return out, nil
}

func resolveColumns(header []string, cols config.Columns) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		pos[h] = i
	}
	var missing []string
	find := func(name string, required bool) int {
		if name == "" && !required {
			return -1
		}
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	idx := columnIndex{
		timestamp: find(cols.Timestamp, true),
		startTime: find(cols.StartTime, false),
		activity:  find(cols.Activity, true),
		site:      find(cols.Site, true),
		price:     find(cols.Price, true),
		bookings:  find(cols.Bookings, true),
		capacity:  find(cols.Capacity, true),
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("input is missing column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row int, fields []string, idx columnIndex, cols config.Columns) (models.BookingRecord, []validate.Violation) {
	var (
		rec models.BookingRecord
		bad []validate.Violation
	)
	fail := func(column, msg string) {
		bad = append(bad, validate.Violation{
			Index:   row,
			Code:    "ERR_PARSE",
			Field:   column,
			Message: fmt.Sprintf("%s: %s", column, msg),
		})
	}

	ts, ok := util.ParseTime(fields[idx.timestamp])
	if !ok {
		fail(cols.Timestamp, fmt.Sprintf("unparseable timestamp %q", fields[idx.timestamp]))
	}
	if idx.startTime >= 0 && ok {
		clock, clockOK := util.ParseClock(fields[idx.startTime])
		if !clockOK {
			fail(cols.StartTime, fmt.Sprintf("unparseable time of day %q", fields[idx.startTime]))
		} else {
			ts = util.WithClock(ts, clock)
		}
	}
	rec.Timestamp = ts
	rec.ActivityID = strings.TrimSpace(fields[idx.activity])
	rec.SiteID = strings.TrimSpace(fields[idx.site])

	var err error
	if rec.Price, err = util.ParseFloat(fields[idx.price]); err != nil {
		fail(cols.Price, err.Error())
	}
	if rec.Bookings, err = util.ParseCount(fields[idx.bookings]); err != nil {
		fail(cols.Bookings, err.Error())
	}
	if rec.Capacity, err = util.ParseCount(fields[idx.capacity]); err != nil {
		fail(cols.Capacity, err.Error())
	}
	return rec, bad
}
