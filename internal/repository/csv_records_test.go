package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"FitPrice/pkg/config"
	"FitPrice/pkg/logger"
	"FitPrice/pkg/validate"
)

func defaultColumns(t *testing.T) config.Columns {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	return cfg.Input.Columns
}

const sample = `ActivitySiteID,ActivityDescription,BookingEndDateTime,BookingStartTime,MaxBookees,Number Booked,Price (INR)
BRP,HIIT,2018-04-02,09:00,20,18,400
BRP,Yoga,2018-04-02,14:00,25,6.0,350.5
SWA,Spin,03-Apr-18,19:30,15,15,500
`

func TestReadRecordsMapsColumnsByHeader(t *testing.T) {
	recs, err := ReadRecords(context.Background(), strings.NewReader(sample), defaultColumns(t))
	if err != nil {
		t.Fatalf("ReadRecords error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	r := recs[1]
	if r.ActivityID != "Yoga" || r.SiteID != "BRP" || r.Price != 350.5 || r.Bookings != 6 || r.Capacity != 25 {
		t.Fatalf("unexpected record %+v", r)
	}
	if !recs[2].Timestamp.Equal(time.Date(2018, 4, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", recs[2].Timestamp)
	}
}

func TestReadRecordsCombinesStartTime(t *testing.T) {
	cols := defaultColumns(t)
	cols.StartTime = "BookingStartTime"
	recs, err := ReadRecords(context.Background(), strings.NewReader(sample), cols)
	if err != nil {
		t.Fatalf("ReadRecords error: %v", err)
	}
	want := []int{9, 14, 19}
	for i, r := range recs {
		if r.Timestamp.Hour() != want[i] {
			t.Fatalf("record %d: hour %d want %d", i, r.Timestamp.Hour(), want[i])
		}
	}
	if recs[2].Timestamp.Minute() != 30 {
		t.Fatalf("expected minutes to be kept, got %v", recs[2].Timestamp)
	}
}

func TestReadRecordsMissingColumn(t *testing.T) {
	input := "BookingEndDateTime,ActivityDescription,ActivitySiteID,Price (INR)\n2018-04-02,HIIT,BRP,400\n"
	_, err := ReadRecords(context.Background(), strings.NewReader(input), defaultColumns(t))
	if err == nil || !strings.Contains(err.Error(), "Number Booked") || !strings.Contains(err.Error(), "MaxBookees") {
		t.Fatalf("expected missing column error naming both columns, got %v", err)
	}
}

func TestReadRecordsReportsBadRows(t *testing.T) {
	input := "BookingEndDateTime,ActivityDescription,ActivitySiteID,Price (INR),Number Booked,MaxBookees\n" +
		"2018-04-02,HIIT,BRP,400,10,20\n" +
		"someday,HIIT,BRP,400,10,20\n" +
		"2018-04-02,HIIT,BRP,abc,2.5,20\n"
	_, err := ReadRecords(context.Background(), strings.NewReader(input), defaultColumns(t))
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validate.Error, got %v", err)
	}
	if got := verr.Indices(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("unexpected bad rows %v", got)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %+v", verr.Violations)
	}
}

func TestReadRecordsEmpty(t *testing.T) {
	if _, err := ReadRecords(context.Background(), strings.NewReader(""), defaultColumns(t)); err == nil {
		t.Fatalf("expected error for empty input")
	}
	recs, err := ReadRecords(context.Background(), strings.NewReader("BookingEndDateTime,ActivityDescription,ActivitySiteID,Price (INR),Number Booked,MaxBookees\n"), defaultColumns(t))
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected no records and no error, got %d, %v", len(recs), err)
	}
}

func TestCSVRecordSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.csv")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	recs, err := NewCSVRecordSource(path, defaultColumns(t), logger.Nop()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if _, err := NewCSVRecordSource(path+".missing", defaultColumns(t), logger.Nop()).Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
