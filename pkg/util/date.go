package util

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format used for joins and output.
const DateLayout = "2006-01-02"

// timestampLayouts are tried in order by ParseTime. Zone-less layouts parse as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	DateLayout,
	"02-Jan-06",
	"02-Jan-2006",
	"01/02/2006",
	"01/02/2006 15:04",
}

var clockLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM"}

// ParseTime tries the known booking timestamp layouts, then unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseClock parses a wall-clock time of day and returns it as an offset from midnight.
func ParseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// TruncateDay drops the time-of-day part, keeping t's location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WithClock places a time-of-day offset on t's calendar date.
func WithClock(t time.Time, clock time.Duration) time.Time {
	return TruncateDay(t).Add(clock)
}

// DateKey is the calendar date of t in its own location, formatted as DateLayout.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
