package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCount parses a non-fractional count. Float renderings such as "12.0"
// are accepted since spreadsheet exports often write counts that way.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse count %q: not a whole number", s)
	}
	if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, fmt.Errorf("parse count %q: out of range", s)
	}
	return int(f), nil
}

// ParseFloat parses a decimal number, tolerating surrounding whitespace.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return f, nil
}

// FormatFloat renders the shortest representation that round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
