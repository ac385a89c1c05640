package energy

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. The plain "YYYY-MM-DD HH:mm" form and the
// ISO "T" forms must resolve to the same month and hour.
var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// ParseTimestamp parses a record timestamp. Offsets, when present, are kept so
// that Hour and Month reflect the wall clock written in the source.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// MonthKey returns the YYYY-MM bucket of a timestamp.
func MonthKey(value string) (string, error) {
	ts, err := ParseTimestamp(value)
	if err != nil {
		return "", err
	}
	return ts.Format("2006-01"), nil
}

// HourOf returns the hour-of-day (0-23) of a timestamp.
func HourOf(value string) (int, error) {
	ts, err := ParseTimestamp(value)
	if err != nil {
		return 0, err
	}
	return ts.Hour(), nil
}
