package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"re100-analytics/internal/matching/domain/energy"
)

const monthSuffix = "월"

// MonthLabel returns the canonical "N월" label of a calendar month (1-12).
func MonthLabel(month int) string {
	return strconv.Itoa(month) + monthSuffix
}

// CanonicalMonth normalizes a month label so that "2025-03", "3월" and "03월" all
// collapse to "3월". The year is dropped.
func CanonicalMonth(label string) (string, error) {
	month, err := monthNumber(label)
	if err != nil {
		return "", err
	}
	return MonthLabel(month), nil
}

// MonthOrder ranks a label in the fixed 1월..12월 order. Unrecognized labels sort
// after December.
func MonthOrder(label string) int {
	month, err := monthNumber(label)
	if err != nil {
		return 13
	}
	return month
}

func monthNumber(label string) (int, error) {
	trimmed := strings.TrimSpace(label)

	var digits string
	switch {
	case strings.HasSuffix(trimmed, monthSuffix):
		digits = strings.TrimSuffix(trimmed, monthSuffix)
	case len(trimmed) >= 7 && trimmed[4] == '-':
		digits = trimmed[5:7]
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, label)
	}

	month, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil || month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, label)
	}
	return month, nil
}

// recordMonth derives the canonical month of a new record from its timestamp.
func recordMonth(timestamp string) (string, error) {
	ts, err := energy.ParseTimestamp(timestamp)
	if err != nil {
		return "", err
	}
	return MonthLabel(int(ts.Month())), nil
}
