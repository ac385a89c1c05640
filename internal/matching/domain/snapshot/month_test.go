package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalMonth(t *testing.T) {
	cases := map[string]string{
		"2025-03":          "3월",
		"2024-03":          "3월",
		"3월":               "3월",
		"03월":              "3월",
		" 12월 ":            "12월",
		"2025-12-01 00:00": "12월",
		"2025-01":          "1월",
	}
	for input, want := range cases {
		got, err := CanonicalMonth(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestCanonicalMonth_Unknown(t *testing.T) {
	for _, input := range []string{"", "March", "13월", "0월", "2025-00", "2025/03"} {
		_, err := CanonicalMonth(input)
		assert.ErrorIs(t, err, ErrUnknownMonth, input)
	}
}

func TestMonthOrder(t *testing.T) {
	assert.Less(t, MonthOrder("2월"), MonthOrder("10월"))
	assert.Equal(t, MonthOrder("2025-10"), MonthOrder("10월"))
	assert.Equal(t, 13, MonthOrder("unknown"))
}
