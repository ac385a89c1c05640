package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_Forms(t *testing.T) {
	cases := []struct {
		value string
		month string
		hour  int
	}{
		{value: "2025-03-01 07:00", month: "2025-03", hour: 7},
		{value: "2025-03-01 07:00:00", month: "2025-03", hour: 7},
		{value: "2025-03-01T07:00", month: "2025-03", hour: 7},
		{value: "2025-03-01T07:00:00", month: "2025-03", hour: 7},
		{value: "2025-03-01T07:00:00Z", month: "2025-03", hour: 7},
		{value: "2025-03-31T23:30:00+09:00", month: "2025-03", hour: 23},
		{value: " 2025-12-01 00:00 ", month: "2025-12", hour: 0},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			month, err := MonthKey(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.month, month)

			hour, err := HourOf(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.hour, hour)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, value := range []string{"", "yesterday", "2025/03/01 00:00", "2025-13-01 00:00"} {
		_, err := ParseTimestamp(value)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, value)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, 100.0, Round2(99.999))
}
