package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivot_WideFormat(t *testing.T) {
	rows := Pivot(sampleRecords())

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-01 00:00", rows[0].Timestamp)
	assert.Equal(t, []string{"solar_solar_plant1", "solar_solar_plant2", "wind_wind_plant1", "compA", "compB"}, rows[0].Keys())

	value, ok := rows[0].Get("solar_solar_plant1")
	require.True(t, ok)
	assert.Equal(t, 120.0, value)
	value, ok = rows[0].Get("compB")
	require.True(t, ok)
	assert.Equal(t, 100.0, value)

	_, ok = rows[0].Get("compZ")
	assert.False(t, ok)
}

func TestPivot_Empty(t *testing.T) {
	assert.Empty(t, Pivot(nil))
}

func TestPivot_FirstSeenTimestampOrder(t *testing.T) {
	records := []RawRecord{
		{Timestamp: "2025-03-01 05:00", Category: CategorySolar, Entity: "a", Value: 1},
		{Timestamp: "2025-03-01 01:00", Category: CategorySolar, Entity: "a", Value: 2},
		{Timestamp: "2025-03-01 05:00", Category: CategoryWind, Entity: "b", Value: 3},
	}

	rows := Pivot(records)

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-01 05:00", rows[0].Timestamp)
	assert.Equal(t, "2025-03-01 01:00", rows[1].Timestamp)
	assert.Len(t, rows[0].Cells, 2)
}

// Duplicate (timestamp, column) pairs silently drop the earlier value.
func TestPivot_DuplicateLastWriteWins(t *testing.T) {
	records := []RawRecord{
		{Timestamp: "2025-03-01 00:00", Category: CategoryDemand, Entity: "compA", Value: 250},
		{Timestamp: "2025-03-01 00:00", Category: CategorySolar, Entity: "p1", Value: 10},
		{Timestamp: "2025-03-01 00:00", Category: CategoryDemand, Entity: "compA", Value: 40},
	}

	rows := Pivot(records)

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Cells, 2)
	value, _ := rows[0].Get("compA")
	assert.Equal(t, 40.0, value)
	assert.Equal(t, []string{"compA", "solar_p1"}, rows[0].Keys())
}

func TestPivot_CategoryTravelsWithColumn(t *testing.T) {
	// A company literally named "solar_x" must stay demand even though its key
	// collides with the solar plant "x".
	records := []RawRecord{
		{Timestamp: "2025-03-01 00:00", Category: CategoryDemand, Entity: "solar_x", Value: 50},
		{Timestamp: "2025-03-01 00:00", Category: CategorySolar, Entity: "x", Value: 30},
	}

	rows := Pivot(records)
	require.Len(t, rows[0].Cells, 2)

	metrics := Aggregate(rows[0], nil)
	assert.Equal(t, 30.0, metrics.Solar)
	assert.Equal(t, 50.0, metrics.Demand)
}

func TestPivot_RecordsRoundTrip(t *testing.T) {
	records := sampleRecords()
	records = append(records, RawRecord{Timestamp: "2025-03-01 00:00", Category: CategoryDemand, Entity: "compA", Value: 260})

	var expanded []RawRecord
	for _, row := range Pivot(records) {
		expanded = append(expanded, row.Records()...)
	}

	// One duplicate collapses; everything else survives unchanged.
	require.Len(t, expanded, len(records)-1)
	expected := make(map[Column]map[string]float64)
	for _, record := range records {
		if expected[record.Column()] == nil {
			expected[record.Column()] = make(map[string]float64)
		}
		expected[record.Column()][record.Timestamp] = record.Value
	}
	for _, record := range expanded {
		assert.Equal(t, expected[record.Column()][record.Timestamp], record.Value, "%s %s", record.Timestamp, record.Column().Key())
	}
}
