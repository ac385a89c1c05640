package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCatalog(t *testing.T) {
	catalog := BuildCatalog(sampleRecords())

	assert.Equal(t, []string{"solar_plant1", "solar_plant2"}, catalog.Solar)
	assert.Equal(t, []string{"wind_plant1"}, catalog.Wind)
	assert.Equal(t, []string{"compA", "compB"}, catalog.Demand)
}

func TestBuildCatalog_FirstSeenOrderNotAlphabetical(t *testing.T) {
	records := []RawRecord{
		{Timestamp: "t1", Category: CategoryDemand, Entity: "zeta"},
		{Timestamp: "t1", Category: CategoryDemand, Entity: "alpha"},
		{Timestamp: "t2", Category: CategoryDemand, Entity: "zeta"},
		{Timestamp: "t2", Category: CategorySolar, Entity: "s2"},
		{Timestamp: "t2", Category: CategorySolar, Entity: "s1"},
	}

	catalog := BuildCatalog(records)

	assert.Equal(t, []string{"zeta", "alpha"}, catalog.Demand)
	assert.Equal(t, []string{"s2", "s1"}, catalog.Solar)
	assert.Empty(t, catalog.Wind)

	sorted := catalog.Sorted()
	assert.Equal(t, []string{"alpha", "zeta"}, sorted.Demand)
	assert.Equal(t, []string{"zeta", "alpha"}, catalog.Demand, "Sorted must not reorder the receiver")
}

func TestBuildCatalog_NoDemand(t *testing.T) {
	catalog := BuildCatalog([]RawRecord{
		{Timestamp: "2025-03-01 00:00", Category: CategorySolar, Entity: "solar_plant1", Value: 120},
	})

	assert.Equal(t, []string{}, catalog.Demand)
	assert.Equal(t, []string{}, catalog.Wind)
}

func TestEntityCatalog_DefaultSelection(t *testing.T) {
	catalog := EntityCatalog{Demand: []string{"d", "b", "a", "c"}}

	assert.Equal(t, []string{"a", "b"}, catalog.DefaultSelection(2))
	assert.Equal(t, []string{"a", "b", "c", "d"}, catalog.DefaultSelection(10))
	assert.Empty(t, catalog.DefaultSelection(0))
}
