package application_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"re100-analytics/internal/matching/application"
	"re100-analytics/internal/matching/application/eventbus"
	"re100-analytics/internal/matching/application/events"
	"re100-analytics/internal/matching/domain/energy"
	"re100-analytics/internal/matching/domain/snapshot"
	"re100-analytics/internal/matching/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func records() []energy.RawRecord {
	return []energy.RawRecord{
		{Timestamp: "2025-03-01 00:00", Category: energy.CategorySolar, Entity: "solar_plant1", Value: 120},
		{Timestamp: "2025-03-01 00:00", Category: energy.CategoryWind, Entity: "wind_plant1", Value: 200},
		{Timestamp: "2025-03-01 00:00", Category: energy.CategoryDemand, Entity: "compA", Value: 250},
		{Timestamp: "2025-03-01 01:00", Category: energy.CategorySolar, Entity: "solar_plant1", Value: 100},
		{Timestamp: "2025-03-01 01:00", Category: energy.CategoryDemand, Entity: "compA", Value: 200},
		{Timestamp: "2025-03-01 01:00", Category: energy.CategoryDemand, Entity: "compB", Value: 100},
	}
}

type recorder struct {
	loaded []events.DatasetLoaded
	merged []events.BatchMerged
}

func newService(t *testing.T) (*application.AnalysisService, *recorder) {
	t.Helper()
	bus := eventbus.NewInMemoryBus()
	rec := &recorder{}
	eventbus.On(bus, func(ctx context.Context, evt events.DatasetLoaded) error {
		rec.loaded = append(rec.loaded, evt)
		return nil
	})
	eventbus.On(bus, func(ctx context.Context, evt events.BatchMerged) error {
		rec.merged = append(rec.merged, evt)
		return nil
	})

	svc, err := application.NewAnalysisService(
		memory.NewSnapshotRepository(),
		memory.NewBatchLedger(),
		bus,
		application.WithClock(fixedClock{now: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)}),
		application.WithIDGenerator(sequentialIDs()),
	)
	require.NoError(t, err)
	return svc, rec
}

func TestNewAnalysisService_RequiresDependencies(t *testing.T) {
	_, err := application.NewAnalysisService(nil, memory.NewBatchLedger(), nil)
	assert.Error(t, err)
	_, err = application.NewAnalysisService(memory.NewSnapshotRepository(), nil, nil)
	assert.Error(t, err)
}

func TestLoadDataset(t *testing.T) {
	svc, rec := newService(t)

	analysis, err := svc.LoadDataset(context.Background(), records(), nil)
	require.NoError(t, err)

	assert.Equal(t, "id-1", analysis.DatasetID)
	require.Len(t, analysis.Intervals, 2)
	assert.Equal(t, 100.0, analysis.Intervals[0].MatchRate)
	assert.Equal(t, 200.0, analysis.Intervals[1].Shortfall)
	assert.Equal(t, 200.0, analysis.DeficitCapacity)
	assert.Equal(t, 200.0, analysis.ImbalanceCapacity)
	require.Len(t, analysis.Monthly, 1)
	assert.InDelta(t, 420.0/550.0*100, analysis.Monthly[0].MatchRate, 1e-9)
	assert.Len(t, analysis.Hourly, 2)
	assert.Equal(t, []string{"compA", "compB"}, analysis.Catalog.Demand)
	assert.Equal(t, 550.0, analysis.Summary.TotalDemand)

	stored, err := svc.Snapshot(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, analysis.Snapshot, stored)

	require.Len(t, rec.loaded, 1)
	assert.Equal(t, "id-2", rec.loaded[0].EventID)
	assert.Equal(t, 6, rec.loaded[0].Records)
}

func TestLoadDataset_CompanyFilter(t *testing.T) {
	svc, _ := newService(t)

	analysis, err := svc.LoadDataset(context.Background(), records(), []string{"compB"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, analysis.Intervals[0].Demand)
	assert.Equal(t, 100.0, analysis.Intervals[1].Demand)
	assert.Equal(t, 550.0, analysis.Snapshot.Summary.TotalDemand, "snapshot keeps every company")
}

func TestLoadDataset_InvalidTimestamp(t *testing.T) {
	svc, rec := newService(t)

	_, err := svc.LoadDataset(context.Background(), []energy.RawRecord{
		{Timestamp: "03/01/2025", Category: energy.CategorySolar, Entity: "p", Value: 1},
	}, nil)

	assert.ErrorIs(t, err, energy.ErrInvalidTimestamp)
	assert.Empty(t, rec.loaded)
}

func TestAppendBatch(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	analysis, err := svc.LoadDataset(ctx, records(), nil)
	require.NoError(t, err)

	batch := []energy.RawRecord{
		{Timestamp: "2025-04-01 00:00", Category: energy.CategorySolar, Entity: "solar_plant2", Value: 50},
		{Timestamp: "2025-04-01 00:00", Category: energy.CategoryDemand, Entity: "compC", Value: 80},
	}

	next, err := svc.AppendBatch(ctx, analysis.DatasetID, "batch-1", batch)
	require.NoError(t, err)

	assert.Equal(t, 270.0, next.Summary.TotalSolar)
	assert.Equal(t, 630.0, next.Summary.TotalDemand)
	require.Len(t, next.MonthlyData, 2)
	assert.Equal(t, "4월", next.MonthlyData[1].Month)
	assert.Equal(t, 130.0, next.ESSCapacity)

	_, err = svc.AppendBatch(ctx, analysis.DatasetID, "batch-1", batch)
	assert.ErrorIs(t, err, application.ErrBatchAlreadyMerged)

	stored, err := svc.Snapshot(ctx, analysis.DatasetID)
	require.NoError(t, err)
	assert.Equal(t, next, stored, "a rejected repeat leaves the snapshot untouched")

	require.Len(t, rec.merged, 1)
	assert.Equal(t, "batch-1", rec.merged[0].BatchID)
	assert.Equal(t, 2, rec.merged[0].Records)
}

func TestAppendBatch_UnknownDataset(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AppendBatch(context.Background(), "nope", "batch-1", nil)

	assert.ErrorIs(t, err, application.ErrDatasetNotFound)
}

func TestAppendBatch_RequiresIDs(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AppendBatch(context.Background(), "", "b", nil)
	assert.ErrorIs(t, err, application.ErrEmptyDatasetID)
	_, err = svc.AppendBatch(context.Background(), "d", "", nil)
	assert.ErrorIs(t, err, application.ErrEmptyBatchID)
}

func TestLoadReference_ThenAppend(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	reference := snapshot.Snapshot{
		MonthlyData: []snapshot.MonthlyEntry{{Month: "2025-03", Solar: 100, TotalSupply: 100, Demand: 300}},
		PieData: snapshot.PieData{
			SolarPlants: []snapshot.PieSlice{{Name: "solar_plant1", Value: 100}},
			Companies:   []snapshot.PieSlice{{Name: "compA", Value: 300}},
		},
	}

	datasetID, err := svc.LoadReference(ctx, reference)
	require.NoError(t, err)
	require.Len(t, rec.loaded, 1)
	assert.Equal(t, "reference", rec.loaded[0].Source)

	next, err := svc.AppendBatch(ctx, datasetID, "b", []energy.RawRecord{
		{Timestamp: "2025-03-05 00:00", Category: energy.CategoryWind, Entity: "wind_plant1", Value: 100},
	})
	require.NoError(t, err)

	require.Len(t, next.MonthlyData, 1)
	assert.Equal(t, "3월", next.MonthlyData[0].Month)
	assert.Equal(t, 200.0, next.MonthlyData[0].TotalSupply)
	assert.Equal(t, 100.0, next.ESSCapacity)
	assert.Equal(t, 300.0, next.Summary.TotalDemand)
}
