package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"re100-analytics/internal/matching/application/eventbus"
	"re100-analytics/internal/matching/application/events"
	"re100-analytics/internal/matching/domain/energy"
	"re100-analytics/internal/matching/domain/snapshot"
)

// SnapshotRepository stores the latest snapshot per dataset.
type SnapshotRepository interface {
	Get(ctx context.Context, datasetID string) (*snapshot.Snapshot, error)
	Save(ctx context.Context, datasetID string, snap snapshot.Snapshot) error
}

// BatchLedger remembers which batches were merged into which dataset.
type BatchLedger interface {
	HasMerged(ctx context.Context, datasetID, batchID string) (bool, error)
	MarkMerged(ctx context.Context, datasetID, batchID string) error
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Analysis is the full derived view of one dataset.
type Analysis struct {
	DatasetID         string
	Records           int
	Intervals         []energy.IntervalMetrics
	Monthly           []energy.MonthlySummary
	Hourly            []energy.HourlySummary
	DeficitCapacity   float64
	ImbalanceCapacity float64
	Catalog           energy.EntityCatalog
	Summary           energy.Summary
	Snapshot          snapshot.Snapshot
}

// Option configures an AnalysisService.
type Option func(*AnalysisService)

func WithClock(clock Clock) Option {
	return func(s *AnalysisService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator replaces uuid-based dataset and event IDs.
func WithIDGenerator(next func() string) Option {
	return func(s *AnalysisService) {
		if next != nil {
			s.newID = next
		}
	}
}

// AnalysisService runs dataset analyses and folds appended batches into the
// stored snapshots.
type AnalysisService struct {
	repo   SnapshotRepository
	ledger BatchLedger
	bus    eventbus.Bus
	clock  Clock
	newID  func() string

	// serializes the check-merge-mark sequence of AppendBatch
	appendMu sync.Mutex
}

// NewAnalysisService builds an AnalysisService. bus may be nil.
func NewAnalysisService(repo SnapshotRepository, ledger BatchLedger, bus eventbus.Bus, opts ...Option) (*AnalysisService, error) {
	if repo == nil {
		return nil, errors.New("matching: nil snapshot repository")
	}
	if ledger == nil {
		return nil, errors.New("matching: nil batch ledger")
	}
	s := &AnalysisService{
		repo:   repo,
		ledger: ledger,
		bus:    bus,
		clock:  systemClock{},
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Analyze derives every view of a dataset without storing anything. companies
// restricts which demand entities count toward interval demand.
func Analyze(records []energy.RawRecord, companies []string) (Analysis, error) {
	intervals := energy.AggregateAll(energy.Pivot(records), companies)

	monthly, err := energy.MonthlyRollup(intervals)
	if err != nil {
		return Analysis{}, err
	}
	hourly, err := energy.HourlyRollup(intervals)
	if err != nil {
		return Analysis{}, err
	}
	snap, err := snapshot.Build(records)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		Records:           len(records),
		Intervals:         intervals,
		Monthly:           monthly,
		Hourly:            hourly,
		DeficitCapacity:   energy.DeficitCapacity(intervals),
		ImbalanceCapacity: energy.ImbalanceCapacity(intervals),
		Catalog:           energy.BuildCatalog(records),
		Summary:           energy.Summarize(intervals),
		Snapshot:          snap,
	}, nil
}

// LoadDataset analyses a full dataset and stores its snapshot under a new ID.
func (s *AnalysisService) LoadDataset(ctx context.Context, records []energy.RawRecord, companies []string) (Analysis, error) {
	analysis, err := Analyze(records, companies)
	if err != nil {
		return Analysis{}, err
	}

	analysis.DatasetID = s.newID()
	if err := s.repo.Save(ctx, analysis.DatasetID, analysis.Snapshot); err != nil {
		return Analysis{}, fmt.Errorf("matching: save snapshot: %w", err)
	}

	return analysis, s.publish(ctx, events.DatasetLoaded{
		EventID:           s.newID(),
		DatasetID:         analysis.DatasetID,
		Source:            "records",
		Records:           len(records),
		DeficitCapacity:   analysis.DeficitCapacity,
		ImbalanceCapacity: analysis.ImbalanceCapacity,
		Summary:           analysis.Snapshot.Summary,
		OccurredAt:        s.clock.Now(),
	})
}

// LoadReference stores a pre-aggregated snapshot as the starting point of a dataset.
func (s *AnalysisService) LoadReference(ctx context.Context, snap snapshot.Snapshot) (string, error) {
	datasetID := s.newID()
	if err := s.repo.Save(ctx, datasetID, snap); err != nil {
		return "", fmt.Errorf("matching: save snapshot: %w", err)
	}

	return datasetID, s.publish(ctx, events.DatasetLoaded{
		EventID:         s.newID(),
		DatasetID:       datasetID,
		Source:          "reference",
		DeficitCapacity: snap.ESSCapacity,
		Summary:         snap.Summary,
		OccurredAt:      s.clock.Now(),
	})
}

// AppendBatch merges a batch into the dataset snapshot. Each batch ID is merged at
// most once per dataset; a repeat returns ErrBatchAlreadyMerged and leaves the
// snapshot untouched.
func (s *AnalysisService) AppendBatch(ctx context.Context, datasetID, batchID string, records []energy.RawRecord) (snapshot.Snapshot, error) {
	if datasetID == "" {
		return snapshot.Snapshot{}, ErrEmptyDatasetID
	}
	if batchID == "" {
		return snapshot.Snapshot{}, ErrEmptyBatchID
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	merged, err := s.ledger.HasMerged(ctx, datasetID, batchID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if merged {
		return snapshot.Snapshot{}, fmt.Errorf("%w: dataset=%s batch=%s", ErrBatchAlreadyMerged, datasetID, batchID)
	}

	prior, err := s.repo.Get(ctx, datasetID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	next, err := snapshot.Merge(prior, records)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if err := s.repo.Save(ctx, datasetID, next); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("matching: save snapshot: %w", err)
	}
	if err := s.ledger.MarkMerged(ctx, datasetID, batchID); err != nil {
		return snapshot.Snapshot{}, err
	}

	return next, s.publish(ctx, events.BatchMerged{
		EventID:     s.newID(),
		DatasetID:   datasetID,
		BatchID:     batchID,
		Records:     len(records),
		ESSCapacity: next.ESSCapacity,
		Summary:     next.Summary,
		OccurredAt:  s.clock.Now(),
	})
}

// Snapshot returns the current snapshot of a dataset.
func (s *AnalysisService) Snapshot(ctx context.Context, datasetID string) (snapshot.Snapshot, error) {
	if datasetID == "" {
		return snapshot.Snapshot{}, ErrEmptyDatasetID
	}
	snap, err := s.repo.Get(ctx, datasetID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return *snap, nil
}

func (s *AnalysisService) publish(ctx context.Context, event any) error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Publish(ctx, event)
}
