package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"re100-analytics/internal/matching/application"
	"re100-analytics/internal/matching/domain/snapshot"
)

// SnapshotRepository keeps the latest snapshot of every dataset in memory.
type SnapshotRepository struct {
	mu   sync.RWMutex
	data map[string]snapshot.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{data: make(map[string]snapshot.Snapshot)}
}

// Get returns a copy of the stored snapshot.
func (r *SnapshotRepository) Get(ctx context.Context, datasetID string) (*snapshot.Snapshot, error) {
	_ = ctx
	if datasetID == "" {
		return nil, application.ErrEmptyDatasetID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.data[datasetID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", application.ErrDatasetNotFound, datasetID)
	}
	return &snap, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, datasetID string, snap snapshot.Snapshot) error {
	_ = ctx
	if datasetID == "" {
		return application.ErrEmptyDatasetID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[datasetID] = snap
	return nil
}

// BatchLedger records merged (dataset, batch) pairs.
type BatchLedger struct {
	mu     sync.Mutex
	merged map[string]map[string]struct{}
}

func NewBatchLedger() *BatchLedger {
	return &BatchLedger{merged: make(map[string]map[string]struct{})}
}

func (l *BatchLedger) HasMerged(ctx context.Context, datasetID, batchID string) (bool, error) {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.merged[datasetID][batchID]
	return ok, nil
}

func (l *BatchLedger) MarkMerged(ctx context.Context, datasetID, batchID string) error {
	_ = ctx
	if datasetID == "" || batchID == "" {
		return errors.New("memory batch ledger: empty id")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	batches := l.merged[datasetID]
	if batches == nil {
		batches = make(map[string]struct{})
		l.merged[datasetID] = batches
	}
	batches[batchID] = struct{}{}
	return nil
}
