package events

import (
	"time"

	"re100-analytics/internal/matching/domain/snapshot"
)

// DatasetLoaded is raised once a full dataset or a reference snapshot has been
// stored under a new dataset ID.
type DatasetLoaded struct {
	EventID           string
	DatasetID         string
	Source            string
	Records           int
	DeficitCapacity   float64
	ImbalanceCapacity float64
	Summary           snapshot.Summary
	OccurredAt        time.Time
}

// BatchMerged is raised after an appended batch was folded into a dataset snapshot.
type BatchMerged struct {
	EventID     string
	DatasetID   string
	BatchID     string
	Records     int
	ESSCapacity float64
	Summary     snapshot.Summary
	OccurredAt  time.Time
}
