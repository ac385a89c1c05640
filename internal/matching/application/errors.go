package application

import "errors"

var (
	// ErrBatchAlreadyMerged rejects a batch ID already folded into the dataset.
	ErrBatchAlreadyMerged = errors.New("matching: batch already merged")
	ErrDatasetNotFound    = errors.New("matching: dataset not found")
	ErrEmptyDatasetID     = errors.New("matching: empty dataset id")
	ErrEmptyBatchID       = errors.New("matching: empty batch id")
)
