package ingest

import "errors"

var (
	ErrInvalidHeader     = errors.New("ingest: invalid header")
	ErrNoValidRows       = errors.New("ingest: no valid rows")
	ErrUnsupportedFormat = errors.New("ingest: unsupported format")
	ErrInvalidObjectURI  = errors.New("ingest: invalid object uri")
)

// Rejection reasons reported in Result.Rejected.
const (
	ReasonMissingField     = "missing_field"
	ReasonUnknownType      = "unknown_type"
	ReasonInvalidValue     = "invalid_value"
	ReasonInvalidTimestamp = "invalid_timestamp"
)
