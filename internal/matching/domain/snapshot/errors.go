package snapshot

import "errors"

var (
	// ErrUnknownMonth indicates a prior month label that is neither "YYYY-MM" nor "N월".
	ErrUnknownMonth = errors.New("snapshot: unknown month label")
)
