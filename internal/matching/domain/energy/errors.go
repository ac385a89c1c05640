package energy

import "errors"

var (
	// ErrInvalidTimestamp is returned when a timestamp matches none of the accepted layouts.
	ErrInvalidTimestamp = errors.New("energy: invalid timestamp")
	// ErrUnknownCategory is returned when a category string is not solar, wind or demand.
	ErrUnknownCategory = errors.New("energy: unknown category")
	// ErrInvalidPeriod is returned when a period pivot granularity is unsupported.
	ErrInvalidPeriod = errors.New("energy: invalid period")
	// ErrInvalidView is returned when a period pivot view is unsupported.
	ErrInvalidView = errors.New("energy: invalid view")
)
