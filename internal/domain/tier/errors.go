package tier

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidMetric marks a negative or NaN metric. The domain layer
	// should never produce one; treat as a precondition violation.
	ErrInvalidMetric = errors.New("invalid metric")

	// ErrUnknownFamily marks a family selector with no tier table.
	ErrUnknownFamily = errors.New("unknown tier family")

	// ErrBadTable marks a tier table that violates the range invariants.
	ErrBadTable = errors.New("malformed tier table")
)
