package display

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUnknownTier marks a tier with no display table entry.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrBadParams marks a display table violating the monotonicity or
	// range invariants.
	ErrBadParams = errors.New("malformed display params")
)
