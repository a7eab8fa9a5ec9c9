package encourage

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrUnknownTaskType marks a task type string with no fragment pool.
	ErrUnknownTaskType = errors.New("unknown task type")
)
