package repository

import "errors"

// Sentinel kinds for progress store errors.
var (
	ErrNotFound     = errors.New("progress not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
