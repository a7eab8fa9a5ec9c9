// Package repository defines the progress store interface and errors.
package repository

import (
	"context"

	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/HenryVantieghem/tierline/internal/domain/types"
)

// Entry represents a per-family leaderboard row.
type Entry = types.Entry

// Store provides read/write access to per-user progress state.
type Store interface {
	// Apply records rec if its metric beats the stored one for the same
	// (user, family) pair. Returns true if the store changed.
	Apply(ctx context.Context, rec model.Record) (bool, error)

	// Get returns the stored record for one user and family.
	// Returns ErrNotFound when the pair is unknown.
	Get(ctx context.Context, userID string, family tier.Family) (model.Record, error)

	// Profile returns all stored records for a user, one per family the
	// user has progress in. Returns ErrNotFound for unknown users.
	Profile(ctx context.Context, userID string) ([]model.Record, error)

	// TopN returns the top-N entries of one family ordered by metric desc,
	// user id asc for ties.
	TopN(ctx context.Context, family tier.Family, n int) ([]Entry, error)

	// Count returns the number of (user, family) records tracked.
	Count(ctx context.Context) int
}
