// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/HenryVantieghem/tierline/internal/domain/tier"
)

// Event represents a progress event submitted by clients.
// Fields mirror the OpenAPI schema for /events.
type Event struct {
	EventID string      // unique id for idempotency
	UserID  string      // subject identifier
	Family  tier.Family // metric family the event belongs to
	Metric  float64     // raw non-negative metric value
	TS      time.Time   // event timestamp
}

// Record captures a user's best metric in one family, with the tier
// assigned when it was stored.
type Record struct {
	UserID   string
	Family   tier.Family
	Metric   float64
	TierRank int
	TierName string
}
