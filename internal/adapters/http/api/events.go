// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/HenryVantieghem/tierline/internal/domain/dedupe"
	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
)

// EventDependencies defines the interface for event ingestion dependencies.
type EventDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.Event) bool

	// Metric derivation for events that carry raw quantities instead of a
	// pre-normalized metric.
	EnergyFill(pointsEarned, starRating int) float64
	HealthRatio(currentHealth, totalHealth int) float64
}

// eventRequest mirrors the OpenAPI schema for POST /events. The metric may
// be omitted for energy and boss_health events, which instead carry the raw
// quantities the service normalizes from.
type eventRequest struct {
	EventID string   `json:"event_id"`
	UserID  string   `json:"user_id"`
	Family  string   `json:"family"`
	Metric  *float64 `json:"metric,omitempty"`
	TS      string   `json:"ts"`

	// Raw energy quantities (family == energy).
	Points int `json:"points,omitempty"`
	Stars  int `json:"stars,omitempty"`

	// Raw boss health quantities (family == boss_health).
	CurrentHealth int `json:"current_health,omitempty"`
	TotalHealth   int `json:"total_health,omitempty"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(e.Family) == "":
		return errors.New("missing family")
	case strings.TrimSpace(e.TS) == "":
		return errors.New("missing ts")
	}
	family, err := tier.ParseFamily(e.Family)
	if err != nil {
		return errors.New("unknown family")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	if e.Metric != nil {
		if *e.Metric < 0 {
			return errors.New("metric must be non-negative")
		}
		return nil
	}
	// No metric: only families with raw quantities can derive one.
	switch family {
	case tier.FamilyEnergy:
		if e.Points < 0 || e.Stars < 0 {
			return errors.New("points and stars must be non-negative")
		}
	case tier.FamilyBossHealth:
		if e.CurrentHealth < 0 || e.TotalHealth < 0 {
			return errors.New("health values must be non-negative")
		}
	default:
		return errors.New("missing metric")
	}
	return nil
}

func (e eventRequest) toEvent(deps EventDependencies) model.Event {
	family, _ := tier.ParseFamily(e.Family)
	ts, _ := time.Parse(time.RFC3339, e.TS)

	var metric float64
	switch {
	case e.Metric != nil:
		metric = *e.Metric
	case family == tier.FamilyEnergy:
		metric = deps.EnergyFill(e.Points, e.Stars)
	case family == tier.FamilyBossHealth:
		metric = deps.HealthRatio(e.CurrentHealth, e.TotalHealth)
	}

	return model.Event{
		EventID: e.EventID,
		UserID:  e.UserID,
		Family:  family,
		Metric:  metric,
		TS:      ts,
	}
}

// EventsHandler handles event ingestion requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check; mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), req.toEvent(h.deps)); !ok {
		// Roll back the seen status since enqueue failed.
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", newKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
