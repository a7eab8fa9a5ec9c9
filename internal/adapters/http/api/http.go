// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HenryVantieghem/tierline/internal/domain/dedupe"
	"github.com/HenryVantieghem/tierline/internal/domain/display"
	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/HenryVantieghem/tierline/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes an event for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, e model.Event) bool

	// Metric derivation for events carrying raw quantities.
	EnergyFill(pointsEarned, starRating int) float64
	HealthRatio(currentHealth, totalHealth int) float64

	// Classify resolves a metric to its tier and display parameters.
	Classify(ctx context.Context, metric float64, family tier.Family) (tier.Tier, display.Params, error)

	// Read operations expose stored progression data.
	Profile(ctx context.Context, userID string) ([]model.Record, error)
	TopN(ctx context.Context, family tier.Family, n int) ([]Entry, error)

	// Encourage produces a motivational message for a task.
	Encourage(ctx context.Context, taskTitle, taskType string) string
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	classifyHandler    *ClassifyHandler
	profileHandler     *ProfileHandler
	leaderboardHandler *LeaderboardHandler
	encourageHandler   *EncourageHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		eventsHandler:      NewEventsHandler(deps),
		classifyHandler:    NewClassifyHandler(deps),
		profileHandler:     NewProfileHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		encourageHandler:   NewEncourageHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.classifyHandler.HandleGetClassify, "classify"))
	mux.HandleFunc("/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/encourage", MetricsMiddleware(s.encourageHandler.HandlePostEncourage, "encourage"))
}

// tierInfo mirrors the tier shape shared by classify and profile responses.
type tierInfo struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
