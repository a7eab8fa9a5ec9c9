package api

import (
	"encoding/json"
	"net/http"

	"github.com/HenryVantieghem/tierline/internal/domain/types"
)

// StatsProvider exposes a snapshot of the event pipeline.
type StatsProvider interface {
	GetStats() types.Stats
}

// StatsHandler serves pipeline snapshots.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a stats handler backed by the given provider.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(h.statsProvider.GetStats())
}
