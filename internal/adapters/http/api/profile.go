// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/HenryVantieghem/tierline/internal/adapters/repository"
	"github.com/HenryVantieghem/tierline/internal/domain/display"
	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
)

// ProfileDependencies defines the interface for profile reads.
type ProfileDependencies interface {
	Profile(ctx context.Context, userID string) ([]model.Record, error)
}

// profileEntry is one family's progress within a profile.
type profileEntry struct {
	Family  string         `json:"family"`
	Metric  float64        `json:"metric"`
	Tier    tierInfo       `json:"tier"`
	Display display.Params `json:"display"`
}

type profileResponse struct {
	UserID   string         `json:"user_id"`
	Families []profileEntry `json:"families"`
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleGetProfile handles GET /profile/{user_id} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/profile/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", newKind(op, ErrBadRequest))
		return
	}

	records, err := h.deps.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	resp := profileResponse{UserID: userID, Families: make([]profileEntry, 0, len(records))}
	for _, rec := range records {
		// Display params are derivable from the stored rank alone.
		params, err := display.Resolve(tier.Tier{Family: rec.Family, Rank: rec.TierRank, Name: rec.TierName})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		resp.Families = append(resp.Families, profileEntry{
			Family:  string(rec.Family),
			Metric:  rec.Metric,
			Tier:    tierInfo{Rank: rec.TierRank, Name: rec.TierName},
			Display: params,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
