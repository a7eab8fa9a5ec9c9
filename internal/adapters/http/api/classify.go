// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/HenryVantieghem/tierline/internal/domain/display"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
)

// ClassifyDependencies defines the interface for synchronous classification.
type ClassifyDependencies interface {
	Classify(ctx context.Context, metric float64, family tier.Family) (tier.Tier, display.Params, error)
}

// classifyResponse carries the tier and its display parameters.
type classifyResponse struct {
	Family  string         `json:"family"`
	Metric  float64        `json:"metric"`
	Tier    tierInfo       `json:"tier"`
	Display display.Params `json:"display"`
}

// ClassifyHandler handles classification requests.
type ClassifyHandler struct {
	deps ClassifyDependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

// HandleGetClassify handles GET /classify?family=F&metric=M requests.
func (h *ClassifyHandler) HandleGetClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_classify"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	family, err := tier.ParseFamily(r.URL.Query().Get("family"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_family", wrapKind(op, ErrBadRequest, err))
		return
	}
	metric, err := strconv.ParseFloat(r.URL.Query().Get("metric"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	t, params, err := h.deps.Classify(r.Context(), metric, family)
	if err != nil {
		if errors.Is(err, tier.ErrInvalidMetric) || errors.Is(err, tier.ErrUnknownFamily) {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{
		Family:  string(family),
		Metric:  metric,
		Tier:    tierInfo{Rank: t.Rank, Name: t.Name},
		Display: params,
	})
}
