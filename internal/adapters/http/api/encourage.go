// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// EncourageDependencies defines the interface for message generation.
type EncourageDependencies interface {
	Encourage(ctx context.Context, taskTitle, taskType string) string
}

// encourageRequest mirrors the OpenAPI schema for POST /encourage.
type encourageRequest struct {
	TaskTitle string `json:"task_title"`
	TaskType  string `json:"task_type"`
}

func (e encourageRequest) validate() error {
	if strings.TrimSpace(e.TaskTitle) == "" {
		return errors.New("missing task_title")
	}
	return nil
}

type encourageResponse struct {
	Message string `json:"message"`
}

// EncourageHandler handles encouragement requests.
type EncourageHandler struct {
	deps EncourageDependencies
}

// NewEncourageHandler creates a new encourage handler.
func NewEncourageHandler(deps EncourageDependencies) *EncourageHandler {
	return &EncourageHandler{deps: deps}
}

// HandlePostEncourage handles POST /encourage requests.
func (h *EncourageHandler) HandlePostEncourage(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_encourage"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req encourageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	msg := h.deps.Encourage(r.Context(), req.TaskTitle, req.TaskType)
	writeJSON(w, http.StatusOK, encourageResponse{Message: msg})
}
