// internal/server/handlers/growth.go

package handlers

import (
	"encoding/json"
	"net/http"

	"trendpulse/internal/domain/forecast"
	"trendpulse/internal/service/growth"
)

// GrowthHandler handles growth projection HTTP requests
type GrowthHandler struct {
	projector *growth.Projector
}

// NewGrowthHandler creates a new growth handler
func NewGrowthHandler(projector *growth.Projector) *GrowthHandler {
	return &GrowthHandler{
		projector: projector,
	}
}

// projectRequest is the body of a growth projection request. History
// is expected oldest to newest.
type projectRequest struct {
	History []forecast.GrowthSnapshot `json:"history"`
}

// Project computes a growth projection from a snapshot history
func (h *GrowthHandler) Project(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	projection := h.projector.Project(req.History)

	respondWithJSON(w, http.StatusOK, projection)
}
