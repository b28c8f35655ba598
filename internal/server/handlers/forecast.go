// internal/server/handlers/forecast.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	forecastDomain "trendpulse/internal/domain/forecast"
	"trendpulse/internal/service/forecast"
)

// ForecastHandler handles prediction HTTP requests
type ForecastHandler struct {
	generator *forecast.Generator
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(generator *forecast.Generator) *ForecastHandler {
	return &ForecastHandler{
		generator: generator,
	}
}

// predictRequest is the body of a prediction request
type predictRequest struct {
	Type     string `json:"type"`
	Platform string `json:"platform"`
}

// Predict generates a new prediction for the requested horizon and
// platform
func (h *ForecastHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	horizon := forecastDomain.Horizon(req.Type)
	if !horizon.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid prediction type", nil)
		return
	}

	platform, ok := parsePlatform(req.Platform, true)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid platform", nil)
		return
	}

	prediction, err := h.generator.Predict(r.Context(), horizon, platform)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate prediction", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, prediction)
}

// GetPrediction returns a stored prediction by ID
func (h *ForecastHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing prediction ID", nil)
		return
	}

	prediction, err := h.generator.GetPrediction(r.Context(), id)
	if err != nil {
		if errors.Is(err, forecastDomain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Prediction not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get prediction", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, prediction)
}

// History lists previously generated predictions
func (h *ForecastHandler) History(w http.ResponseWriter, r *http.Request) {
	filter := forecastDomain.Filter{}

	if platformStr := r.URL.Query().Get("platform"); platformStr != "" {
		platform, ok := parsePlatform(platformStr, false)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid platform", nil)
			return
		}
		filter.Platform = platform
	}

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		horizon := forecastDomain.Horizon(typeStr)
		if !horizon.Valid() {
			respondWithError(w, http.StatusBadRequest, "Invalid prediction type", nil)
			return
		}
		filter.Type = horizon
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = limit
	}

	predictions, err := h.generator.History(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list predictions", err)
		return
	}

	if predictions == nil {
		predictions = []forecastDomain.Prediction{}
	}
	respondWithJSON(w, http.StatusOK, predictions)
}
