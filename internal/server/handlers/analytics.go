// internal/server/handlers/analytics.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trendpulse/internal/domain/engagement"
	"trendpulse/internal/service/analytics"
)

// AnalyticsHandler handles engagement analysis HTTP requests
type AnalyticsHandler struct {
	service   *analytics.Service
	benchmark *analytics.BenchmarkEngine
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *analytics.Service, benchmark *analytics.BenchmarkEngine) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:   service,
		benchmark: benchmark,
	}
}

// AnalyzeEngagement runs an engagement analysis for the requested
// platform and timeframe
func (h *AnalyticsHandler) AnalyzeEngagement(w http.ResponseWriter, r *http.Request) {
	platform, ok := parsePlatform(r.URL.Query().Get("platform"), true)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid platform", nil)
		return
	}

	timeframe := analytics.Timeframe(r.URL.Query().Get("timeframe"))
	switch timeframe {
	case "", analytics.TimeframeWeek, analytics.TimeframeMonth:
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid timeframe", nil)
		return
	}

	analysis, err := h.service.AnalyzeEngagement(r.Context(), platform, timeframe)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to analyze engagement", err)
		return
	}

	respondWithJSON(w, http.StatusOK, analysis)
}

// GetBenchmarks returns the percentile benchmark for a platform. An
// optional rate query parameter grades that engagement rate against
// the benchmark.
func (h *AnalyticsHandler) GetBenchmarks(w http.ResponseWriter, r *http.Request) {
	platform, ok := parsePlatform(chi.URLParam(r, "platform"), false)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid platform", nil)
		return
	}

	benchmark, err := h.benchmark.GetBenchmarks(r.Context(), platform)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to compute benchmarks", err)
		return
	}

	if rateStr := r.URL.Query().Get("rate"); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid rate", err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"benchmark":  benchmark,
			"grade":      engagement.GradeValue(rate, benchmark),
			"nextTarget": engagement.NextGradeTarget(rate, benchmark),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, benchmark)
}

// parsePlatform validates a platform string. An empty value is only
// accepted where the operation supports an all-platform scope.
func parsePlatform(value string, allowEmpty bool) (engagement.Platform, bool) {
	switch engagement.Platform(value) {
	case engagement.PlatformYouTube, engagement.PlatformTikTok, engagement.PlatformInstagram:
		return engagement.Platform(value), true
	case "":
		return "", allowEmpty
	}
	return "", false
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
