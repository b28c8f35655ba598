package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"trendpulse/internal/domain/engagement"
	forecastDomain "trendpulse/internal/domain/forecast"
	"trendpulse/internal/service/analytics"
)

// categorySummary is the structured statistical draft submitted to
// the insight service for one category
type categorySummary struct {
	Category        string              `json:"category"`
	ViewTrend       analytics.Direction `json:"viewTrend"`
	EngagementTrend analytics.Direction `json:"engagementTrend"`
	Volatility      float64             `json:"volatility"`
	Momentum        float64             `json:"momentum"`
	HasSeasonality  bool                `json:"hasSeasonality"`
	PeakMonth       int                 `json:"peakMonth,omitempty"`
}

// confidenceCap returns the per-horizon ceiling applied to every
// category confidence. Longer horizons cap lower.
func confidenceCap(horizon forecastDomain.Horizon) float64 {
	switch horizon {
	case forecastDomain.HorizonWeekly:
		return 0.9
	case forecastDomain.HorizonSeasonal:
		return 0.8
	default:
		return 0.85
	}
}

// timeframeLabel returns the display timeframe for a horizon
func timeframeLabel(horizon forecastDomain.Horizon) string {
	switch horizon {
	case forecastDomain.HorizonWeekly:
		return "next 7 days"
	case forecastDomain.HorizonSeasonal:
		return "next quarter"
	default:
		return "next 30 days"
	}
}

// summarize reduces per-category bucket series to the statistical
// draft the insight service is prompted with. Seasonality is only
// meaningful on monthly series long enough to cover a year.
func summarize(buckets []engagement.PeriodBucket, horizon forecastDomain.Horizon) []categorySummary {
	grouped := analytics.GroupByCategory(buckets)

	summaries := make([]categorySummary, 0, len(grouped))
	for category, series := range grouped {
		views := make([]float64, len(series))
		rates := make([]float64, len(series))
		seasonal := make([]analytics.SeasonalPoint, len(series))
		for i, b := range series {
			views[i] = float64(b.Views)
			rates[i] = b.Rate()
			seasonal[i] = analytics.SeasonalPoint{Month: b.Month, Value: float64(b.Views)}
		}

		summary := categorySummary{
			Category:        category,
			ViewTrend:       analytics.TrendDirection(views),
			EngagementTrend: analytics.TrendDirection(rates),
			Volatility:      analytics.Volatility(views),
			Momentum:        analytics.Momentum(views),
		}
		if horizon != forecastDomain.HorizonWeekly {
			summary.HasSeasonality, summary.PeakMonth = analytics.Seasonality(seasonal)
		}

		summaries = append(summaries, summary)
	}
	return summaries
}

// buildPrompt renders the horizon-specific prompt around the summary
// payload
func buildPrompt(horizon forecastDomain.Horizon, platform engagement.Platform, summaries []categorySummary, limit int) (string, error) {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("error marshaling summaries: %w", err)
	}

	return fmt.Sprintf(
		"You are a social media trend analyst. Based on the following %s statistics for %s, "+
			"predict category trend strength for the %s.\n\n%s\n\n"+
			"Respond with only a JSON array of at most %d objects, each shaped as "+
			`{"category": string, "currentTrend": number 0-100, "predictedTrend": number 0-100, `+
			`"confidence": number 0-1, "factors": [up to 3 strings], "timeframe": string}.`,
		horizon, platform, timeframeLabel(horizon), payload, limit,
	), nil
}

// parseForecasts extracts the first JSON array from the insight
// response and decodes it
func parseForecasts(text string) ([]forecastDomain.CategoryForecast, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var categories []forecastDomain.CategoryForecast
	if err := json.Unmarshal([]byte(text[start:end+1]), &categories); err != nil {
		return nil, fmt.Errorf("error decoding forecasts: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("empty forecast array")
	}

	return categories, nil
}

// sanitize enforces the prediction invariants on whichever path
// produced the categories: at most cap entries, confidence within
// [0, horizon cap], trends within 0-100, and a populated timeframe.
func sanitize(categories []forecastDomain.CategoryForecast, horizon forecastDomain.Horizon, limit int) []forecastDomain.CategoryForecast {
	if len(categories) > limit {
		categories = categories[:limit]
	}

	ceiling := confidenceCap(horizon)
	for i := range categories {
		c := &categories[i]
		c.CurrentTrend = math.Max(0, math.Min(100, c.CurrentTrend))
		c.PredictedTrend = math.Max(0, math.Min(100, c.PredictedTrend))
		c.Confidence = math.Max(0, math.Min(ceiling, c.Confidence))
		if len(c.Factors) > 3 {
			c.Factors = c.Factors[:3]
		}
		if c.Timeframe == "" {
			c.Timeframe = timeframeLabel(horizon)
		}
		if c.Category == "" {
			c.Category = engagement.DefaultCategory
		}
	}
	return categories
}

// fallbackCategories is the fixed list used when the insight service
// cannot contribute
var fallbackCategories = []string{"Music", "Gaming", "Entertainment", "Education", "Technology"}

// fallbackForecasts builds the deterministic, lower-fidelity
// predictions substituted on any insight failure. Baseline trend
// values with a 0.7-0.9 confidence band; generic factors mark the
// degradation for downstream consumers.
func fallbackForecasts(horizon forecastDomain.Horizon) []forecastDomain.CategoryForecast {
	timeframe := timeframeLabel(horizon)

	categories := make([]forecastDomain.CategoryForecast, 0, len(fallbackCategories))
	for i, name := range fallbackCategories {
		confidence := 0.9 - float64(i)*0.05
		if confidence < 0.7 {
			confidence = 0.7
		}
		categories = append(categories, forecastDomain.CategoryForecast{
			Category:       name,
			CurrentTrend:   50,
			PredictedTrend: 50,
			Confidence:     confidence,
			Factors:        []string{"historical engagement baseline", "platform average growth"},
			Timeframe:      timeframe,
		})
	}
	return categories
}

// insightsText renders the free-text summary stored with a prediction
func insightsText(horizon forecastDomain.Horizon, summaries []categorySummary, usedFallback bool) string {
	rising := 0
	falling := 0
	for _, s := range summaries {
		switch s.ViewTrend {
		case analytics.DirectionUp:
			rising++
		case analytics.DirectionDown:
			falling++
		}
	}

	text := fmt.Sprintf(
		"%s forecast over %s: %d of %d categories trending up, %d trending down.",
		horizon, timeframeLabel(horizon), rising, len(summaries), falling,
	)
	if usedFallback {
		text += " Generated from baseline statistics without model assistance."
	}
	return text
}
