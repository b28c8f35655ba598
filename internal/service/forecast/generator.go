package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"trendpulse/internal/domain/engagement"
	forecastDomain "trendpulse/internal/domain/forecast"
	"trendpulse/internal/service/analytics"
)

// InsightGenerator defines the external natural-language collaborator
// used to phrase category forecasts. It never computes statistics;
// any failure routes to the deterministic fallback.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PredictionStore defines storage for predictions
type PredictionStore interface {
	SavePrediction(ctx context.Context, p forecastDomain.Prediction) error
	FindPredictions(ctx context.Context, filter forecastDomain.Filter) ([]forecastDomain.Prediction, error)
	FindPredictionByID(ctx context.Context, id string) (*forecastDomain.Prediction, error)
}

// GeneratorConfig contains configuration for the forecast generator
type GeneratorConfig struct {
	EventsTopic    string
	InsightTimeout time.Duration
	CategoryCap    int
}

// Generator produces category-level trend predictions by combining
// the statistical analyzer with the external insight service
type Generator struct {
	aggregator *analytics.Aggregator
	insight    InsightGenerator
	store      PredictionStore
	eventBus   *nats.Conn
	config     GeneratorConfig
	now        func() time.Time
}

// NewGenerator creates a new forecast generator
func NewGenerator(
	aggregator *analytics.Aggregator,
	insight InsightGenerator,
	store PredictionStore,
	eventBus *nats.Conn,
	config GeneratorConfig,
) *Generator {
	if config.InsightTimeout <= 0 {
		config.InsightTimeout = 20 * time.Second
	}
	if config.CategoryCap <= 0 {
		config.CategoryCap = 10
	}
	return &Generator{
		aggregator: aggregator,
		insight:    insight,
		store:      store,
		eventBus:   eventBus,
		config:     config,
		now:        time.Now,
	}
}

// Predict runs one forecast for the horizon and platform. The
// returned prediction is always structurally complete: insight
// service failures degrade to the deterministic fallback and are
// never surfaced as errors. Only record-store failures propagate.
func (g *Generator) Predict(ctx context.Context, horizon forecastDomain.Horizon, platform engagement.Platform) (*forecastDomain.Prediction, error) {
	if !horizon.Valid() {
		return nil, fmt.Errorf("unsupported horizon: %s", horizon)
	}

	buckets, err := g.collect(ctx, horizon, platform)
	if err != nil {
		return nil, fmt.Errorf("error collecting history: %w", err)
	}

	summaries := summarize(buckets, horizon)

	categories, usedFallback := g.externalize(ctx, horizon, platform, summaries)
	categories = sanitize(categories, horizon, g.config.CategoryCap)

	prediction := &forecastDomain.Prediction{
		ID:          uuid.New().String(),
		Type:        horizon,
		Platform:    platform,
		Categories:  categories,
		Accuracy:    accuracy(buckets),
		Insights:    insightsText(horizon, summaries, usedFallback),
		GeneratedAt: g.now(),
	}

	// Persistence and event publication are best-effort: a computed
	// prediction is still returned to the caller when either fails.
	if g.store != nil {
		if err := g.store.SavePrediction(ctx, *prediction); err != nil {
			log.Printf("Error saving prediction %s: %v", prediction.ID, err)
		}
	}
	g.publishPrediction(prediction)

	return prediction, nil
}

// History returns previously persisted predictions matching the filter
func (g *Generator) History(ctx context.Context, filter forecastDomain.Filter) ([]forecastDomain.Prediction, error) {
	if g.store == nil {
		return nil, nil
	}
	return g.store.FindPredictions(ctx, filter)
}

// GetPrediction returns one persisted prediction by ID
func (g *Generator) GetPrediction(ctx context.Context, id string) (*forecastDomain.Prediction, error) {
	if g.store == nil {
		return nil, forecastDomain.ErrNotFound
	}
	return g.store.FindPredictionByID(ctx, id)
}

// collect aggregates the lookback history for a horizon
func (g *Generator) collect(ctx context.Context, horizon forecastDomain.Horizon, platform engagement.Platform) ([]engagement.PeriodBucket, error) {
	now := g.now()
	year, week := now.ISOWeek()
	month := int(now.Month())

	if horizon == forecastDomain.HorizonWeekly {
		return g.aggregator.AggregateWeekly(ctx, platform, year, week, horizon.Lookback())
	}
	return g.aggregator.AggregateMonthly(ctx, platform, year, month, horizon.Lookback())
}

// externalize submits the summaries to the insight service and parses
// its response. Any failure, including a malformed response, yields
// the deterministic fallback instead.
func (g *Generator) externalize(ctx context.Context, horizon forecastDomain.Horizon, platform engagement.Platform, summaries []categorySummary) ([]forecastDomain.CategoryForecast, bool) {
	if g.insight == nil || len(summaries) == 0 {
		return fallbackForecasts(horizon), true
	}

	prompt, err := buildPrompt(horizon, platform, summaries, g.config.CategoryCap)
	if err != nil {
		log.Printf("Error building forecast prompt: %v", err)
		return fallbackForecasts(horizon), true
	}

	insightCtx, cancel := context.WithTimeout(ctx, g.config.InsightTimeout)
	defer cancel()

	text, err := g.insight.Generate(insightCtx, prompt)
	if err != nil {
		log.Printf("Insight service unavailable, using fallback forecasts: %v", err)
		return fallbackForecasts(horizon), true
	}

	categories, err := parseForecasts(text)
	if err != nil {
		log.Printf("Malformed insight response, using fallback forecasts: %v", err)
		return fallbackForecasts(horizon), true
	}

	return categories, false
}

// accuracy derives the run-level accuracy heuristic from the
// volatility of the aggregated view history. This is a volatility
// proxy, not a backtested measure: more volatile history caps the
// score lower, floored at 0.5.
func accuracy(buckets []engagement.PeriodBucket) float64 {
	views := make([]float64, len(buckets))
	for i, b := range buckets {
		views[i] = float64(b.Views)
	}

	volatility := analytics.Volatility(views)
	penalty := math.Min(volatility*0.2, 0.2)
	return math.Max(0.5, 0.85-penalty)
}

// publishPrediction publishes a generated prediction to the event bus
func (g *Generator) publishPrediction(p *forecastDomain.Prediction) {
	if g.eventBus == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"id":       p.ID,
		"type":     p.Type,
		"platform": p.Platform,
		"accuracy": p.Accuracy,
		"time":     p.GeneratedAt,
	})
	if err != nil {
		log.Printf("Error marshaling prediction event: %v", err)
		return
	}

	topic := fmt.Sprintf("%s.generated", g.config.EventsTopic)
	if err := g.eventBus.Publish(topic, payload); err != nil {
		log.Printf("Error publishing prediction event: %v", err)
	}
}
