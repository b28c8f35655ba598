package forecast

import (
	"errors"
	"time"

	"trendpulse/internal/domain/engagement"
)

// ErrNotFound is returned when a requested prediction does not exist
var ErrNotFound = errors.New("prediction not found")

// Horizon is the forecast window type
type Horizon string

const (
	HorizonWeekly   Horizon = "weekly"
	HorizonMonthly  Horizon = "monthly"
	HorizonSeasonal Horizon = "seasonal"
)

// Valid reports whether h is one of the supported horizons
func (h Horizon) Valid() bool {
	switch h {
	case HorizonWeekly, HorizonMonthly, HorizonSeasonal:
		return true
	}
	return false
}

// Lookback returns the number of prior periods a horizon analyzes
func (h Horizon) Lookback() int {
	switch h {
	case HorizonWeekly:
		return 8
	case HorizonSeasonal:
		return 24
	default:
		return 6
	}
}

// CategoryForecast is one category's predicted trend movement.
// Trend values are 0-100; Confidence is a 0-1 fraction.
type CategoryForecast struct {
	Category       string   `json:"category"`
	CurrentTrend   float64  `json:"currentTrend"`
	PredictedTrend float64  `json:"predictedTrend"`
	Confidence     float64  `json:"confidence"`
	Factors        []string `json:"factors"`
	Timeframe      string   `json:"timeframe"`
}

// Prediction is the persisted output of one forecast run. Predictions
// are append-only: each run writes a new record, none is updated in
// place.
type Prediction struct {
	ID          string              `json:"id"`
	Type        Horizon             `json:"type"`
	Platform    engagement.Platform `json:"platform"`
	Categories  []CategoryForecast  `json:"categories"`
	Accuracy    float64             `json:"accuracy"`
	Insights    string              `json:"insights"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// Filter defines criteria for listing stored predictions
type Filter struct {
	Platform engagement.Platform
	Type     Horizon
	Limit    int
}

// GrowthSnapshot is a single time point of a channel's aggregate
// standing. History sequences are ordered oldest to newest.
type GrowthSnapshot struct {
	Date            time.Time `json:"date"`
	SubscriberCount int64     `json:"subscriberCount"`
	VideoCount      int64     `json:"videoCount"`
	AvgViews        float64   `json:"avgViews"`
	EngagementRate  float64   `json:"engagementRate"`
}

// GrowthProjection is the forward-looking summary computed from a
// snapshot history. Growth rates are percent units; ConfidenceScore
// is a 30-95 display score.
type GrowthProjection struct {
	MonthlyGrowthRate   float64 `json:"monthlyGrowthRate"`
	WeeklyGrowthRate    float64 `json:"weeklyGrowthRate"`
	GrowthAcceleration  float64 `json:"growthAcceleration"`
	NextMilestone       int64   `json:"nextMilestone"`
	TimeToMilestoneDays int     `json:"timeToMilestoneDays"`
	ConfidenceScore     float64 `json:"confidenceScore"`
}
