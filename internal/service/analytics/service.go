package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/nats-io/nats.go"

	"trendpulse/internal/domain/engagement"
)

// Timeframe selects the aggregation granularity of an analysis run
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// ServiceConfig contains configuration for the analytics service
type ServiceConfig struct {
	EventsTopic       string
	WeeklyLookback    int
	MonthlyLookback   int
	ViralContentLimit int
}

// TrendPoint is one period of the trend-over-time series
type TrendPoint struct {
	Year           int     `json:"year"`
	Week           int     `json:"week,omitempty"`
	Month          int     `json:"month,omitempty"`
	Views          int64   `json:"views"`
	EngagementRate float64 `json:"engagementRate"`
}

// PlatformBreakdown is one platform's share of an analysis
type PlatformBreakdown struct {
	Platform    engagement.Platform `json:"platform"`
	Metrics     engagement.Metrics  `json:"metrics"`
	RecordCount int                 `json:"recordCount"`
}

// ViralContent is a record selected by the viral score heuristic
type ViralContent struct {
	Record     engagement.Record `json:"record"`
	ViralScore float64           `json:"viralScore"`
}

// EngagementAnalysis is the structurally complete result of one
// analysis run
type EngagementAnalysis struct {
	Platform        engagement.Platform `json:"platform,omitempty"`
	Timeframe       Timeframe           `json:"timeframe"`
	Overall         engagement.Metrics  `json:"overall"`
	Platforms       []PlatformBreakdown `json:"platforms"`
	ViralContent    []ViralContent      `json:"viralContent"`
	TrendOverTime   []TrendPoint        `json:"trendOverTime"`
	TrendDirection  Direction           `json:"trendDirection"`
	Recommendations []string            `json:"recommendations"`
	Insight         string              `json:"insight"`
	GeneratedAt     time.Time           `json:"generatedAt"`
}

// Service composes the aggregator and statistical analyzer into the
// engagement analysis operation exposed to callers
type Service struct {
	store      RecordStore
	aggregator *Aggregator
	eventBus   *nats.Conn
	config     ServiceConfig
	now        func() time.Time
}

// NewService creates a new analytics service
func NewService(store RecordStore, aggregator *Aggregator, eventBus *nats.Conn, config ServiceConfig) *Service {
	if config.WeeklyLookback <= 0 {
		config.WeeklyLookback = 8
	}
	if config.MonthlyLookback <= 0 {
		config.MonthlyLookback = 6
	}
	if config.ViralContentLimit <= 0 {
		config.ViralContentLimit = 10
	}
	return &Service{
		store:      store,
		aggregator: aggregator,
		eventBus:   eventBus,
		config:     config,
		now:        time.Now,
	}
}

// AnalyzeEngagement computes the engagement analysis for a platform
// (or all platforms when empty) over the given timeframe. The result
// is always structurally complete; sparse data degrades to zero
// metrics and an empty trend series.
func (s *Service) AnalyzeEngagement(ctx context.Context, platform engagement.Platform, timeframe Timeframe) (*EngagementAnalysis, error) {
	now := s.now()
	year, week := now.ISOWeek()
	month := int(now.Month())

	var buckets []engagement.PeriodBucket
	var windows []engagement.PeriodWindow
	var err error

	switch timeframe {
	case TimeframeMonth:
		buckets, err = s.aggregator.AggregateMonthly(ctx, platform, year, month, s.config.MonthlyLookback)
		windows = monthlyWindows(year, month, s.config.MonthlyLookback)
	default:
		timeframe = TimeframeWeek
		buckets, err = s.aggregator.AggregateWeekly(ctx, platform, year, week, s.config.WeeklyLookback)
		windows = weeklyWindows(year, week, s.config.WeeklyLookback)
	}
	if err != nil {
		return nil, fmt.Errorf("error aggregating records: %w", err)
	}

	records, err := s.store.FetchRecords(ctx, engagement.Filter{
		Platform: platform,
		Windows:  windows,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching records: %w", err)
	}

	trend := trendSeries(buckets, timeframe == TimeframeWeek)
	views := make([]float64, len(trend))
	for i, p := range trend {
		views[i] = float64(p.Views)
	}

	analysis := &EngagementAnalysis{
		Platform:       platform,
		Timeframe:      timeframe,
		Overall:        engagement.ComputeMetrics(records),
		Platforms:      platformBreakdown(records),
		ViralContent:   s.viralContent(records),
		TrendOverTime:  trend,
		TrendDirection: TrendDirection(views),
		GeneratedAt:    now,
	}
	analysis.Recommendations = recommendations(analysis.Overall, analysis.TrendDirection)
	analysis.Insight = narrative(analysis, Volatility(views))

	s.publishAnalysis(analysis)

	return analysis, nil
}

// trendSeries collapses per-category buckets into one point per period
func trendSeries(buckets []engagement.PeriodBucket, weekly bool) []TrendPoint {
	type key struct{ year, period int }

	totals := make(map[key]*engagement.PeriodBucket)
	order := []key{}
	for _, b := range buckets {
		period := b.Month
		if weekly {
			period = b.Week
		}
		k := key{year: b.Year, period: period}
		t, ok := totals[k]
		if !ok {
			t = &engagement.PeriodBucket{Year: b.Year, Week: b.Week, Month: b.Month}
			totals[k] = t
			order = append(order, k)
		}
		t.Views += b.Views
		t.Likes += b.Likes
		t.Comments += b.Comments
		t.Shares += b.Shares
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].period < order[j].period
	})

	points := make([]TrendPoint, 0, len(order))
	for _, k := range order {
		t := totals[k]
		points = append(points, TrendPoint{
			Year:           t.Year,
			Week:           t.Week,
			Month:          t.Month,
			Views:          t.Views,
			EngagementRate: t.Rate(),
		})
	}
	return points
}

// platformBreakdown groups records per platform and derives metrics
// for each group
func platformBreakdown(records []engagement.Record) []PlatformBreakdown {
	grouped := make(map[engagement.Platform][]engagement.Record)
	for _, r := range records {
		grouped[r.Platform] = append(grouped[r.Platform], r)
	}

	breakdown := make([]PlatformBreakdown, 0, len(grouped))
	for platform, group := range grouped {
		breakdown = append(breakdown, PlatformBreakdown{
			Platform:    platform,
			Metrics:     engagement.ComputeMetrics(group),
			RecordCount: len(group),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Platform < breakdown[j].Platform
	})
	return breakdown
}

// viralContent selects the top records above the viral score
// threshold, highest score first
func (s *Service) viralContent(records []engagement.Record) []ViralContent {
	var viral []ViralContent
	for _, r := range records {
		score := engagement.ViralScore(r)
		if score > engagement.ViralScoreThreshold {
			viral = append(viral, ViralContent{Record: r, ViralScore: score})
		}
	}

	sort.Slice(viral, func(i, j int) bool {
		return viral[i].ViralScore > viral[j].ViralScore
	})

	if len(viral) > s.config.ViralContentLimit {
		viral = viral[:s.config.ViralContentLimit]
	}
	return viral
}

// recommendations derives short actionable suggestions from the
// overall metrics
func recommendations(m engagement.Metrics, direction Direction) []string {
	var recs []string

	if direction == DirectionDown {
		recs = append(recs, "Views are trending down; review posting cadence and refresh underperforming categories")
	}
	if m.CommentRate < m.LikeRate*0.1 {
		recs = append(recs, "Comment rate lags far behind like rate; prompt discussion with questions or polls")
	}
	if m.ShareRate < 0.05 && m.EngagementRate > 0 {
		recs = append(recs, "Shares are rare; add share-worthy hooks or calls to action")
	}
	if m.ViralFactor > 0.2 {
		recs = append(recs, "A large share of content shows viral potential; increase publishing frequency while momentum holds")
	}
	if len(recs) == 0 {
		recs = append(recs, "Engagement is steady; keep the current content mix")
	}
	return recs
}

// narrative renders a short human-readable summary of the analysis
func narrative(a *EngagementAnalysis, volatility float64) string {
	stability := "steady"
	if volatility > 0.3 {
		stability = "volatile"
	}

	scope := "all platforms"
	if a.Platform != "" {
		scope = string(a.Platform)
	}

	return fmt.Sprintf(
		"Engagement across %s is %s at %.2f%% with views trending %s; %d of the analyzed posts qualify as viral content.",
		scope, stability, a.Overall.EngagementRate, a.TrendDirection, len(a.ViralContent),
	)
}

// publishAnalysis publishes the analysis to the event bus.
// Publication is best-effort; failures are logged only.
func (s *Service) publishAnalysis(a *EngagementAnalysis) {
	if s.eventBus == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"platform":       a.Platform,
		"timeframe":      a.Timeframe,
		"engagementRate": a.Overall.EngagementRate,
		"trendDirection": a.TrendDirection,
		"time":           a.GeneratedAt,
	})
	if err != nil {
		log.Printf("Error marshaling analysis event: %v", err)
		return
	}

	topic := fmt.Sprintf("%s.engagement", s.config.EventsTopic)
	if err := s.eventBus.Publish(topic, payload); err != nil {
		log.Printf("Error publishing analysis event: %v", err)
	}
}
