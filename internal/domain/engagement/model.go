package engagement

import (
	"time"
)

// Platform identifies the social network a record was fetched from
type Platform string

const (
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformTikTok    Platform = "TIKTOK"
	PlatformInstagram Platform = "INSTAGRAM"
)

// DefaultCategory buckets records that were fetched without a category
const DefaultCategory = "Other"

// Record is one piece of content's observed counters at fetch time.
// Records are immutable snapshots owned by the record store; the
// analytics core only reads them.
type Record struct {
	ID          string    `json:"id"`
	Platform    Platform  `json:"platform"`
	Category    string    `json:"category"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	Shares      int64     `json:"shares"`
	CreatedAt   time.Time `json:"createdAt"`
	WeekNumber  int       `json:"weekNumber"`
	MonthNumber int       `json:"monthNumber"`
	Year        int       `json:"year"`
}

// Normalize fills the derived period fields from CreatedAt and buckets
// a missing category under DefaultCategory.
func (r *Record) Normalize() {
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	year, week := r.CreatedAt.ISOWeek()
	r.Year = year
	r.WeekNumber = week
	r.MonthNumber = int(r.CreatedAt.Month())
}

// PeriodBucket aggregates the records of one category within one
// weekly or monthly period. Buckets are created per analysis run and
// never mutated afterwards.
type PeriodBucket struct {
	Category string `json:"category"`
	Year     int    `json:"year"`
	Week     int    `json:"week,omitempty"`
	Month    int    `json:"month,omitempty"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Shares   int64  `json:"shares"`
}

// Metrics is the derived, stateless engagement summary of a record
// population. Rates are percent units; ViralFactor is a 0-1 fraction.
type Metrics struct {
	LikeRate       float64 `json:"likeRate"`
	CommentRate    float64 `json:"commentRate"`
	ShareRate      float64 `json:"shareRate"`
	EngagementRate float64 `json:"engagementRate"`
	ViralFactor    float64 `json:"viralFactor"`
}

// Benchmark is a point-in-time percentile snapshot of engagement rates
// across a platform's recent record population.
type Benchmark struct {
	Platform          Platform `json:"platform"`
	Top10Percent      float64  `json:"top10Percent"`
	Top25Percent      float64  `json:"top25Percent"`
	Median            float64  `json:"median"`
	Bottom25Percent   float64  `json:"bottom25Percent"`
	Bottom10Percent   float64  `json:"bottom10Percent"`
	AvgLikeRate       float64  `json:"avgLikeRate"`
	AvgCommentRate    float64  `json:"avgCommentRate"`
	AvgEngagementRate float64  `json:"avgEngagementRate"`
	SampleSize        int      `json:"sampleSize"`
}

// PeriodWindow is one contiguous range of weekly or monthly periods
// within a single year. Lookbacks that cross a year boundary are
// expressed as multiple windows combined with OR by the store.
type PeriodWindow struct {
	Year      int
	WeekFrom  int
	WeekTo    int
	MonthFrom int
	MonthTo   int
}

// Filter defines criteria for fetching records from the store
type Filter struct {
	Platform Platform
	Category string
	Windows  []PeriodWindow
	Limit    int
}
