package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"trendpulse/internal/domain/engagement"
)

// BenchmarkEngineConfig contains configuration for the benchmark engine
type BenchmarkEngineConfig struct {
	SampleSize int
}

// BenchmarkEngine computes percentile benchmarks of engagement rate
// across a platform's recent record population
type BenchmarkEngine struct {
	store  RecordStore
	config BenchmarkEngineConfig
}

// NewBenchmarkEngine creates a new benchmark engine
func NewBenchmarkEngine(store RecordStore, config BenchmarkEngineConfig) *BenchmarkEngine {
	if config.SampleSize <= 0 {
		config.SampleSize = 500
	}
	return &BenchmarkEngine{store: store, config: config}
}

// GetBenchmarks computes the percentile snapshot for a platform from
// its most recent records. An empty population yields a zero-valued
// benchmark, not an error.
func (e *BenchmarkEngine) GetBenchmarks(ctx context.Context, platform engagement.Platform) (engagement.Benchmark, error) {
	records, err := e.store.FetchRecords(ctx, engagement.Filter{
		Platform: platform,
		Limit:    e.config.SampleSize,
	})
	if err != nil {
		return engagement.Benchmark{}, fmt.Errorf("error fetching records: %w", err)
	}

	rates := make([]float64, 0, len(records))
	var likeSum, commentSum, engagementSum float64
	for _, r := range records {
		rates = append(rates, engagement.EngagementRate(r))
		likeSum += engagement.LikeRate(r)
		commentSum += engagement.CommentRate(r)
		engagementSum += engagement.EngagementRate(r)
	}

	// Percentile extraction needs the rates sorted ascending; the
	// averages are independent of the sort.
	sort.Float64s(rates)

	b := engagement.Benchmark{
		Platform:        platform,
		Top10Percent:    percentile(rates, 0.9),
		Top25Percent:    percentile(rates, 0.75),
		Median:          percentile(rates, 0.5),
		Bottom25Percent: percentile(rates, 0.25),
		Bottom10Percent: percentile(rates, 0.1),
		SampleSize:      len(records),
	}
	if len(records) > 0 {
		n := float64(len(records))
		b.AvgLikeRate = likeSum / n
		b.AvgCommentRate = commentSum / n
		b.AvgEngagementRate = engagementSum / n
	}

	return b, nil
}

// percentile returns the nearest-rank percentile of an ascending
// sorted series using index ceil(n*p)-1. Nearest-rank semantics are
// load-bearing for benchmark reproducibility; do not switch to
// interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
