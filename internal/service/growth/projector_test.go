package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trendpulse/internal/domain/forecast"
)

func snapshots(subscribers ...int64) []forecast.GrowthSnapshot {
	history := make([]forecast.GrowthSnapshot, 0, len(subscribers))
	for _, count := range subscribers {
		history = append(history, forecast.GrowthSnapshot{SubscriberCount: count})
	}
	return history
}

func TestNextMilestone(t *testing.T) {
	tests := []struct {
		current int64
		want    int64
	}{
		{0, 100_000},
		{95_000, 100_000},
		{100_000, 500_000},
		{150_000, 500_000},
		{600_000, 1_000_000},
		{1_200_000, 2_000_000},
		{3_500_000, 4_000_000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextMilestone(tt.current), "current %d", tt.current)
	}
}

func TestProjectGrowthRates(t *testing.T) {
	p := NewProjector().Project(snapshots(100_000, 110_000))

	assert.InDelta(t, 10.0, p.MonthlyGrowthRate, 0.0001)
	assert.InDelta(t, 2.31, p.WeeklyGrowthRate, 0.001)
	assert.Equal(t, int64(500_000), p.NextMilestone)
}

func TestProjectShortHistory(t *testing.T) {
	p := NewProjector().Project(snapshots(50_000))

	assert.Zero(t, p.MonthlyGrowthRate)
	assert.Zero(t, p.WeeklyGrowthRate)
	assert.Equal(t, int64(100_000), p.NextMilestone)
	assert.Equal(t, UnreachableMilestoneDays, p.TimeToMilestoneDays)
}

func TestProjectAccelerationDefaults(t *testing.T) {
	// Fewer than four snapshots cannot compare growth rates
	p := NewProjector().Project(snapshots(100, 110, 121))
	assert.Equal(t, 1.0, p.GrowthAcceleration)
}

func TestProjectAcceleration(t *testing.T) {
	// Older rate 10%, recent rate 20%: growth is accelerating twofold
	p := NewProjector().Project(snapshots(100_000, 110_000, 121_000, 145_200))
	assert.InDelta(t, 2.0, p.GrowthAcceleration, 0.001)
}

func TestTimeToMilestone(t *testing.T) {
	// 10% monthly growth on 90k subscribers gains 9k per month; the
	// 100k milestone is 10k away, roughly 33 days out
	p := NewProjector().Project(snapshots(81_818, 90_000))

	assert.InDelta(t, 10.0, p.MonthlyGrowthRate, 0.01)
	assert.InDelta(t, 33, p.TimeToMilestoneDays, 1)
}

func TestTimeToMilestoneUnreachable(t *testing.T) {
	// Shrinking audiences never reach the next milestone
	p := NewProjector().Project(snapshots(100_000, 90_000))
	assert.Equal(t, UnreachableMilestoneDays, p.TimeToMilestoneDays)

	// Flat audiences never reach it either
	p = NewProjector().Project(snapshots(100_000, 100_000))
	assert.Equal(t, UnreachableMilestoneDays, p.TimeToMilestoneDays)
}

func TestTimeToMilestoneSlowGrowthReportsRealDays(t *testing.T) {
	// 0.1% monthly growth reaches 500k eventually; the real day count
	// is reported, not the unreachable sentinel
	p := NewProjector().Project(snapshots(100_000, 100_100))

	assert.Greater(t, p.TimeToMilestoneDays, UnreachableMilestoneDays)
	assert.InDelta(t, 119_850, p.TimeToMilestoneDays, 1)
}

func TestConfidenceScoreBounds(t *testing.T) {
	steady := NewProjector().Project(snapshots(100_000, 110_000, 121_000, 133_100, 146_410))
	erratic := NewProjector().Project(snapshots(100_000, 500_000, 50_000, 800_000, 20_000, 900_000))

	assert.GreaterOrEqual(t, steady.ConfidenceScore, erratic.ConfidenceScore)
	assert.GreaterOrEqual(t, steady.ConfidenceScore, 30.0)
	assert.LessOrEqual(t, steady.ConfidenceScore, 95.0)
	assert.GreaterOrEqual(t, erratic.ConfidenceScore, 30.0)
	assert.LessOrEqual(t, erratic.ConfidenceScore, 95.0)
}
