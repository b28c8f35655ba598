package engagement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngagementRate(t *testing.T) {
	r := Record{Views: 600, Likes: 50, Comments: 10}
	assert.InDelta(t, 10.0, EngagementRate(r), 0.0001)
}

func TestRatesWithZeroViews(t *testing.T) {
	r := Record{Views: 0, Likes: 50, Comments: 10, Shares: 5}

	assert.Zero(t, EngagementRate(r))
	assert.Zero(t, LikeRate(r))
	assert.Zero(t, CommentRate(r))
	assert.Zero(t, ShareRate(r))
	assert.Zero(t, ViralPotential(r))
	assert.Zero(t, ViralScore(r))
}

func TestViralPotentialWeighsSharesHighest(t *testing.T) {
	base := Record{Views: 1_000_000}

	shareHeavy := base
	shareHeavy.Shares = 100

	likeHeavy := base
	likeHeavy.Likes = 100

	assert.Greater(t, ViralPotential(shareHeavy), ViralPotential(likeHeavy))
}

func TestViralPotentialClamped(t *testing.T) {
	r := Record{Views: 100, Likes: 100, Comments: 100, Shares: 100}
	assert.Equal(t, 1.0, ViralPotential(r))
}

func TestViralScoreBounds(t *testing.T) {
	quiet := Record{Views: 100_000, Likes: 10}
	loud := Record{Views: 100, Likes: 100, Comments: 100, Shares: 100}

	assert.Less(t, ViralScore(quiet), ViralScoreThreshold)
	assert.Equal(t, 1.0, ViralScore(loud))
}

func TestEngagementVelocityFloor(t *testing.T) {
	now := time.Now()
	r := Record{Likes: 30, CreatedAt: now.Add(-10 * time.Minute)}

	// Less than an hour old measures against a one-hour floor
	assert.InDelta(t, 30.0, EngagementVelocity(r, now), 0.0001)

	r.CreatedAt = now.Add(-2 * time.Hour)
	assert.InDelta(t, 15.0, EngagementVelocity(r, now), 0.0001)
}

func TestComputeMetrics(t *testing.T) {
	records := []Record{
		{Views: 1000, Likes: 50, Comments: 10, Shares: 5},
		{Views: 1000, Likes: 50, Comments: 10, Shares: 5},
	}

	m := ComputeMetrics(records)

	assert.InDelta(t, 5.0, m.LikeRate, 0.0001)
	assert.InDelta(t, 1.0, m.CommentRate, 0.0001)
	assert.InDelta(t, 0.5, m.ShareRate, 0.0001)
	assert.InDelta(t, 6.5, m.EngagementRate, 0.0001)
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.Equal(t, Metrics{}, m)
}

func TestComputeMetricsViralFactor(t *testing.T) {
	records := []Record{
		{Views: 100, Likes: 100, Comments: 100, Shares: 100},
		{Views: 100_000, Likes: 10},
	}

	m := ComputeMetrics(records)
	assert.InDelta(t, 0.5, m.ViralFactor, 0.0001)
}

func TestNormalize(t *testing.T) {
	r := Record{CreatedAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	r.Normalize()

	assert.Equal(t, DefaultCategory, r.Category)
	assert.Equal(t, 2025, r.Year)
	assert.Equal(t, 3, r.MonthNumber)
	assert.Equal(t, 11, r.WeekNumber)
}

func TestPeriodBucketRate(t *testing.T) {
	b := PeriodBucket{Views: 600, Likes: 50, Comments: 10}
	assert.InDelta(t, 10.0, b.Rate(), 0.0001)

	assert.Zero(t, PeriodBucket{}.Rate())
}
