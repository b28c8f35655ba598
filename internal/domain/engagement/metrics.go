package engagement

import (
	"math"
	"time"
)

// Metric primitives. All of these are total functions: empty or
// zero-view input yields 0 rather than an error, because sparse data
// is expected, not exceptional.

// EngagementRate returns (likes+comments)/views as a percentage,
// 0 when the record has no views.
func EngagementRate(r Record) float64 {
	if r.Views == 0 {
		return 0
	}
	return float64(r.Likes+r.Comments) / float64(r.Views) * 100
}

// LikeRate returns likes/views as a percentage
func LikeRate(r Record) float64 {
	if r.Views == 0 {
		return 0
	}
	return float64(r.Likes) / float64(r.Views) * 100
}

// CommentRate returns comments/views as a percentage
func CommentRate(r Record) float64 {
	if r.Views == 0 {
		return 0
	}
	return float64(r.Comments) / float64(r.Views) * 100
}

// ShareRate returns shares/views as a percentage
func ShareRate(r Record) float64 {
	if r.Views == 0 {
		return 0
	}
	return float64(r.Shares) / float64(r.Views) * 100
}

// ViralPotential estimates share-worthiness as a 0-1 fraction.
// Shares carry the highest weight, then comments, then likes; the
// 0.5/0.3/0.2 weights are fixed design constants and the ordering
// must be preserved.
func ViralPotential(r Record) float64 {
	if r.Views == 0 {
		return 0
	}
	views := float64(r.Views)
	weighted := float64(r.Shares)/views*0.5 +
		float64(r.Comments)/views*0.3 +
		float64(r.Likes)/views*0.2
	return clamp01(weighted * 1000)
}

// ViralScore is the alternate 0-1 viral composite used for viral
// content selection. It is intentionally kept separate from
// ViralPotential: the two feed different downstream filters with
// different thresholds.
func ViralScore(r Record) float64 {
	if r.Views == 0 {
		return 0
	}
	views := float64(r.Views)
	total := float64(r.Likes+r.Comments+r.Shares) / views
	shareComponent := float64(r.Shares) / views * 10
	commentComponent := float64(r.Comments) / views * 5
	return clamp01((total + shareComponent + commentComponent) / 3)
}

// EngagementVelocity returns total engagement per hour since the
// record was created. Records published less than an hour ago are
// measured against a one-hour floor.
func EngagementVelocity(r Record, now time.Time) float64 {
	hours := now.Sub(r.CreatedAt).Hours()
	if hours < 1 {
		hours = 1
	}
	return float64(r.Likes+r.Comments+r.Shares) / hours
}

// ViralPotentialThreshold marks records counted into ViralFactor
const ViralPotentialThreshold = 0.7

// ViralScoreThreshold marks records selected as viral content
const ViralScoreThreshold = 0.6

// ComputeMetrics derives population-level engagement metrics from a
// set of records. Rates are computed over summed counters so large
// records weigh more than small ones; EngagementRate is the sum of
// the three rates.
func ComputeMetrics(records []Record) Metrics {
	var views, likes, comments, shares int64
	viral := 0
	for _, r := range records {
		views += r.Views
		likes += r.Likes
		comments += r.Comments
		shares += r.Shares
		if ViralPotential(r) > ViralPotentialThreshold {
			viral++
		}
	}

	var m Metrics
	if views > 0 {
		m.LikeRate = round2(float64(likes) / float64(views) * 100)
		m.CommentRate = round2(float64(comments) / float64(views) * 100)
		m.ShareRate = round2(float64(shares) / float64(views) * 100)
		m.EngagementRate = round2(m.LikeRate + m.CommentRate + m.ShareRate)
	}
	if len(records) > 0 {
		m.ViralFactor = float64(viral) / float64(len(records))
	}
	return m
}

// Rate converts a bucket's counters into its aggregate engagement
// rate, using the same formula as the per-record primitive.
func (b PeriodBucket) Rate() float64 {
	if b.Views == 0 {
		return 0
	}
	return float64(b.Likes+b.Comments) / float64(b.Views) * 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
