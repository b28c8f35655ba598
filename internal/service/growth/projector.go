package growth

import (
	"math"

	"trendpulse/internal/domain/forecast"
	"trendpulse/internal/service/analytics"
)

// weeksPerMonth converts a monthly growth rate to a weekly one
const weeksPerMonth = 4.33

// UnreachableMilestoneDays signals that the next milestone is not
// reachable at the current growth rate. A defined business value, not
// an error.
const UnreachableMilestoneDays = 999

// Projector computes growth projections from snapshot histories
type Projector struct{}

// NewProjector creates a new growth projector
func NewProjector() *Projector {
	return &Projector{}
}

// Project derives the growth projection from a snapshot history
// ordered oldest to newest. Histories shorter than two snapshots
// degrade to a zero-growth projection.
func (p *Projector) Project(history []forecast.GrowthSnapshot) forecast.GrowthProjection {
	var current, previous forecast.GrowthSnapshot
	if len(history) > 0 {
		current = history[len(history)-1]
	}
	if len(history) > 1 {
		previous = history[len(history)-2]
	}

	monthlyRate := growthRate(previous.SubscriberCount, current.SubscriberCount)

	projection := forecast.GrowthProjection{
		MonthlyGrowthRate:  round2(monthlyRate),
		WeeklyGrowthRate:   round2(monthlyRate / weeksPerMonth),
		GrowthAcceleration: acceleration(history),
		NextMilestone:      NextMilestone(current.SubscriberCount),
	}
	projection.TimeToMilestoneDays = timeToMilestone(current.SubscriberCount, projection.NextMilestone, monthlyRate)
	projection.ConfidenceScore = confidenceScore(history)

	return projection
}

// growthRate returns the percent change between two counts, 0 when
// there is no previous count to compare against
func growthRate(previous, current int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// acceleration compares the most recent single-period growth rate to
// the rate two periods prior. A zero older rate defaults to 1, meaning
// no acceleration.
func acceleration(history []forecast.GrowthSnapshot) float64 {
	if len(history) < 4 {
		return 1
	}

	n := len(history)
	recent := growthRate(history[n-2].SubscriberCount, history[n-1].SubscriberCount)
	older := growthRate(history[n-4].SubscriberCount, history[n-3].SubscriberCount)
	if older == 0 {
		return 1
	}
	return round2(recent / older)
}

// NextMilestone returns the next subscriber milestone strictly above
// the current count: 100k, 500k, 1M, then million steps.
func NextMilestone(current int64) int64 {
	switch {
	case current < 100_000:
		return 100_000
	case current < 500_000:
		return 500_000
	case current < 1_000_000:
		return 1_000_000
	default:
		return (current/1_000_000 + 1) * 1_000_000
	}
}

// timeToMilestone estimates the days until the milestone is reached
// at the current monthly growth rate. The sentinel is reserved for
// non-positive growth; slow but growing audiences report their real
// day count however large.
func timeToMilestone(current, milestone int64, monthlyRate float64) int {
	monthlyGain := float64(current) * monthlyRate / 100
	if monthlyGain <= 0 {
		return UnreachableMilestoneDays
	}

	return int(math.Round(float64(milestone-current) / monthlyGain * 30))
}

// confidenceScore grades how trustworthy the projection is from the
// stability of the subscriber series, on a 30-95 scale
func confidenceScore(history []forecast.GrowthSnapshot) float64 {
	series := make([]float64, len(history))
	for i, s := range history {
		series[i] = float64(s.SubscriberCount)
	}

	strength := analytics.TrendStrength(series)
	volatility := analytics.Volatility(series)

	score := 70 + float64(strength)*2.5 - volatility*100
	return math.Max(30, math.Min(95, round2(score)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
