package analytics

import (
	"math"
)

// Direction is the detected movement of a series
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// directionBand is the relative change a half-over-half comparison
// must exceed before a series counts as moving
const directionBand = 0.10

// seasonalitySpread is the per-month growth spread above which a
// series counts as seasonal
const seasonalitySpread = 0.02

// TrendDirection compares the mean of the second half of a series
// against the first half. Series shorter than two points are stable.
func TrendDirection(series []float64) Direction {
	if len(series) < 2 {
		return DirectionStable
	}

	mid := len(series) / 2
	first := mean(series[:mid])
	second := mean(series[mid:])

	if first == 0 {
		if second > 0 {
			return DirectionUp
		}
		return DirectionStable
	}

	change := (second - first) / first
	switch {
	case change > directionBand:
		return DirectionUp
	case change < -directionBand:
		return DirectionDown
	default:
		return DirectionStable
	}
}

// Volatility returns the coefficient of variation of period-over-period
// growth rates: population standard deviation divided by the mean.
// Series too short or too flat to produce growth rates yield 0.
func Volatility(series []float64) float64 {
	growth := growthRates(series)
	if len(growth) < 2 {
		return 0
	}

	m := mean(growth)
	if m == 0 {
		return 0
	}

	var sumSq float64
	for _, g := range growth {
		d := g - m
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(growth)))

	return stddev / math.Abs(m)
}

// Momentum compares the mean of the last three points against the
// mean of the three before them, as a relative change. Series shorter
// than six points, or with a zero older mean, yield 0.
func Momentum(series []float64) float64 {
	if len(series) < 6 {
		return 0
	}

	recent := mean(series[len(series)-3:])
	older := mean(series[len(series)-6 : len(series)-3])
	if older == 0 {
		return 0
	}

	return (recent - older) / older
}

// SeasonalPoint is one period's value tagged with its calendar month
type SeasonalPoint struct {
	Month int
	Value float64
}

// Seasonality detects a recurring monthly pattern in a series of at
// least twelve periods. It averages month-over-month growth per
// calendar month and flags the series as seasonal when the spread
// between the strongest and weakest month exceeds the threshold.
// Returns the peak month (1-12) when seasonal, 0 otherwise.
func Seasonality(series []SeasonalPoint) (bool, int) {
	if len(series) < 12 {
		return false, 0
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Value
		if prev == 0 {
			continue
		}
		growth := (series[i].Value - prev) / prev
		month := series[i].Month
		sums[month] += growth
		counts[month]++
	}
	if len(counts) == 0 {
		return false, 0
	}

	minAvg := math.Inf(1)
	maxAvg := math.Inf(-1)
	peakMonth := 0
	for month, sum := range sums {
		avg := sum / float64(counts[month])
		if avg > maxAvg {
			maxAvg = avg
			peakMonth = month
		}
		if avg < minAvg {
			minAvg = avg
		}
	}

	if maxAvg-minAvg <= seasonalitySpread {
		return false, 0
	}
	return true, peakMonth
}

// TrendStrength scores how reliable a trend is on a 1-10 scale from
// the volatility of the most recent six periods. Higher volatility
// means a lower score; the name refers to trend reliability, not
// magnitude.
func TrendStrength(series []float64) int {
	recent := series
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}

	strength := int(math.Round(10 - Volatility(recent)*100))
	if strength < 1 {
		strength = 1
	}
	if strength > 10 {
		strength = 10
	}
	return strength
}

// growthRates returns the period-over-period relative changes of a
// series, skipping pairs whose base value is 0.
func growthRates(series []float64) []float64 {
	var growth []float64
	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			continue
		}
		growth = append(growth, (series[i]-series[i-1])/series[i-1])
	}
	return growth
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
