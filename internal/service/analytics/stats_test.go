package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendDirection(t *testing.T) {
	up := []float64{10, 10, 10, 20, 20, 20}
	down := []float64{20, 20, 20, 10, 10, 10}
	flat := []float64{10, 10, 10, 10.5, 10.5, 10.5}

	assert.Equal(t, DirectionUp, TrendDirection(up))
	assert.Equal(t, DirectionDown, TrendDirection(down))
	assert.Equal(t, DirectionStable, TrendDirection(flat))
}

func TestTrendDirectionShortSeries(t *testing.T) {
	assert.Equal(t, DirectionStable, TrendDirection(nil))
	assert.Equal(t, DirectionStable, TrendDirection([]float64{42}))
}

func TestTrendDirectionFromZeroBase(t *testing.T) {
	assert.Equal(t, DirectionUp, TrendDirection([]float64{0, 0, 10, 10}))
	assert.Equal(t, DirectionStable, TrendDirection([]float64{0, 0, 0, 0}))
}

func TestVolatilityOfSteadyGrowth(t *testing.T) {
	// Constant growth rate means zero deviation, so zero volatility
	assert.Zero(t, Volatility([]float64{100, 110, 121}))
}

func TestVolatilityOfSwingingSeries(t *testing.T) {
	// Growth rates alternate between +1.0 and -0.5: mean 0.25,
	// population stddev 0.75, CV 3.0
	v := Volatility([]float64{100, 200, 100, 200, 100})
	assert.InDelta(t, 3.0, v, 0.01)
}

func TestVolatilityShortSeries(t *testing.T) {
	assert.Zero(t, Volatility(nil))
	assert.Zero(t, Volatility([]float64{100, 110}))
}

func TestMomentum(t *testing.T) {
	assert.InDelta(t, 1.0, Momentum([]float64{10, 10, 10, 20, 20, 20}), 0.0001)
	assert.InDelta(t, -0.5, Momentum([]float64{20, 20, 20, 10, 10, 10}), 0.0001)
}

func TestMomentumGuards(t *testing.T) {
	assert.Zero(t, Momentum([]float64{10, 20, 30}))
	assert.Zero(t, Momentum([]float64{0, 0, 0, 10, 10, 10}))
}

func TestSeasonalityTooShort(t *testing.T) {
	series := make([]SeasonalPoint, 11)
	for i := range series {
		series[i] = SeasonalPoint{Month: i + 1, Value: 100}
	}

	seasonal, peak := Seasonality(series)
	assert.False(t, seasonal)
	assert.Zero(t, peak)
}

func TestSeasonalityDetectsDecemberSpike(t *testing.T) {
	var series []SeasonalPoint
	for year := 0; year < 2; year++ {
		for month := 1; month <= 12; month++ {
			value := 100.0
			if month == 12 {
				value = 1000
			}
			series = append(series, SeasonalPoint{Month: month, Value: value})
		}
	}

	seasonal, peak := Seasonality(series)
	assert.True(t, seasonal)
	assert.Equal(t, 12, peak)
}

func TestSeasonalityFlatSeries(t *testing.T) {
	var series []SeasonalPoint
	for i := 0; i < 24; i++ {
		series = append(series, SeasonalPoint{Month: i%12 + 1, Value: 100})
	}

	seasonal, peak := Seasonality(series)
	assert.False(t, seasonal)
	assert.Zero(t, peak)
}

func TestTrendStrength(t *testing.T) {
	// Steady growth scores the maximum
	assert.Equal(t, 10, TrendStrength([]float64{100, 110, 121, 133.1, 146.41, 161.051}))

	// Wild swings floor at 1
	assert.Equal(t, 1, TrendStrength([]float64{100, 500, 50, 800, 20, 900}))
}

func TestTrendStrengthUsesRecentWindow(t *testing.T) {
	// A volatile prefix outside the six-period window is ignored
	series := []float64{10, 900, 5, 100, 110, 121, 133.1, 146.41, 161.051}
	assert.Equal(t, 10, TrendStrength(series))
}
