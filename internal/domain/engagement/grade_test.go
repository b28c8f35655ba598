package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var gradeBenchmark = Benchmark{
	Top10Percent:    9.0,
	Top25Percent:    7.0,
	Median:          5.0,
	Bottom25Percent: 3.0,
	Bottom10Percent: 1.0,
}

func TestGradeValue(t *testing.T) {
	tests := []struct {
		value float64
		want  Grade
	}{
		{9.5, GradeS},
		{9.0, GradeS}, // boundary is inclusive
		{7.0, GradeA},
		{5.0, GradeB},
		{3.0, GradeC},
		{2.9, GradeD},
		{0, GradeD},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeValue(tt.value, gradeBenchmark), "value %v", tt.value)
	}
}

func TestNextGradeTarget(t *testing.T) {
	assert.Equal(t, 3.0, NextGradeTarget(1.0, gradeBenchmark))
	assert.Equal(t, 5.0, NextGradeTarget(3.5, gradeBenchmark))
	assert.Equal(t, 7.0, NextGradeTarget(5.0, gradeBenchmark))
	assert.Equal(t, 9.0, NextGradeTarget(8.0, gradeBenchmark))

	// Already S keeps the top boundary as its target
	assert.Equal(t, 9.0, NextGradeTarget(9.5, gradeBenchmark))
}
