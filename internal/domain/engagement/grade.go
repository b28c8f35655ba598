package engagement

// Grade classifies a performance value against a benchmark
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// GradeValue grades an engagement rate against the benchmark's
// percentile thresholds. Boundaries are inclusive: a value exactly at
// Top10Percent grades S.
func GradeValue(value float64, b Benchmark) Grade {
	switch {
	case value >= b.Top10Percent:
		return GradeS
	case value >= b.Top25Percent:
		return GradeA
	case value >= b.Median:
		return GradeB
	case value >= b.Bottom25Percent:
		return GradeC
	default:
		return GradeD
	}
}

// NextGradeTarget returns the benchmark boundary the value has to
// reach for the next grade up. Values already at S keep their own
// boundary as the target.
func NextGradeTarget(value float64, b Benchmark) float64 {
	switch GradeValue(value, b) {
	case GradeD:
		return b.Bottom25Percent
	case GradeC:
		return b.Median
	case GradeB:
		return b.Top25Percent
	case GradeA:
		return b.Top10Percent
	default:
		return b.Top10Percent
	}
}
