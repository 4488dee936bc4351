package stats

import (
	"errors"
	"math"
	"sort"
)

var ErrNoSamples = errors.New("statistics require at least one sample")

type Unit string

const (
	UnitMilliseconds Unit = "ms"
	UnitSeconds      Unit = "s"
)

// Summary holds the descriptive statistics reported for one latency window.
type Summary struct {
	Unit    Unit    `json:"unit"`
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	P90     float64 `json:"p90"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
}

// Summarize computes the summary of the given samples in the caller's unit.
// An empty input is an error so that no report ever carries NaN values.
func Summarize(values []float64, unit Unit) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoSamples
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return Summary{
		Unit:    unit,
		Samples: len(sorted),
		Mean:    sum / float64(len(sorted)),
		Median:  percentileSorted(sorted, 50),
		P90:     percentileSorted(sorted, 90),
		P95:     percentileSorted(sorted, 95),
		P99:     percentileSorted(sorted, 99),
	}, nil
}

// Percentile computes the pct-th percentile of values with linear
// interpolation between the two nearest ranks.
func Percentile(values []float64, pct float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoSamples
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, pct), nil
}

// percentileSorted expects values sorted ascending. The rank of the pct-th
// percentile is pct/100*(n-1); fractional ranks interpolate linearly between
// the neighbouring samples.
func percentileSorted(sorted []float64, pct float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := pct / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	if lower >= n-1 {
		return sorted[n-1]
	}
	if lower < 0 {
		return sorted[0]
	}
	fraction := rank - float64(lower)
	return sorted[lower] + fraction*(sorted[lower+1]-sorted[lower])
}
