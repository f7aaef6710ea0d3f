// Package stats provides the descriptive statistics and event-rate
// histograms used by the population aggregators.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Descriptive is the five-number summary attached to each population metric.
type Descriptive struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Std    float64 `json:"std"`
}

// Describe computes the five-number summary of values. Std is the population
// standard deviation (divisor n). Empty input yields the zero summary.
func Describe(values []float64) Descriptive {
	if len(values) == 0 {
		return Descriptive{}
	}
	return Descriptive{
		Mean:   stat.Mean(values, nil),
		Median: Median(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Std:    stat.PopStdDev(values, nil),
	}
}

// Median returns the middle value of values, averaging the two central
// values for an even count. The input is not modified. Empty input yields 0.
//
// stat.Quantile is not used here: its interpolation kinds do not average the
// two central samples for even counts, and the population numbers must match
// the established even-count convention exactly.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
