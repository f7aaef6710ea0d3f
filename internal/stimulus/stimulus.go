// Package stimulus derives stimulus-on windows from an intensity channel by
// thresholding and edge scanning.
package stimulus

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultThresholdFraction is the fraction of the channel maximum used as
// the on/off cutoff when no absolute threshold is configured.
const DefaultThresholdFraction = 0.1

// Window is one stimulus-on interval. IDs count from 1 in time order.
type Window struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Threshold derives an absolute intensity cutoff as a fraction of the
// channel maximum. An empty channel yields 0.
func Threshold(values []float64, fraction float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values) * fraction
}

// DeriveWindows segments the recording into intervals where the intensity
// channel is strictly above threshold. A rising edge opens a window at that
// sample's time; a falling edge closes it at the first off sample's time. A
// window still open at the end of the recording closes at the final
// timestamp. times and values must have equal length.
func DeriveWindows(times, values []float64, threshold float64) []Window {
	windows := make([]Window, 0)

	id := 0
	start := 0.0
	open := false

	for i, v := range values {
		on := v > threshold
		switch {
		case on && !open:
			open = true
			id++
			start = times[i]
		case !on && open:
			open = false
			windows = append(windows, Window{ID: id, Start: start, End: times[i]})
		}
	}

	if open {
		windows = append(windows, Window{ID: id, Start: start, End: times[len(times)-1]})
	}

	return windows
}

// DeriveWindowsAuto thresholds the channel at fraction of its maximum and
// returns the windows along with the threshold used.
func DeriveWindowsAuto(times, values []float64, fraction float64) ([]Window, float64) {
	threshold := Threshold(values, fraction)
	return DeriveWindows(times, values, threshold), threshold
}
