package stats

import "math"

// RateBin is one fixed-width histogram bin of event rate.
type RateBin struct {
	Center float64 `json:"center"`
	Count  int     `json:"count"`
	Rate   float64 `json:"rate"`
}

// RateFromTimes bins event times into non-overlapping fixed-width bins over
// [0, totalDuration] and returns the per-bin event rate in events per
// second. Bin edges run 0, binSize, 2*binSize, ... past totalDuration; each
// bin is half-open except the last, which includes its right edge. Events
// outside the binned range are ignored.
//
// Example: events at 1.5, 3.2, 3.8 and 7.1 over 10 seconds with 2 second
// bins give counts 1, 2, 0, 1, 0 and rates 0.5, 1, 0, 0.5, 0.
func RateFromTimes(eventTimes []float64, totalDuration, binSize float64) []RateBin {
	bins := make([]RateBin, 0)
	if binSize <= 0 || totalDuration <= 0 {
		return bins
	}

	nEdges := int(math.Ceil((totalDuration + binSize) / binSize))
	if nEdges < 2 {
		return bins
	}

	counts := make([]int, nEdges-1)
	lastEdge := float64(nEdges-1) * binSize
	for _, t := range eventTimes {
		if t < 0 || t > lastEdge {
			continue
		}
		idx := int(t / binSize)
		if idx >= len(counts) {
			idx = len(counts) - 1
		}
		counts[idx]++
	}

	for i, c := range counts {
		lo := float64(i) * binSize
		hi := float64(i+1) * binSize
		bins = append(bins, RateBin{
			Center: (lo + hi) / 2,
			Count:  c,
			Rate:   float64(c) / binSize,
		})
	}
	return bins
}
