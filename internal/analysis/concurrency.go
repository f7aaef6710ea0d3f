package analysis

import "math"

// TrackSpan is the observed time extent of one track.
type TrackSpan struct {
	Start float64
	End   float64
}

// ConcurrencyBin counts the tracks active during one time bin. A track is
// active when its span touches the bin, inclusive on both edges.
type ConcurrencyBin struct {
	BinStart     float64 `json:"bin_start"`
	BinEnd       float64 `json:"bin_end"`
	ActiveTracks int     `json:"active_tracks"`
}

// EstimateConcurrency splits the covered range [min start, max end] into
// binSize-second bins and counts the active tracks in each. No spans, or a
// non-positive bin size, yields an empty slice.
func EstimateConcurrency(spans []TrackSpan, binSize float64) []ConcurrencyBin {
	bins := make([]ConcurrencyBin, 0)
	if len(spans) == 0 || binSize <= 0 {
		return bins
	}

	tMin := spans[0].Start
	tMax := spans[0].End
	for _, s := range spans[1:] {
		if s.Start < tMin {
			tMin = s.Start
		}
		if s.End > tMax {
			tMax = s.End
		}
	}

	// Edges at tMin + i*binSize; the count rounds up so a trailing partial
	// bin survives.
	edges := int(math.Ceil((tMax - tMin + binSize) / binSize))
	for i := 0; i < edges-1; i++ {
		b0 := tMin + float64(i)*binSize
		b1 := tMin + float64(i+1)*binSize
		active := 0
		for _, s := range spans {
			if s.End >= b0 && s.Start <= b1 {
				active++
			}
		}
		bins = append(bins, ConcurrencyBin{BinStart: b0, BinEnd: b1, ActiveTracks: active})
	}
	return bins
}
