// Package events detects behavioral events in derived motion series:
// reversals (sustained backward crawling) and turns (rapid heading change).
package events

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Reversal is one sustained bout of backward crawling. Indices refer to the
// signed-velocity series; times are interval-start timestamps in seconds.
type Reversal struct {
	StartIdx  int     `json:"start_idx"`
	EndIdx    int     `json:"end_idx"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
	MeanSpeed float64 `json:"mean_speed"`
}

// DetectReversals scans the signed-velocity series for bouts where the value
// stays negative. A bout opens at the first negative sample and closes at
// the next non-negative one; its duration is measured to the closing sample
// and it is kept only when that duration reaches minDuration. A bout still
// open at the end of the series closes at the final timestamp.
//
// times and signedVel must have equal length. Returned events are ordered
// and non-overlapping.
func DetectReversals(times, signedVel []float64, minDuration float64) []Reversal {
	reversals := make([]Reversal, 0)

	inRev := false
	startIdx := 0
	startTime := 0.0

	for i, v := range signedVel {
		switch {
		case v < 0 && !inRev:
			inRev = true
			startIdx = i
			startTime = times[i]
		case v >= 0 && inRev:
			inRev = false
			duration := times[i] - startTime
			if duration >= minDuration {
				reversals = append(reversals, Reversal{
					StartIdx:  startIdx,
					EndIdx:    i - 1,
					StartTime: startTime,
					EndTime:   times[i-1],
					Duration:  duration,
					MeanSpeed: math.Abs(stat.Mean(signedVel[startIdx:i], nil)),
				})
			}
		}
	}

	if inRev {
		n := len(signedVel)
		duration := times[n-1] - startTime
		if duration >= minDuration {
			reversals = append(reversals, Reversal{
				StartIdx:  startIdx,
				EndIdx:    n - 1,
				StartTime: startTime,
				EndTime:   times[n-1],
				Duration:  duration,
				MeanSpeed: math.Abs(stat.Mean(signedVel[startIdx:], nil)),
			})
		}
	}

	return reversals
}
