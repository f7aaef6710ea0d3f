// Package analysis runs the behavioral pipeline over experiment documents:
// per-track kinematics and event detection, stimulus windowing, window and
// population aggregation, and assembly of the result document.
package analysis

import (
	"math"

	"github.com/magatfairy/crawlstats/internal/events"
	"github.com/magatfairy/crawlstats/internal/kinematics"
	"github.com/magatfairy/crawlstats/internal/track"
)

// TrackResult is the reported outcome of one analyzed track.
type TrackResult struct {
	TrackNum              int                `json:"track_num"`
	TotalDuration         float64            `json:"total_duration"`
	NumReversals          int                `json:"num_reversals"`
	TotalReversalDuration float64            `json:"total_reversal_duration"`
	Reversals             []events.Reversal  `json:"reversals"`
	NumTurns              int                `json:"num_turns"`
	TurnRate              float64            `json:"turn_rate"`
	TurnEvents            []events.TurnEvent `json:"turn_events"`
	MeanSpeed             float64            `json:"mean_speed"`
	MeanSignedVel         float64            `json:"mean_speedrunvel"`
	FractionReversing     float64            `json:"fraction_reversing"`
}

// TrackAnalysis bundles one track's result with the derived series and the
// observed time span the aggregation stages consume.
type TrackAnalysis struct {
	TrackNum int
	Start    float64
	End      float64
	Series   *kinematics.Series
	Result   TrackResult
}

// AnalyzeTrack runs the per-track pipeline: derive the motion series, detect
// reversals and turns, and fold the whole-track statistics. The track is
// validated first; validation errors come back unchanged so callers can
// classify them.
//
// MeanSpeed is the mean magnitude of the signed-velocity series, TurnRate is
// turns per minute of track duration (zero for a zero-length span), and
// FractionReversing is the fraction of intervals spent moving backward.
func AnalyzeTrack(tr *track.Track, scale, minReversalDuration float64, turnCfg events.TurnConfig) (*TrackAnalysis, error) {
	series, err := kinematics.Derive(tr, scale)
	if err != nil {
		return nil, err
	}

	reversals := events.DetectReversals(series.Times, series.SignedVel, minReversalDuration)
	turns := events.DetectTurns(series.Times, series.Heading, turnCfg)

	start := tr.Times[0]
	end := tr.Times[tr.Len()-1]
	totalDuration := end - start

	var sumAbs, sum float64
	negative := 0
	for _, v := range series.SignedVel {
		sumAbs += math.Abs(v)
		sum += v
		if v < 0 {
			negative++
		}
	}
	m := float64(len(series.SignedVel))

	var reversalDuration float64
	for _, r := range reversals {
		reversalDuration += r.Duration
	}

	turnRate := 0.0
	if totalDuration > 0 {
		turnRate = float64(len(turns)) / (totalDuration / 60.0)
	}

	return &TrackAnalysis{
		TrackNum: tr.ID,
		Start:    start,
		End:      end,
		Series:   series,
		Result: TrackResult{
			TrackNum:              tr.ID,
			TotalDuration:         totalDuration,
			NumReversals:          len(reversals),
			TotalReversalDuration: reversalDuration,
			Reversals:             reversals,
			NumTurns:              len(turns),
			TurnRate:              turnRate,
			TurnEvents:            turns,
			MeanSpeed:             sumAbs / m,
			MeanSignedVel:         sum / m,
			FractionReversing:     float64(negative) / m,
		},
	}, nil
}
