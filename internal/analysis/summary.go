package analysis

import "github.com/magatfairy/crawlstats/internal/stats"

// Summary is the whole-experiment roll-up across analyzed tracks.
type Summary struct {
	TotalTracks                int               `json:"total_tracks"`
	TracksWithReversals        int               `json:"tracks_with_reversals"`
	PercentTracksWithReversals float64           `json:"percent_tracks_with_reversals"`
	TotalReversalEvents        int               `json:"total_reversal_events"`
	ReversalDurationStats      stats.Descriptive `json:"reversal_duration_stats"`
	TurnRateStats              stats.Descriptive `json:"turn_rate_stats"`
	FractionReversingStats     stats.Descriptive `json:"fraction_reversing_stats"`
}

// Summarize folds per-track results into the experiment summary. Duration
// stats cover every reversal event across all tracks; turn-rate and
// fraction-reversing stats are per track. No tracks yields all zeros.
func Summarize(tracks []TrackResult) Summary {
	durations := make([]float64, 0)
	turnRates := make([]float64, 0, len(tracks))
	fracRev := make([]float64, 0, len(tracks))

	withReversals := 0
	for _, tr := range tracks {
		if tr.NumReversals > 0 {
			withReversals++
		}
		for _, r := range tr.Reversals {
			durations = append(durations, r.Duration)
		}
		turnRates = append(turnRates, tr.TurnRate)
		fracRev = append(fracRev, tr.FractionReversing)
	}

	percent := 0.0
	if len(tracks) > 0 {
		percent = 100.0 * float64(withReversals) / float64(len(tracks))
	}

	return Summary{
		TotalTracks:                len(tracks),
		TracksWithReversals:        withReversals,
		PercentTracksWithReversals: percent,
		TotalReversalEvents:        len(durations),
		ReversalDurationStats:      stats.Describe(durations),
		TurnRateStats:              stats.Describe(turnRates),
		FractionReversingStats:     stats.Describe(fracRev),
	}
}
