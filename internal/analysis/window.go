package analysis

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/magatfairy/crawlstats/internal/stats"
	"github.com/magatfairy/crawlstats/internal/stimulus"
)

// TrackWindowStats is one track's behavior restricted to one stimulus
// window.
type TrackWindowStats struct {
	TrackNum         int     `json:"track_num"`
	WindowID         int     `json:"window_id"`
	WindowStart      float64 `json:"window_start"`
	WindowEnd        float64 `json:"window_end"`
	Reversals        int     `json:"reversals"`
	ReversalDuration float64 `json:"reversal_duration"`
	Turns            int     `json:"turns"`
	TurnRatePerMin   float64 `json:"turn_rate_per_min"`
	FracNegSignedVel float64 `json:"frac_negative_speedrunvel"`
	MeanSignedVel    float64 `json:"mean_speedrunvel"`
	TotalDuration    float64 `json:"total_duration"`
}

// ComputeTrackWindowStats restricts one analyzed track to each stimulus
// window. Samples are selected by start <= t <= end. A reversal counts when
// its interval overlaps the window and contributes its full duration even
// when it extends past the window edges; turns count by event time. Windows
// the track never samples get zero fraction and mean.
func ComputeTrackWindowStats(ta *TrackAnalysis, windows []stimulus.Window) []TrackWindowStats {
	out := make([]TrackWindowStats, 0, len(windows))
	for _, w := range windows {
		dur := w.End - w.Start

		var sum float64
		selected, negative := 0, 0
		for i, t := range ta.Series.Times {
			if t < w.Start || t > w.End {
				continue
			}
			v := ta.Series.SignedVel[i]
			sum += v
			selected++
			if v < 0 {
				negative++
			}
		}

		revCount := 0
		var revDur float64
		for _, r := range ta.Result.Reversals {
			if r.StartTime <= w.End && r.EndTime >= w.Start {
				revCount++
				revDur += r.Duration
			}
		}

		turnCount := 0
		for _, t := range ta.Result.TurnEvents {
			if t.Time >= w.Start && t.Time <= w.End {
				turnCount++
			}
		}

		turnRate := 0.0
		if dur > 0 {
			turnRate = float64(turnCount) / (dur / 60.0)
		}
		fracNeg, meanSV := 0.0, 0.0
		if selected > 0 {
			fracNeg = float64(negative) / float64(selected)
			meanSV = sum / float64(selected)
		}

		out = append(out, TrackWindowStats{
			TrackNum:         ta.TrackNum,
			WindowID:         w.ID,
			WindowStart:      w.Start,
			WindowEnd:        w.End,
			Reversals:        revCount,
			ReversalDuration: revDur,
			Turns:            turnCount,
			TurnRatePerMin:   turnRate,
			FracNegSignedVel: fracNeg,
			MeanSignedVel:    meanSV,
			TotalDuration:    dur,
		})
	}
	return out
}

// WindowPopulation summarizes every track's behavior inside one stimulus
// window.
type WindowPopulation struct {
	Tracks            int               `json:"tracks"`
	Reversals         stats.Descriptive `json:"reversals"`
	ReversalDurations stats.Descriptive `json:"reversal_durations"`
	Turns             stats.Descriptive `json:"turns"`
	TurnRatesPerMin   stats.Descriptive `json:"turn_rates_per_min"`
	FracNegSignedVel  stats.Descriptive `json:"frac_negative_speedrunvel"`
	MeanSignedVel     stats.Descriptive `json:"mean_speedrunvel"`
}

// PopulationWindows maps window id to its population summary. It marshals
// as a JSON object keyed by the stringified id in ascending numeric order,
// so documents stay byte-stable and "10" never sorts before "2".
type PopulationWindows map[int]WindowPopulation

func (p PopulationWindows) MarshalJSON() ([]byte, error) {
	ids := make([]int, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')
		val, err := json.Marshal(p[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AggregatePopulationWindows groups per-track window stats by window id and
// computes five-number summaries per metric plus the track count. Empty
// input yields an empty map.
func AggregatePopulationWindows(trackWindows []TrackWindowStats) PopulationWindows {
	byWindow := make(map[int][]TrackWindowStats)
	for _, tw := range trackWindows {
		byWindow[tw.WindowID] = append(byWindow[tw.WindowID], tw)
	}

	pop := make(PopulationWindows, len(byWindow))
	for id, lst := range byWindow {
		n := len(lst)
		revCounts := make([]float64, n)
		revDurs := make([]float64, n)
		turnCounts := make([]float64, n)
		turnRates := make([]float64, n)
		fracNeg := make([]float64, n)
		meanSV := make([]float64, n)
		for i, tw := range lst {
			revCounts[i] = float64(tw.Reversals)
			revDurs[i] = tw.ReversalDuration
			turnCounts[i] = float64(tw.Turns)
			turnRates[i] = tw.TurnRatePerMin
			fracNeg[i] = tw.FracNegSignedVel
			meanSV[i] = tw.MeanSignedVel
		}
		pop[id] = WindowPopulation{
			Tracks:            n,
			Reversals:         stats.Describe(revCounts),
			ReversalDurations: stats.Describe(revDurs),
			Turns:             stats.Describe(turnCounts),
			TurnRatesPerMin:   stats.Describe(turnRates),
			FracNegSignedVel:  stats.Describe(fracNeg),
			MeanSignedVel:     stats.Describe(meanSV),
		}
	}
	return pop
}
