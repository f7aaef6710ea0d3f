package analysis

import (
	"time"

	"github.com/magatfairy/crawlstats/internal/stats"
	"github.com/magatfairy/crawlstats/internal/stimulus"
)

// SkippedTrack records a track the run rejected and why.
type SkippedTrack struct {
	TrackNum int    `json:"track_num"`
	Reason   string `json:"reason"`
}

// Result is the complete analysis document for one experiment. Every
// collection field marshals as an empty collection rather than null when
// the corresponding stage produced nothing.
type Result struct {
	File              string             `json:"file"`
	Timestamp         time.Time          `json:"timestamp"`
	RunID             string             `json:"run_id"`
	Tracks            []TrackResult      `json:"tracks"`
	Summary           Summary            `json:"summary"`
	Windows           []stimulus.Window  `json:"windows"`
	TrackWindows      []TrackWindowStats `json:"track_windows"`
	PopulationWindows PopulationWindows  `json:"population_windows"`
	Concurrency       []ConcurrencyBin   `json:"concurrency"`
	SkippedTracks     []SkippedTrack     `json:"skipped_tracks"`
	ReversalRate      []stats.RateBin    `json:"reversal_rate"`
	TurnRateHist      []stats.RateBin    `json:"turn_rate_hist"`
}

// CombinedResult rolls a directory run into one document. Summary spans
// every analyzed track across all files.
type CombinedResult struct {
	ProcessedAt    time.Time `json:"processed_at"`
	InputDirectory string    `json:"input_directory"`
	Summary        Summary   `json:"summary"`
	Files          []*Result `json:"files"`
}

// Summarize fills the cross-file summary from the collected results.
func (c *CombinedResult) Summarize() {
	all := make([]TrackResult, 0)
	for _, res := range c.Files {
		all = append(all, res.Tracks...)
	}
	c.Summary = Summarize(all)
}
