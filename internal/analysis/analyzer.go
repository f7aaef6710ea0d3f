package analysis

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/magatfairy/crawlstats/internal/config"
	"github.com/magatfairy/crawlstats/internal/events"
	"github.com/magatfairy/crawlstats/internal/fsutil"
	"github.com/magatfairy/crawlstats/internal/monitoring"
	"github.com/magatfairy/crawlstats/internal/stats"
	"github.com/magatfairy/crawlstats/internal/stimulus"
	"github.com/magatfairy/crawlstats/internal/timeutil"
	"github.com/magatfairy/crawlstats/internal/track"
)

// Analyzer runs the experiment pipeline with a bounded per-track worker
// pool. Construct with NewAnalyzer.
type Analyzer struct {
	cfg   *config.AnalysisConfig
	clock timeutil.Clock
}

// NewAnalyzer returns an Analyzer using cfg for tunables. A nil cfg means
// all defaults; a nil clock means the wall clock.
func NewAnalyzer(cfg *config.AnalysisConfig, clock timeutil.Clock) *Analyzer {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Analyzer{cfg: cfg, clock: clock}
}

func (a *Analyzer) turnConfig() events.TurnConfig {
	return events.TurnConfig{
		AngleThresholdDeg:  a.cfg.GetTurnAngleThresholdDeg(),
		MinFrames:          a.cfg.GetTurnMinFrames(),
		MaxLookaheadFrames: a.cfg.GetTurnMaxLookaheadFrames(),
	}
}

// Analyze runs every stage over one experiment and assembles the result
// document. Tracks run in parallel across GetWorkers() goroutines; outputs
// are collected by input index, so the document is identical regardless of
// pool width. Tracks that fail validation are recorded as skipped and never
// abort the run.
func (a *Analyzer) Analyze(exp *track.Experiment) *Result {
	scale := exp.LengthPerPixel
	if scale <= 0 {
		scale = a.cfg.GetLengthPerPixel()
	}
	minDuration := a.cfg.GetMinReversalDurationSecs()
	turnCfg := a.turnConfig()

	result := &Result{
		File:              exp.Name,
		Timestamp:         a.clock.Now(),
		RunID:             uuid.New().String(),
		Tracks:            make([]TrackResult, 0, len(exp.Tracks)),
		Windows:           make([]stimulus.Window, 0),
		TrackWindows:      make([]TrackWindowStats, 0),
		PopulationWindows: make(PopulationWindows),
		Concurrency:       make([]ConcurrencyBin, 0),
		SkippedTracks:     make([]SkippedTrack, 0),
		ReversalRate:      make([]stats.RateBin, 0),
		TurnRateHist:      make([]stats.RateBin, 0),
	}

	if exp.HasStimulus() {
		if t := a.cfg.StimulusThreshold; t != nil {
			result.Windows = stimulus.DeriveWindows(exp.Times, exp.Stimulus, *t)
		} else {
			result.Windows, _ = stimulus.DeriveWindowsAuto(exp.Times, exp.Stimulus, a.cfg.GetStimulusThresholdFraction())
		}
	}

	analyses := make([]*TrackAnalysis, len(exp.Tracks))
	errs := make([]error, len(exp.Tracks))

	workers := a.cfg.GetWorkers()
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				analyses[i], errs[i] = AnalyzeTrack(&exp.Tracks[i], scale, minDuration, turnCfg)
			}
		}()
	}
	for i := range exp.Tracks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	spans := make([]TrackSpan, 0, len(exp.Tracks))
	trackWindows := make([]TrackWindowStats, 0)
	for i := range exp.Tracks {
		if errs[i] != nil {
			monitoring.Logf("track %d skipped: %v", exp.Tracks[i].ID, errs[i])
			result.SkippedTracks = append(result.SkippedTracks, SkippedTrack{
				TrackNum: exp.Tracks[i].ID,
				Reason:   errs[i].Error(),
			})
			continue
		}
		ta := analyses[i]
		result.Tracks = append(result.Tracks, ta.Result)
		spans = append(spans, TrackSpan{Start: ta.Start, End: ta.End})
		if len(result.Windows) > 0 {
			trackWindows = append(trackWindows, ComputeTrackWindowStats(ta, result.Windows)...)
		}
	}

	if len(trackWindows) > 0 {
		result.TrackWindows = trackWindows
		result.PopulationWindows = AggregatePopulationWindows(trackWindows)
	}
	if len(spans) > 0 {
		result.Concurrency = EstimateConcurrency(spans, a.cfg.GetConcurrencyBinSecs())

		maxEnd := spans[0].End
		for _, s := range spans[1:] {
			if s.End > maxEnd {
				maxEnd = s.End
			}
		}
		revStarts := make([]float64, 0)
		turnTimes := make([]float64, 0)
		for _, tr := range result.Tracks {
			for _, r := range tr.Reversals {
				revStarts = append(revStarts, r.StartTime)
			}
			for _, t := range tr.TurnEvents {
				turnTimes = append(turnTimes, t.Time)
			}
		}
		binSize := a.cfg.GetRateBinSecs()
		result.ReversalRate = stats.RateFromTimes(revStarts, maxEnd, binSize)
		result.TurnRateHist = stats.RateFromTimes(turnTimes, maxEnd, binSize)
	}

	result.Summary = Summarize(result.Tracks)
	return result
}

// AnalyzeFile loads the experiment document at path and analyzes it. The
// result's File field carries the path as given.
func (a *Analyzer) AnalyzeFile(fsys fsutil.FileSystem, path string) (*Result, error) {
	exp, err := track.LoadExperiment(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("loading experiment: %w", err)
	}
	result := a.Analyze(exp)
	result.File = path
	return result, nil
}
