package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magatfairy/crawlstats/internal/analysis"
	"github.com/magatfairy/crawlstats/internal/events"
	"github.com/magatfairy/crawlstats/internal/fsutil"
	"github.com/magatfairy/crawlstats/internal/stimulus"
)

// sampleResult builds a small but fully populated result document.
func sampleResult() *analysis.Result {
	return &analysis.Result{
		File:      "/data/plate_a.json",
		Timestamp: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		RunID:     "3f1f8a1e-0000-4000-8000-000000000001",
		Tracks: []analysis.TrackResult{
			{
				TrackNum:              1,
				TotalDuration:         12,
				NumReversals:          1,
				TotalReversalDuration: 4,
				Reversals:             []events.Reversal{{StartIdx: 8, EndIdx: 15, StartTime: 4, EndTime: 7.5, Duration: 4, MeanSpeed: 1}},
				TurnRate:              5,
				TurnEvents:            []events.TurnEvent{},
				MeanSpeed:             1,
				FractionReversing:     1.0 / 3.0,
			},
			{
				TrackNum:   2,
				Reversals:  []events.Reversal{},
				TurnEvents: []events.TurnEvent{},
			},
		},
		Summary:      analysis.Summarize(nil),
		Windows:      []stimulus.Window{{ID: 1, Start: 4, End: 8}},
		TrackWindows: []analysis.TrackWindowStats{{TrackNum: 1, WindowID: 1, Reversals: 1}},
		PopulationWindows: analysis.PopulationWindows{
			1: {Tracks: 2},
		},
		Concurrency:   []analysis.ConcurrencyBin{{BinStart: 0, BinEnd: 10, ActiveTracks: 2}},
		SkippedTracks: []analysis.SkippedTrack{},
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	cases := []struct {
		file string
		want string
	}{
		{"/data/plate_a.json", "plate_a"},
		{"plate_b.json", "plate_b"},
		{"/deep/nested/run.final.json", "run.final"},
		{"noext", "noext"},
		// In-memory results carry the experiment name, not a path.
		{"in vivo run #3", "in_vivo_run_3"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Stem(tc.file), "stem of %q", tc.file)
	}
}

func TestResultPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "out/plate_a_analysis.json", ResultPath("out", "/data/plate_a.json"))
}

func TestWriteResult(t *testing.T) {
	t.Parallel()

	fs := fsutil.NewMemoryFileSystem()
	w := NewWriter(fs)

	path, err := w.WriteResult("/out", sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "/out/plate_a_analysis.json", path)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)

	var back analysis.Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "/data/plate_a.json", back.File)
	require.Len(t, back.Tracks, 2)
	assert.Equal(t, 1, back.Tracks[0].NumReversals)
	require.Contains(t, back.PopulationWindows, 1)
	assert.Equal(t, 2, back.PopulationWindows[1].Tracks)

	// Indented output, keyed the way downstream tooling expects.
	s := string(data)
	assert.Contains(t, s, "\n  \"file\"")
	assert.Contains(t, s, `"track_num"`)
	assert.Contains(t, s, `"population_windows"`)
}

func TestWriteCombined(t *testing.T) {
	t.Parallel()

	fs := fsutil.NewMemoryFileSystem()
	w := NewWriter(fs)

	combined := &analysis.CombinedResult{
		ProcessedAt:    time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC),
		InputDirectory: "/data",
		Files:          []*analysis.Result{sampleResult()},
	}

	path, err := w.WriteCombined("/out", combined)
	require.NoError(t, err)
	assert.Equal(t, "/out/combined_analysis.json", path)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)

	var back analysis.CombinedResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "/data", back.InputDirectory)
	require.Len(t, back.Files, 1)
	assert.Equal(t, "/data/plate_a.json", back.Files[0].File)
}

func TestNewWriterNilFS(t *testing.T) {
	t.Parallel()

	w := NewWriter(nil)
	assert.NotNil(t, w.FS)
}
