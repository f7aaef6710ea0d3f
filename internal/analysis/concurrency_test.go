package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateConcurrency(t *testing.T) {
	t.Parallel()

	t.Run("counts overlapping spans per bin", func(t *testing.T) {
		t.Parallel()

		spans := []TrackSpan{
			{Start: 0, End: 15},
			{Start: 20, End: 35},
		}

		got := EstimateConcurrency(spans, 10)

		// Bin edges run 0..40; the second span touches the 10-20 bin on
		// its inclusive edge.
		want := []ConcurrencyBin{
			{BinStart: 0, BinEnd: 10, ActiveTracks: 1},
			{BinStart: 10, BinEnd: 20, ActiveTracks: 2},
			{BinStart: 20, BinEnd: 30, ActiveTracks: 1},
			{BinStart: 30, BinEnd: 40, ActiveTracks: 1},
		}
		assert.Equal(t, want, got)
	})

	t.Run("single span covers every bin", func(t *testing.T) {
		t.Parallel()

		got := EstimateConcurrency([]TrackSpan{{Start: 0, End: 25}}, 10)
		require.Len(t, got, 3)
		for _, bin := range got {
			assert.Equal(t, 1, bin.ActiveTracks)
		}
		assert.InDelta(t, 30.0, got[2].BinEnd, 1e-12)
	})

	t.Run("no spans yields empty non-nil slice", func(t *testing.T) {
		t.Parallel()

		got := EstimateConcurrency(nil, 10)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("instantaneous span yields no bins", func(t *testing.T) {
		t.Parallel()

		got := EstimateConcurrency([]TrackSpan{{Start: 5, End: 5}}, 10)
		assert.Empty(t, got)
	})

	t.Run("non-positive bin size yields no bins", func(t *testing.T) {
		t.Parallel()

		got := EstimateConcurrency([]TrackSpan{{Start: 0, End: 10}}, 0)
		assert.Empty(t, got)
	})
}
