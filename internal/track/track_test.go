package track

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointSeriesUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("axis first layout", func(t *testing.T) {
		t.Parallel()

		var p PointSeries
		err := json.Unmarshal([]byte(`[[1, 2, 3], [4, 5, 6]]`), &p)
		require.NoError(t, err)

		assert.Equal(t, []float64{1, 2, 3}, p.X)
		assert.Equal(t, []float64{4, 5, 6}, p.Y)
	})

	t.Run("point first layout", func(t *testing.T) {
		t.Parallel()

		var p PointSeries
		err := json.Unmarshal([]byte(`[[1, 4], [2, 5], [3, 6]]`), &p)
		require.NoError(t, err)

		assert.Equal(t, []float64{1, 2, 3}, p.X)
		assert.Equal(t, []float64{4, 5, 6}, p.Y)
	})

	t.Run("ambiguous 2x2 reads as axis first", func(t *testing.T) {
		t.Parallel()

		var p PointSeries
		err := json.Unmarshal([]byte(`[[1, 2], [3, 4]]`), &p)
		require.NoError(t, err)

		assert.Equal(t, []float64{1, 2}, p.X)
		assert.Equal(t, []float64{3, 4}, p.Y)
	})

	t.Run("empty array", func(t *testing.T) {
		t.Parallel()

		var p PointSeries
		err := json.Unmarshal([]byte(`[]`), &p)
		require.NoError(t, err)

		assert.True(t, p.IsEmpty())
		assert.Equal(t, 0, p.Len())
	})

	t.Run("ragged point rejected", func(t *testing.T) {
		t.Parallel()

		var p PointSeries
		err := json.Unmarshal([]byte(`[[1, 2, 3], [4, 5], [6, 7]]`), &p)
		assert.Error(t, err)
	})

	t.Run("non numeric rejected", func(t *testing.T) {
		t.Parallel()

		var p PointSeries
		err := json.Unmarshal([]byte(`"not an array"`), &p)
		assert.Error(t, err)
	})
}

func TestPointSeriesMarshal(t *testing.T) {
	t.Parallel()

	p := PointSeries{X: []float64{1, 2}, Y: []float64{3, 4}}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[[1, 2], [3, 4]]`, string(data))

	empty := PointSeries{}
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[[], []]`, string(data))
}

func validTrack(id, n int) Track {
	x := make([]float64, n)
	y := make([]float64, n)
	times := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = float64(i) * 2
		times[i] = float64(i) * 0.5
	}
	ps := PointSeries{X: x, Y: y}
	return Track{ID: id, Head: ps, Mid: ps, Loc: ps, Sloc: ps, Times: times}
}

func TestTrackValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid track", func(t *testing.T) {
		t.Parallel()

		tr := validTrack(1, 5)
		assert.NoError(t, tr.Validate())
	})

	t.Run("too short", func(t *testing.T) {
		t.Parallel()

		tr := validTrack(2, 5)
		tr.Times = tr.Times[:1]
		tr.Head.X, tr.Head.Y = tr.Head.X[:1], tr.Head.Y[:1]

		err := tr.Validate()
		var tooShort *TooShortError
		require.ErrorAs(t, err, &tooShort)
		assert.Equal(t, 2, tooShort.TrackID)
		assert.Equal(t, 1, tooShort.Samples)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		t.Parallel()

		tr := validTrack(3, 5)
		tr.Mid.X = tr.Mid.X[:4]
		tr.Mid.Y = tr.Mid.Y[:4]

		err := tr.Validate()
		var mismatch *ShapeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 3, mismatch.TrackID)
		assert.Equal(t, "smid", mismatch.Field)
		assert.Equal(t, 4, mismatch.Got)
		assert.Equal(t, 5, mismatch.Want)
	})

	t.Run("missing head series", func(t *testing.T) {
		t.Parallel()

		tr := validTrack(4, 5)
		tr.Head = PointSeries{}

		err := tr.Validate()
		var mismatch *ShapeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "shead", mismatch.Field)
	})

	t.Run("missing both centroid series", func(t *testing.T) {
		t.Parallel()

		tr := validTrack(5, 5)
		tr.Loc = PointSeries{}
		tr.Sloc = PointSeries{}

		err := tr.Validate()
		var mismatch *ShapeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "loc", mismatch.Field)
	})

	t.Run("raw centroid alone is enough", func(t *testing.T) {
		t.Parallel()

		tr := validTrack(6, 5)
		tr.Sloc = PointSeries{}
		assert.NoError(t, tr.Validate())
	})
}

func TestTrackCentroid(t *testing.T) {
	t.Parallel()

	tr := validTrack(1, 3)
	tr.Loc = PointSeries{X: []float64{9, 9, 9}, Y: []float64{9, 9, 9}}
	tr.Sloc = PointSeries{X: []float64{1, 2, 3}, Y: []float64{4, 5, 6}}

	got := tr.Centroid()
	assert.Equal(t, []float64{1, 2, 3}, got.X, "smoothed centroid preferred")

	tr.Sloc = PointSeries{}
	got = tr.Centroid()
	assert.Equal(t, []float64{9, 9, 9}, got.X, "raw centroid as fallback")
}

func TestExperimentScale(t *testing.T) {
	t.Parallel()

	exp := &Experiment{LengthPerPixel: 0.02}
	assert.Equal(t, 0.02, exp.Scale())

	exp = &Experiment{}
	assert.Equal(t, 0.01, exp.Scale(), "default calibration")
}

func TestExperimentHasStimulus(t *testing.T) {
	t.Parallel()

	exp := &Experiment{
		Times:    []float64{0, 1, 2},
		Stimulus: []float64{0, 10, 0},
	}
	assert.True(t, exp.HasStimulus())

	exp.Stimulus = exp.Stimulus[:2]
	assert.False(t, exp.HasStimulus(), "mismatched clock disables windowing")

	exp.Stimulus = nil
	assert.False(t, exp.HasStimulus())
}

func TestErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	var errShape error = &ShapeMismatchError{TrackID: 1, Field: "loc", Got: 3, Want: 4}
	var errShort error = &TooShortError{TrackID: 1, Samples: 1}

	var mismatch *ShapeMismatchError
	assert.False(t, errors.As(errShort, &mismatch))
	assert.True(t, errors.As(errShape, &mismatch))
	assert.Contains(t, errShape.Error(), "loc has 3 samples, eti has 4")
	assert.Contains(t, errShort.Error(), "at least 2 samples")
}
