// Package track defines the experiment input contract: per-organism position
// tracks, the experiment document that carries them, and validation of the
// per-frame array shapes.
package track

import (
	"encoding/json"
	"fmt"

	"github.com/magatfairy/crawlstats/internal/units"
)

// PointSeries holds one 2-D position per frame, stored as parallel X and Y
// slices. The JSON form accepts either axis-first ([[x0,x1,...],[y0,y1,...]])
// or point-first ([[x0,y0],[x1,y1],...]) layouts; the axis with length 2 is
// detected automatically and an ambiguous 2x2 array is read as axis-first.
type PointSeries struct {
	X []float64
	Y []float64
}

// Len returns the number of points in the series.
func (p PointSeries) Len() int {
	return len(p.X)
}

// IsEmpty reports whether the series has no points.
func (p PointSeries) IsEmpty() bool {
	return len(p.X) == 0
}

// UnmarshalJSON reads a nested float array in either orientation.
func (p *PointSeries) UnmarshalJSON(data []byte) error {
	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("point series must be a nested float array: %w", err)
	}

	if len(raw) == 0 {
		p.X, p.Y = nil, nil
		return nil
	}

	if len(raw) == 2 && len(raw[0]) == len(raw[1]) {
		// Axis-first layout. A 2x2 array is ambiguous and lands here too.
		p.X = raw[0]
		p.Y = raw[1]
		return nil
	}

	x := make([]float64, len(raw))
	y := make([]float64, len(raw))
	for i, pt := range raw {
		if len(pt) != 2 {
			return fmt.Errorf("point %d has %d coordinates, expected 2", i, len(pt))
		}
		x[i] = pt[0]
		y[i] = pt[1]
	}
	p.X = x
	p.Y = y
	return nil
}

// MarshalJSON writes the axis-first layout.
func (p PointSeries) MarshalJSON() ([]byte, error) {
	x := p.X
	if x == nil {
		x = []float64{}
	}
	y := p.Y
	if y == nil {
		y = []float64{}
	}
	return json.Marshal([2][]float64{x, y})
}

// Track is one organism's position record: head and midpoint series for
// orientation, raw and smoothed centroid series for movement, and the
// elapsed-time array in seconds.
type Track struct {
	ID    int         `json:"id"`
	Head  PointSeries `json:"shead"`
	Mid   PointSeries `json:"smid"`
	Loc   PointSeries `json:"loc"`
	Sloc  PointSeries `json:"sloc"`
	Times []float64   `json:"eti"`
}

// Len returns the number of frames in the track.
func (t *Track) Len() int {
	return len(t.Times)
}

// Centroid returns the smoothed centroid series when present, otherwise the
// raw one.
func (t *Track) Centroid() PointSeries {
	if !t.Sloc.IsEmpty() {
		return t.Sloc
	}
	return t.Loc
}

// Validate checks the per-frame array shapes. Tracks with fewer than two
// frames cannot be differenced and are rejected with a TooShortError; any
// non-empty position series whose length disagrees with the time array is
// rejected with a ShapeMismatchError.
func (t *Track) Validate() error {
	n := len(t.Times)
	if n < 2 {
		return &TooShortError{TrackID: t.ID, Samples: n}
	}

	series := []struct {
		name string
		ps   PointSeries
	}{
		{"shead", t.Head},
		{"smid", t.Mid},
		{"loc", t.Loc},
		{"sloc", t.Sloc},
	}
	for _, s := range series {
		if s.ps.IsEmpty() {
			continue
		}
		if s.ps.Len() != n {
			return &ShapeMismatchError{TrackID: t.ID, Field: s.name, Got: s.ps.Len(), Want: n}
		}
	}

	if t.Head.IsEmpty() {
		return &ShapeMismatchError{TrackID: t.ID, Field: "shead", Got: 0, Want: n}
	}
	if t.Mid.IsEmpty() {
		return &ShapeMismatchError{TrackID: t.ID, Field: "smid", Got: 0, Want: n}
	}
	if t.Loc.IsEmpty() && t.Sloc.IsEmpty() {
		return &ShapeMismatchError{TrackID: t.ID, Field: "loc", Got: 0, Want: n}
	}

	return nil
}

// Experiment is one recording session: its tracks, the camera scale and the
// optional experiment-global clock and stimulus intensity channel.
type Experiment struct {
	Name           string    `json:"name,omitempty"`
	LengthPerPixel float64   `json:"length_per_pixel,omitempty"`
	Times          []float64 `json:"eti,omitempty"`
	Stimulus       []float64 `json:"led1,omitempty"`
	Tracks         []Track   `json:"tracks"`
}

// Scale returns the camera scale in cm per pixel, falling back to the
// default calibration when the document carries none.
func (e *Experiment) Scale() float64 {
	if e.LengthPerPixel > 0 {
		return e.LengthPerPixel
	}
	return units.DefaultLengthPerPixel
}

// HasStimulus reports whether the experiment carries a usable stimulus
// channel with a matching clock.
func (e *Experiment) HasStimulus() bool {
	return len(e.Stimulus) > 0 && len(e.Times) == len(e.Stimulus)
}
