package report

import (
	"bytes"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/magatfairy/crawlstats/internal/kinematics"
	"github.com/magatfairy/crawlstats/internal/track"
	"github.com/magatfairy/crawlstats/internal/units"
)

// TrajectoriesPNG renders every track's centroid path in cm, one colored
// line per track. Tracks without a centroid series are left out.
func TrajectoriesPNG(exp *track.Experiment) ([]byte, error) {
	scale := exp.Scale()

	p := plot.New()
	p.Title.Text = "Centroid Trajectories"
	p.X.Label.Text = "X (cm)"
	p.Y.Label.Text = "Y (cm)"

	colors := plotColors(len(exp.Tracks))
	for i := range exp.Tracks {
		tr := &exp.Tracks[i]
		c := tr.Centroid()
		if c.IsEmpty() {
			continue
		}

		pts := make(plotter.XYs, 0, c.Len())
		for j := 0; j < c.Len(); j++ {
			pts = append(pts, plotter.XY{
				X: units.PixelsToCm(c.X[j], scale),
				Y: units.PixelsToCm(c.Y[j], scale),
			})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", tr.ID, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("track %d", tr.ID), line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return renderPNG(p, 10*vg.Inch, 8*vg.Inch)
}

// SignedVelocityPNG renders every track's signed-velocity time series.
// Tracks the analysis would skip are left out here too.
func SignedVelocityPNG(exp *track.Experiment) ([]byte, error) {
	scale := exp.Scale()

	p := plot.New()
	p.Title.Text = "Signed Velocity"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Signed velocity (cm/s)"

	colors := plotColors(len(exp.Tracks))
	for i := range exp.Tracks {
		tr := &exp.Tracks[i]
		series, err := kinematics.Derive(tr, scale)
		if err != nil {
			continue
		}

		pts := make(plotter.XYs, 0, len(series.Times))
		for j := range series.Times {
			pts = append(pts, plotter.XY{X: series.Times[j], Y: series.SignedVel[j]})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", tr.ID, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("track %d", tr.ID), line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return renderPNG(p, 14*vg.Inch, 6*vg.Inch)
}

// WritePlots renders both PNG plots for exp into outputDir, named after
// file's stem, and returns the paths written.
func (w *Writer) WritePlots(outputDir, file string, exp *track.Experiment) ([]string, error) {
	if err := w.FS.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	stem := Stem(file)
	paths := make([]string, 0, 2)

	render := []struct {
		suffix string
		fn     func(*track.Experiment) ([]byte, error)
	}{
		{"_trajectories.png", TrajectoriesPNG},
		{"_signedvel.png", SignedVelocityPNG},
	}
	for _, r := range render {
		data, err := r.fn(exp)
		if err != nil {
			return paths, fmt.Errorf("rendering %s: %w", r.suffix, err)
		}
		path := filepath.Join(outputDir, stem+r.suffix)
		if err := w.FS.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func renderPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plotColors builds a palette of visually distinct line colors.
func plotColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB in the 0-255 range.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
