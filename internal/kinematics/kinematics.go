// Package kinematics derives per-track motion series from raw positions:
// heading unit vectors, velocity unit vectors, speed and signed velocity.
//
// All differenced series have length N-1 for a track of N frames and are
// timestamped at interval starts. The heading series keeps the full length N;
// signed velocity pairs interval i with the heading at its starting frame.
package kinematics

import (
	"math"

	"github.com/magatfairy/crawlstats/internal/track"
	"github.com/magatfairy/crawlstats/internal/units"
)

// Vec2 is a 2-D vector.
type Vec2 struct {
	X float64
	Y float64
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Norm returns the Euclidean length of v.
func (v Vec2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns the angle of v in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Series holds the derived motion series of one track. Speeds are in cm/s.
type Series struct {
	Times     []float64 // interval-start timestamps, length N-1
	Heading   []Vec2    // heading unit vectors, length N
	Velocity  []Vec2    // velocity unit vectors, length N-1
	Speed     []float64 // length N-1
	CosTheta  []float64 // length N-1
	SignedVel []float64 // speed projected onto heading, length N-1
}

// HeadingUnitVectors computes the body orientation per frame from the head
// and midpoint series. A frame where head and midpoint coincide yields the
// zero vector.
func HeadingUnitVectors(head, mid track.PointSeries) []Vec2 {
	n := head.Len()
	out := make([]Vec2, n)
	for i := 0; i < n; i++ {
		dx := head.X[i] - mid.X[i]
		dy := head.Y[i] - mid.Y[i]
		norm := math.Hypot(dx, dy)
		if norm == 0 {
			norm = 1
		}
		out[i] = Vec2{X: dx / norm, Y: dy / norm}
	}
	return out
}

// VelocityAndSpeed computes unit velocity vectors, speeds in cm/s and the
// interval-start timestamps from a pixel centroid series. Intervals with
// zero elapsed time get speed 0; stationary intervals get the zero velocity
// vector.
func VelocityAndSpeed(centroid track.PointSeries, times []float64, scale float64) (vel []Vec2, speed, intervalTimes []float64) {
	n := centroid.Len()
	if n < 2 || len(times) != n {
		return nil, nil, nil
	}

	m := n - 1
	vel = make([]Vec2, m)
	speed = make([]float64, m)
	intervalTimes = make([]float64, m)
	for i := 0; i < m; i++ {
		dx := units.PixelsToCm(centroid.X[i+1]-centroid.X[i], scale)
		dy := units.PixelsToCm(centroid.Y[i+1]-centroid.Y[i], scale)
		dt := times[i+1] - times[i]
		dist := math.Hypot(dx, dy)

		if dt > 0 {
			speed[i] = dist / dt
		}
		if dist > 0 {
			vel[i] = Vec2{X: dx / dist, Y: dy / dist}
		}
		intervalTimes[i] = times[i]
	}
	return vel, speed, intervalTimes
}

// Derive validates tr and computes its full motion series using the given
// camera scale in cm per pixel. Signed velocity is positive when the track
// moves along its heading and negative when it backs up.
func Derive(tr *track.Track, scale float64) (*Series, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}

	heading := HeadingUnitVectors(tr.Head, tr.Mid)
	vel, speed, times := VelocityAndSpeed(tr.Centroid(), tr.Times, scale)

	m := len(speed)
	cosTheta := make([]float64, m)
	signedVel := make([]float64, m)
	for i := 0; i < m; i++ {
		cosTheta[i] = vel[i].Dot(heading[i])
		signedVel[i] = speed[i] * cosTheta[i]
	}

	return &Series{
		Times:     times,
		Heading:   heading,
		Velocity:  vel,
		Speed:     speed,
		CosTheta:  cosTheta,
		SignedVel: signedVel,
	}, nil
}
