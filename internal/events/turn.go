package events

import (
	"math"

	"github.com/magatfairy/crawlstats/internal/kinematics"
)

// TurnDirection labels the rotation sense of a turn.
type TurnDirection string

const (
	// TurnLeft is a counter-clockwise heading change.
	TurnLeft TurnDirection = "left"
	// TurnRight is a clockwise heading change.
	TurnRight TurnDirection = "right"
)

// TurnEvent is one rapid heading change. Idx refers to the interval series;
// AngleChange is the accumulated heading change in degrees, always positive.
type TurnEvent struct {
	Idx         int           `json:"idx"`
	Time        float64       `json:"time"`
	AngleChange float64       `json:"angle_change"`
	Direction   TurnDirection `json:"direction"`
}

// TurnConfig holds the turn detector tunables.
type TurnConfig struct {
	AngleThresholdDeg  float64
	MinFrames          int
	MaxLookaheadFrames int
}

// DefaultTurnConfig returns the standard detector settings: 45 degrees
// accumulated over at most 30 frames, with a 3 frame refractory jump.
func DefaultTurnConfig() TurnConfig {
	return TurnConfig{
		AngleThresholdDeg:  45.0,
		MinFrames:          3,
		MaxLookaheadFrames: 30,
	}
}

// DetectTurns scans the heading series for accumulated angle changes that
// reach the threshold. From each start frame the signed per-frame heading
// deltas are summed over at most MaxLookaheadFrames; on the first frame the
// magnitude reaches AngleThresholdDeg an event is emitted at the start frame
// and the scan cursor jumps past the matched span by MinFrames. Without a
// match the cursor advances one frame.
//
// times holds the interval-start timestamps (one shorter than heading).
// Series with fewer than MinFrames heading samples yield no events.
func DetectTurns(times []float64, heading []kinematics.Vec2, cfg TurnConfig) []TurnEvent {
	events := make([]TurnEvent, 0)
	if len(heading) < cfg.MinFrames {
		return events
	}

	angles := make([]float64, len(heading))
	for i, h := range heading {
		angles[i] = h.Angle()
	}
	unwrapped := unwrap(angles)

	angleDiff := make([]float64, len(unwrapped)-1)
	for i := range angleDiff {
		angleDiff[i] = (unwrapped[i+1] - unwrapped[i]) * 180 / math.Pi
	}

	i := 0
	for i < len(angleDiff)-cfg.MinFrames {
		cumsum := 0.0
		matched := false

		limit := i + cfg.MaxLookaheadFrames
		if limit > len(angleDiff) {
			limit = len(angleDiff)
		}
		for j := i; j < limit; j++ {
			cumsum += angleDiff[j]
			if math.Abs(cumsum) >= cfg.AngleThresholdDeg {
				direction := TurnRight
				if cumsum > 0 {
					direction = TurnLeft
				}
				events = append(events, TurnEvent{
					Idx:         i,
					Time:        times[i],
					AngleChange: math.Abs(cumsum),
					Direction:   direction,
				})
				i = j + cfg.MinFrames
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}

	return events
}

// unwrap removes 2-pi jumps from a phase series. A step of magnitude pi or
// more is folded into (-pi, pi], with an exact pi step keeping the sign of
// the original difference.
func unwrap(angles []float64) []float64 {
	if len(angles) == 0 {
		return nil
	}

	out := make([]float64, len(angles))
	out[0] = angles[0]
	correction := 0.0

	for i := 1; i < len(angles); i++ {
		d := angles[i] - angles[i-1]

		dd := math.Mod(d+math.Pi, 2*math.Pi)
		if dd < 0 {
			dd += 2 * math.Pi
		}
		dd -= math.Pi
		if dd == -math.Pi && d > 0 {
			dd = math.Pi
		}

		phaseCorrect := dd - d
		if math.Abs(d) < math.Pi {
			phaseCorrect = 0
		}

		correction += phaseCorrect
		out[i] = angles[i] + correction
	}

	return out
}
