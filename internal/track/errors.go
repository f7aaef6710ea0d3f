package track

import "fmt"

// ShapeMismatchError reports a track whose per-frame arrays disagree in
// length. Such tracks are rejected whole; no silent truncation.
type ShapeMismatchError struct {
	TrackID int
	Field   string
	Got     int
	Want    int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("track %d: %s has %d samples, eti has %d", e.TrackID, e.Field, e.Got, e.Want)
}

// TooShortError reports a track with too few frames to difference.
type TooShortError struct {
	TrackID int
	Samples int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("track %d: needs at least 2 samples, got %d", e.TrackID, e.Samples)
}
