package compose

import "github.com/cricketcast/cricketcast/internal/timeline"

// TransitionKind is the boundary style between two adjacent segments.
type TransitionKind string

const (
	TransitionCut  TransitionKind = "cut"
	TransitionFade TransitionKind = "fade"
	TransitionWipe TransitionKind = "wipe"
)

// Transition is attached to the boundary between two adjacent segments.
// A cut has zero duration.
type Transition struct {
	Kind     TransitionKind
	Duration float64
}

// SelectTransition picks the boundary between prev and next. Default is a
// cut; a timed transition happens only when the run is configured for one,
// both segments opt in, and there is no deliberate pause between them. The
// duration is clamped to half the shorter neighbor so a transition can
// never swallow a short segment.
func SelectTransition(configured string, duration float64, prev, next timeline.Segment) Transition {
	kind := TransitionCut
	switch TransitionKind(configured) {
	case TransitionFade:
		kind = TransitionFade
	case TransitionWipe:
		kind = TransitionWipe
	default:
		return Transition{Kind: TransitionCut}
	}

	if !prev.Fade || !next.Fade || next.PauseBefore > 0 || duration <= 0 {
		return Transition{Kind: TransitionCut}
	}

	return Transition{Kind: kind, Duration: ClampTransition(duration, prev.Duration, next.Duration)}
}

// ClampTransition limits a transition to half of the shorter neighboring
// segment.
func ClampTransition(duration, prevDur, nextDur float64) float64 {
	shorter := prevDur
	if nextDur < shorter {
		shorter = nextDur
	}
	if max := shorter / 2; duration > max {
		return max
	}
	return duration
}
