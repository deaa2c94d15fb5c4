// Package timeline lays commentary segments out on the shared video
// timeline and owns the Timeline invariants: sorted by start offset,
// positive durations, no overlap.
package timeline

import (
	"fmt"

	"github.com/cricketcast/cricketcast/internal/chart"
)

// LayoutMode selects how a segment's assets are composed on the frame.
type LayoutMode string

const (
	LayoutFullscreenChart  LayoutMode = "fullscreen_chart"
	LayoutPictureInPicture LayoutMode = "picture_in_picture"
	LayoutAvatarOnly       LayoutMode = "avatar_only"
	LayoutTextCard         LayoutMode = "text_card"
)

// Corner names the inset anchor for picture-in-picture layouts.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// ParseCorner maps a block hint to a Corner, defaulting to bottom-right.
func ParseCorner(s string) Corner {
	switch Corner(s) {
	case CornerTopLeft, CornerTopRight, CornerBottomLeft:
		return Corner(s)
	default:
		return CornerBottomRight
	}
}

// Segment is one timed commentary unit on the timeline.
type Segment struct {
	Index     int        `yaml:"index"`
	Text      string     `yaml:"text"`
	ChartKind chart.Kind `yaml:"chart,omitempty"`

	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`

	Layout LayoutMode `yaml:"layout"`
	Corner Corner     `yaml:"corner,omitempty"`

	// Fade opts this segment into fade transitions at its boundaries.
	Fade        bool    `yaml:"fade,omitempty"`
	PauseBefore float64 `yaml:"pause_before,omitempty"`
}

// End returns the segment's end offset.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// Timeline is the ordered segment sequence for one match video.
type Timeline struct {
	MatchID  string    `yaml:"match_id"`
	Segments []Segment `yaml:"segments"`
}

// TotalDuration is the end offset of the last segment.
func (t *Timeline) TotalDuration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End()
}

// Validate enforces the timeline invariants. The planner calls it before
// returning; the compositor may call it again on loaded timelines.
func (t *Timeline) Validate() error {
	sum := 0.0
	for i, seg := range t.Segments {
		if seg.Duration <= 0 {
			return fmt.Errorf("timeline %s: segment %d has non-positive duration %.3f",
				t.MatchID, seg.Index, seg.Duration)
		}
		if i > 0 && seg.Start < t.Segments[i-1].End()-1e-9 {
			return fmt.Errorf("timeline %s: segment %d (start %.3f) overlaps segment %d (end %.3f)",
				t.MatchID, seg.Index, seg.Start, t.Segments[i-1].Index, t.Segments[i-1].End())
		}
		sum += seg.Duration + seg.PauseBefore
	}
	if len(t.Segments) > 0 && !closeEnough(sum, t.TotalDuration()) {
		return fmt.Errorf("timeline %s: durations+pauses sum %.3f != total %.3f",
			t.MatchID, sum, t.TotalDuration())
	}
	return nil
}

func closeEnough(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
