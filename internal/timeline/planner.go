package timeline

import (
	"fmt"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/chart"
	"github.com/cricketcast/cricketcast/internal/script"
)

// Planner lays blocks out sequentially against the resolved asset store.
// Asset production must have finished before Plan is called; the store is
// the synchronization point between rendering and planning.
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// Plan builds the timeline for the given blocks. Segment duration comes
// from the avatar clip when one was produced, otherwise from the speech
// estimate of the text. Layout precedence: both assets -> picture in
// picture (unless the block overrides it), avatar only -> avatar only,
// chart only -> fullscreen chart, neither -> text card.
func (p *Planner) Plan(matchID string, blocks []script.Block, store *asset.Store) (*Timeline, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("planner: no commentary blocks for %s", matchID)
	}

	tl := &Timeline{MatchID: matchID}
	cursor := 0.0

	for i, block := range blocks {
		chartAsset, hasChart := store.Chart(i)
		avatarAsset, hasAvatar := store.Avatar(i)

		duration := script.EstimateDuration(block.Text)
		if hasAvatar && avatarAsset.Duration > 0 {
			duration = avatarAsset.Duration
		} else if !hasAvatar && hasChart && chartAsset.Duration > duration {
			duration = chartAsset.Duration
		}
		if duration <= 0 {
			return nil, fmt.Errorf("planner: segment %d of %s has no usable duration", i, matchID)
		}

		cursor += block.PauseBefore
		seg := Segment{
			Index:       i,
			Text:        block.Text,
			ChartKind:   block.Chart,
			Start:       cursor,
			Duration:    duration,
			Layout:      chooseLayout(block, hasChart, hasAvatar),
			Fade:        block.Fade,
			PauseBefore: block.PauseBefore,
		}
		if seg.Layout == LayoutPictureInPicture {
			seg.Corner = ParseCorner(block.Corner)
		}
		tl.Segments = append(tl.Segments, seg)
		cursor += duration
	}

	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

func chooseLayout(block script.Block, hasChart, hasAvatar bool) LayoutMode {
	switch {
	case hasChart && hasAvatar:
		if o := overrideLayout(block.Layout); o != "" {
			return o
		}
		return LayoutPictureInPicture
	case hasAvatar:
		return LayoutAvatarOnly
	case hasChart:
		if block.Chart == chart.KindNone {
			// A stored image the block never asked for is a text card
			// backing an otherwise empty segment.
			return LayoutTextCard
		}
		return LayoutFullscreenChart
	default:
		return LayoutTextCard
	}
}

// overrideLayout honors an explicit block hint when both assets exist.
func overrideLayout(hint string) LayoutMode {
	switch LayoutMode(hint) {
	case LayoutFullscreenChart, LayoutAvatarOnly, LayoutPictureInPicture:
		return LayoutMode(hint)
	}
	return ""
}

// HasChartRequest reports whether any block asks for the given chart kind.
func HasChartRequest(blocks []script.Block, kind chart.Kind) bool {
	for _, b := range blocks {
		if b.Chart == kind {
			return true
		}
	}
	return false
}
