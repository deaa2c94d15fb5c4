// Package compose resolves a timeline plus rendered assets into the
// declarative CompositionPlan the encoder executes. Everything here is pure
// bookkeeping and geometry; no process is spawned.
package compose

import (
	"fmt"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/timeline"
)

// AssetResolutionError reports a segment whose required asset is missing at
// compose time. It is fatal for the timeline: no encoder call may happen
// after it.
type AssetResolutionError struct {
	SegmentIndex int
	Kind         asset.Kind
}

func (e *AssetResolutionError) Error() string {
	return fmt.Sprintf("segment %d: required %s asset missing at compose time", e.SegmentIndex, e.Kind)
}

// Output is the export target of the plan.
type Output struct {
	Path    string
	Codec   string
	Width   int
	Height  int
	FPS     int
	Quality int

	BackgroundAudio  string
	BackgroundVolume float64
}

// Item is one fully resolved segment: assets, layout geometry and the
// transition leading into it.
type Item struct {
	Segment timeline.Segment

	Chart  *asset.Rendered
	Avatar *asset.Rendered

	// InsetRect is the picture-in-picture placement of the avatar clip;
	// zero value for non-PiP layouts.
	InsetRect Rect

	LowerThird string

	// Incoming is the transition from the previous item. The first item
	// always enters on a cut.
	Incoming Transition

	// Badge is the scorecard QR overlay, set on the closing item only.
	Badge *asset.Rendered
}

// Plan is the complete, order-correct instruction sequence handed to the
// encoder boundary.
type Plan struct {
	MatchID       string
	Items         []Item
	Output        Output
	TotalDuration float64
}

// Params configures a Compositor. All fields are read-only after
// construction.
type Params struct {
	Width  int
	Height int

	// TransitionType is the configured boundary style; segments still
	// have to opt in pairwise for anything other than a cut.
	TransitionType string
	FadeDuration   float64

	LowerThird string
	Badge      *asset.Rendered

	Output Output
}

// Compositor consumes a timeline and an asset store by reference and
// produces a Plan. It never mutates either.
type Compositor struct {
	params Params
}

func NewCompositor(params Params) *Compositor {
	return &Compositor{params: params}
}

// Compose resolves every segment. The returned plan is the single source
// of truth for the encoder; compose failures abort before any encoding.
func (c *Compositor) Compose(tl *timeline.Timeline, store *asset.Store) (*Plan, error) {
	if err := tl.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{
		MatchID:       tl.MatchID,
		Output:        c.params.Output,
		TotalDuration: tl.TotalDuration(),
	}

	for i, seg := range tl.Segments {
		item := Item{Segment: seg, LowerThird: c.params.LowerThird}

		chartAsset, hasChart := store.Chart(seg.Index)
		avatarAsset, hasAvatar := store.Avatar(seg.Index)

		switch seg.Layout {
		case timeline.LayoutPictureInPicture:
			if !hasChart {
				return nil, &AssetResolutionError{SegmentIndex: seg.Index, Kind: asset.KindChart}
			}
			if !hasAvatar {
				return nil, &AssetResolutionError{SegmentIndex: seg.Index, Kind: asset.KindAvatar}
			}
			item.Chart = &chartAsset
			item.Avatar = &avatarAsset
			item.InsetRect = InsetRect(seg.Corner, c.params.Width, c.params.Height)
		case timeline.LayoutAvatarOnly:
			if !hasAvatar {
				return nil, &AssetResolutionError{SegmentIndex: seg.Index, Kind: asset.KindAvatar}
			}
			item.Avatar = &avatarAsset
		case timeline.LayoutFullscreenChart, timeline.LayoutTextCard:
			if !hasChart {
				return nil, &AssetResolutionError{SegmentIndex: seg.Index, Kind: asset.KindChart}
			}
			item.Chart = &chartAsset
		default:
			return nil, fmt.Errorf("segment %d: unknown layout %q", seg.Index, seg.Layout)
		}

		if i > 0 {
			item.Incoming = SelectTransition(
				c.params.TransitionType, c.params.FadeDuration,
				tl.Segments[i-1], seg)
		}
		plan.Items = append(plan.Items, item)
	}

	if c.params.Badge != nil && len(plan.Items) > 0 {
		plan.Items[len(plan.Items)-1].Badge = c.params.Badge
	}

	return plan, nil
}
