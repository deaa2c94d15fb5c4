package compose

import (
	"errors"
	"testing"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/timeline"
)

func TestInsetRect(t *testing.T) {
	const w, h = 1920, 1080

	cases := []struct {
		corner timeline.Corner
		x, y   int
	}{
		{timeline.CornerTopLeft, 20, 20},
		{timeline.CornerTopRight, 1920 - 576 - 20, 20},
		{timeline.CornerBottomLeft, 20, 1080 - 324 - 20},
		{timeline.CornerBottomRight, 1920 - 576 - 20, 1080 - 324 - 20},
	}
	for _, c := range cases {
		r := InsetRect(c.corner, w, h)
		if r.W != 576 || r.H != 324 {
			t.Errorf("InsetRect(%s): expected 576x324, got %dx%d", c.corner, r.W, r.H)
		}
		if r.X != c.x || r.Y != c.y {
			t.Errorf("InsetRect(%s): expected position (%d,%d), got (%d,%d)", c.corner, c.x, c.y, r.X, r.Y)
		}
		if r.W%2 != 0 || r.H%2 != 0 {
			t.Errorf("InsetRect(%s): dimensions must be even", c.corner)
		}
	}

	// Stable for repeated calls.
	a := InsetRect(timeline.CornerBottomRight, w, h)
	b := InsetRect(timeline.CornerBottomRight, w, h)
	if a != b {
		t.Error("InsetRect is not stable across calls")
	}
}

func TestSelectTransition(t *testing.T) {
	seg := func(dur float64, fade bool, pause float64) timeline.Segment {
		return timeline.Segment{Duration: dur, Fade: fade, PauseBefore: pause}
	}

	cases := []struct {
		name       string
		configured string
		duration   float64
		prev, next timeline.Segment
		wantKind   TransitionKind
		wantDur    float64
	}{
		{"both opt in", "fade", 0.5, seg(8, true, 0), seg(6, true, 0), TransitionFade, 0.5},
		{"wipe", "wipe", 0.5, seg(8, true, 0), seg(6, true, 0), TransitionWipe, 0.5},
		{"cut configured", "cut", 0.5, seg(8, true, 0), seg(6, true, 0), TransitionCut, 0},
		{"prev opts out", "fade", 0.5, seg(8, false, 0), seg(6, true, 0), TransitionCut, 0},
		{"next opts out", "fade", 0.5, seg(8, true, 0), seg(6, false, 0), TransitionCut, 0},
		{"pause forces cut", "fade", 0.5, seg(8, true, 0), seg(6, true, 1.0), TransitionCut, 0},
		{"zero duration", "fade", 0, seg(8, true, 0), seg(6, true, 0), TransitionCut, 0},
		{"clamped to short neighbor", "fade", 3.0, seg(8, true, 0), seg(2, true, 0), TransitionFade, 1.0},
	}
	for _, c := range cases {
		got := SelectTransition(c.configured, c.duration, c.prev, c.next)
		if got.Kind != c.wantKind || got.Duration != c.wantDur {
			t.Errorf("%s: expected (%s, %f), got (%s, %f)",
				c.name, c.wantKind, c.wantDur, got.Kind, got.Duration)
		}
	}
}

func TestClampTransition(t *testing.T) {
	if got := ClampTransition(0.5, 8, 6); got != 0.5 {
		t.Errorf("Expected 0.5 untouched, got %f", got)
	}
	if got := ClampTransition(4, 8, 3); got != 1.5 {
		t.Errorf("Expected clamp to 1.5, got %f", got)
	}
	if got := ClampTransition(4, 3, 8); got != 1.5 {
		t.Errorf("Expected clamp against prev 1.5, got %f", got)
	}
}

func testOutput() Output {
	return Output{Path: "out.mp4", Codec: "libx264", Width: 1920, Height: 1080, FPS: 30, Quality: 23}
}

func testTimeline(layouts ...timeline.LayoutMode) *timeline.Timeline {
	tl := &timeline.Timeline{MatchID: "m1"}
	cursor := 0.0
	for i, layout := range layouts {
		seg := timeline.Segment{
			Index:    i,
			Text:     "segment",
			Start:    cursor,
			Duration: 5,
			Layout:   layout,
			Fade:     true,
		}
		if layout == timeline.LayoutPictureInPicture {
			seg.Corner = timeline.CornerBottomRight
		}
		tl.Segments = append(tl.Segments, seg)
		cursor += 5
	}
	return tl
}

func TestCompose(t *testing.T) {
	tl := testTimeline(
		timeline.LayoutPictureInPicture,
		timeline.LayoutAvatarOnly,
		timeline.LayoutFullscreenChart,
	)
	store := asset.NewStore()
	store.PutChart(0, asset.Rendered{Path: "c0.png", Kind: asset.KindChart, Duration: 8})
	store.PutAvatar(0, asset.Rendered{Path: "a0.mp4", Kind: asset.KindAvatar, Duration: 5})
	store.PutAvatar(1, asset.Rendered{Path: "a1.mp4", Kind: asset.KindAvatar, Duration: 5})
	store.PutChart(2, asset.Rendered{Path: "c2.png", Kind: asset.KindChart, Duration: 8})

	badge := &asset.Rendered{Path: "badge.png", Kind: asset.KindChart, Width: 180, Height: 208}
	plan, err := NewCompositor(Params{
		Width: 1920, Height: 1080,
		TransitionType: "fade", FadeDuration: 0.5,
		LowerThird: "Home 176/4 (17.1 ov)",
		Badge:      badge,
		Output:     testOutput(),
	}).Compose(tl, store)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(plan.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(plan.Items))
	}
	if plan.TotalDuration != 15 {
		t.Errorf("Expected total 15, got %f", plan.TotalDuration)
	}

	pip := plan.Items[0]
	if pip.Chart == nil || pip.Avatar == nil {
		t.Fatal("PiP item must resolve both assets")
	}
	if pip.InsetRect != InsetRect(timeline.CornerBottomRight, 1920, 1080) {
		t.Errorf("Unexpected inset rect %+v", pip.InsetRect)
	}
	if pip.Incoming.Kind != "" && pip.Incoming.Kind != TransitionCut {
		t.Errorf("First item must enter on a cut, got %s", pip.Incoming.Kind)
	}

	if plan.Items[1].Avatar == nil || plan.Items[1].Chart != nil {
		t.Error("Avatar-only item resolved the wrong assets")
	}
	if plan.Items[1].Incoming.Kind != TransitionFade {
		t.Errorf("Expected fade into item 1, got %s", plan.Items[1].Incoming.Kind)
	}

	if plan.Items[2].Chart == nil || plan.Items[2].Avatar != nil {
		t.Error("Fullscreen item resolved the wrong assets")
	}
	if plan.Items[0].Badge != nil || plan.Items[1].Badge != nil {
		t.Error("Badge must only appear on the closing item")
	}
	if plan.Items[2].Badge != badge {
		t.Error("Expected badge on the closing item")
	}
	for _, item := range plan.Items {
		if item.LowerThird != "Home 176/4 (17.1 ov)" {
			t.Error("Lower third text missing from item")
		}
	}
}

func TestComposeMissingAssets(t *testing.T) {
	cases := []struct {
		name   string
		layout timeline.LayoutMode
		seed   func(*asset.Store)
		kind   asset.Kind
	}{
		{"pip without avatar", timeline.LayoutPictureInPicture,
			func(s *asset.Store) { s.PutChart(0, asset.Rendered{Path: "c.png", Kind: asset.KindChart}) },
			asset.KindAvatar},
		{"pip without chart", timeline.LayoutPictureInPicture,
			func(s *asset.Store) { s.PutAvatar(0, asset.Rendered{Path: "a.mp4", Kind: asset.KindAvatar}) },
			asset.KindChart},
		{"avatar only without avatar", timeline.LayoutAvatarOnly,
			func(s *asset.Store) {}, asset.KindAvatar},
		{"fullscreen without chart", timeline.LayoutFullscreenChart,
			func(s *asset.Store) {}, asset.KindChart},
	}

	for _, c := range cases {
		store := asset.NewStore()
		c.seed(store)
		_, err := NewCompositor(Params{Width: 1920, Height: 1080, Output: testOutput()}).
			Compose(testTimeline(c.layout), store)

		var resErr *AssetResolutionError
		if !errors.As(err, &resErr) {
			t.Errorf("%s: expected AssetResolutionError, got %v", c.name, err)
			continue
		}
		if resErr.Kind != c.kind {
			t.Errorf("%s: expected missing %s, got %s", c.name, c.kind, resErr.Kind)
		}
		if resErr.SegmentIndex != 0 {
			t.Errorf("%s: expected segment 0, got %d", c.name, resErr.SegmentIndex)
		}
	}
}

func TestComposeInvalidTimeline(t *testing.T) {
	tl := &timeline.Timeline{
		MatchID:  "m1",
		Segments: []timeline.Segment{{Index: 0, Duration: -1, Layout: timeline.LayoutTextCard}},
	}
	if _, err := NewCompositor(Params{Output: testOutput()}).Compose(tl, asset.NewStore()); err == nil {
		t.Fatal("Expected error for invalid timeline")
	}
}
