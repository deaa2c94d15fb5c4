package encode

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/compose"
	"github.com/cricketcast/cricketcast/internal/timeline"
)

func TestSegmentGraphPiP(t *testing.T) {
	item := compose.Item{
		Chart:     &asset.Rendered{Path: "c.png", Kind: asset.KindChart},
		Avatar:    &asset.Rendered{Path: "a.mp4", Kind: asset.KindAvatar},
		InsetRect: compose.Rect{X: 1324, Y: 736, W: 576, H: 324},
	}
	graph := SegmentGraph(item, 1920, 1080, 30)

	for _, want := range []string{
		"scale=576:324[inset]",
		"overlay=1324:736",
		"fps=30",
		"[vout]",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("PiP graph missing %q:\n%s", want, graph)
		}
	}
}

func TestSegmentGraphLowerThirdAndBadge(t *testing.T) {
	item := compose.Item{
		Chart:      &asset.Rendered{Path: "c.png", Kind: asset.KindChart},
		LowerThird: "Home 176/4",
		Badge:      &asset.Rendered{Path: "badge.png", Kind: asset.KindChart},
	}
	graph := SegmentGraph(item, 1920, 1080, 30)

	if !strings.Contains(graph, "drawtext=") {
		t.Errorf("Expected drawtext in graph:\n%s", graph)
	}
	// Chart-only: the badge is input 1.
	if !strings.Contains(graph, "[1:v]overlay=main_w-overlay_w-24:24") {
		t.Errorf("Expected badge overlay on input 1:\n%s", graph)
	}

	item.Avatar = &asset.Rendered{Path: "a.mp4", Kind: asset.KindAvatar}
	item.InsetRect = compose.Rect{X: 10, Y: 10, W: 576, H: 324}
	graph = SegmentGraph(item, 1920, 1080, 30)
	// With a PiP avatar the badge shifts to input 2.
	if !strings.Contains(graph, "[2:v]overlay=") {
		t.Errorf("Expected badge overlay on input 2 for PiP:\n%s", graph)
	}
}

func TestEscapeDrawtext(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"176/4 (17.1 ov)", "176/4 (17.1 ov)"},
		{"it's 50%", `it\'s 50\%`},
		{"a:b", `a\:b`},
		{`back\slash`, `back\\slash`},
	}
	for _, c := range cases {
		if got := escapeDrawtext(c.in); got != c.want {
			t.Errorf("escapeDrawtext(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestConcatGraphOffsets(t *testing.T) {
	durations := []float64{8, 6, 5}
	transitions := []compose.Transition{
		{Kind: compose.TransitionCut},
		{Kind: compose.TransitionFade, Duration: 0.5},
		{Kind: compose.TransitionFade, Duration: 0.5},
	}
	graph := ConcatGraph(durations, transitions)

	// First boundary at 8 - 0.5 = 7.5, second at 7.5 + 6 - 0.5 = 13.
	if !strings.Contains(graph, "offset=7.500000") {
		t.Errorf("Expected first xfade offset 7.5:\n%s", graph)
	}
	if !strings.Contains(graph, "offset=13.000000") {
		t.Errorf("Expected second xfade offset 13.0:\n%s", graph)
	}
	if !strings.HasSuffix(graph, "[v2]") {
		t.Errorf("Expected final label [v2]:\n%s", graph)
	}
	if strings.Count(graph, "xfade=") != 2 {
		t.Errorf("Expected 2 xfade stages:\n%s", graph)
	}
}

func TestConcatGraphSingleClip(t *testing.T) {
	if g := ConcatGraph([]float64{5}, []compose.Transition{{Kind: compose.TransitionCut}}); g != "" {
		t.Errorf("Expected empty graph for a single clip, got %q", g)
	}
}

func TestConcatGraphWipe(t *testing.T) {
	graph := ConcatGraph(
		[]float64{4, 4},
		[]compose.Transition{{}, {Kind: compose.TransitionWipe, Duration: 0.5}})
	if !strings.Contains(graph, "transition=wipeleft") {
		t.Errorf("Expected wipeleft transition:\n%s", graph)
	}
}

func TestHasTimedTransition(t *testing.T) {
	cut := compose.Item{Segment: timeline.Segment{}, Incoming: compose.Transition{Kind: compose.TransitionCut}}
	fade := compose.Item{Incoming: compose.Transition{Kind: compose.TransitionFade, Duration: 0.5}}

	if HasTimedTransition([]compose.Item{cut, cut}) {
		t.Error("All-cut items should not need xfade")
	}
	if !HasTimedTransition([]compose.Item{cut, fade}) {
		t.Error("A fade boundary should need xfade")
	}
}

func TestBackgroundMixFilter(t *testing.T) {
	f := BackgroundMixFilter(0, 1, 0.2)
	for _, want := range []string{"[1:a]volume=0.2", "amix=inputs=2", "[aout]"} {
		if !strings.Contains(f, want) {
			t.Errorf("Mix filter missing %q:\n%s", want, f)
		}
	}
}

func TestSegmentArgs(t *testing.T) {
	out := compose.Output{Codec: "libx264", Width: 1920, Height: 1080, FPS: 30, Quality: 23}

	chartOnly := compose.Item{
		Segment: timeline.Segment{Duration: 8, Layout: timeline.LayoutFullscreenChart},
		Chart:   &asset.Rendered{Path: "c.png", Kind: asset.KindChart},
	}
	args := strings.Join(SegmentArgs(chartOnly, out, "clip.mp4"), " ")
	for _, want := range []string{"-loop 1", "c.png", "-t 8", "-c:v libx264", "clip.mp4"} {
		if !strings.Contains(args, want) {
			t.Errorf("Chart-only args missing %q:\n%s", want, args)
		}
	}
	// A clip without narration still gets a silence track so all clips
	// share the same stream layout.
	for _, want := range []string{"anullsrc", "-map 1:a", "-c:a aac"} {
		if !strings.Contains(args, want) {
			t.Errorf("Chart-only args missing %q:\n%s", want, args)
		}
	}

	pip := compose.Item{
		Segment: timeline.Segment{Duration: 6, Layout: timeline.LayoutPictureInPicture},
		Chart:   &asset.Rendered{Path: "c.png", Kind: asset.KindChart},
		Avatar:  &asset.Rendered{Path: "a.mp4", Kind: asset.KindAvatar},
	}
	args = strings.Join(SegmentArgs(pip, out, "clip.mp4"), " ")
	for _, want := range []string{"a.mp4", "-map 1:a", "-c:a aac"} {
		if !strings.Contains(args, want) {
			t.Errorf("PiP args missing %q:\n%s", want, args)
		}
	}
	if strings.Contains(args, "anullsrc") {
		t.Errorf("Narrated clip should keep its own audio, not silence:\n%s", args)
	}
}

func TestSegmentArgsUniformAudio(t *testing.T) {
	out := compose.Output{Codec: "libx264", Width: 1920, Height: 1080, FPS: 30, Quality: 23}
	items := []compose.Item{
		{
			Segment: timeline.Segment{Duration: 8, Layout: timeline.LayoutFullscreenChart},
			Chart:   &asset.Rendered{Path: "c.png", Kind: asset.KindChart},
		},
		{
			Segment: timeline.Segment{Duration: 6, Layout: timeline.LayoutAvatarOnly},
			Avatar:  &asset.Rendered{Path: "a.mp4", Kind: asset.KindAvatar},
		},
		{
			Segment:   timeline.Segment{Duration: 6, Layout: timeline.LayoutPictureInPicture},
			Chart:     &asset.Rendered{Path: "c.png", Kind: asset.KindChart},
			Avatar:    &asset.Rendered{Path: "a.mp4", Kind: asset.KindAvatar},
			InsetRect: compose.Rect{X: 10, Y: 10, W: 576, H: 324},
		},
		{
			Segment: timeline.Segment{Duration: 8, Layout: timeline.LayoutFullscreenChart},
			Chart:   &asset.Rendered{Path: "c.png", Kind: asset.KindChart},
			Badge:   &asset.Rendered{Path: "badge.png", Kind: asset.KindChart},
		},
	}
	for i, item := range items {
		args := strings.Join(SegmentArgs(item, out, "clip.mp4"), " ")
		for _, want := range []string{"-c:a aac", "-ar 44100"} {
			if !strings.Contains(args, want) {
				t.Errorf("Item %d: expected %q in args:\n%s", i, want, args)
			}
		}
	}

	// With a badge the silence source sits after the badge input.
	badged := strings.Join(SegmentArgs(items[3], out, "clip.mp4"), " ")
	if !strings.Contains(badged, "-map 2:a") {
		t.Errorf("Badged silent clip should map audio from input 2:\n%s", badged)
	}
}

func TestSpacerArgsCarryAudio(t *testing.T) {
	out := compose.Output{Codec: "libx264", Width: 1920, Height: 1080, FPS: 30, Quality: 23}
	args := strings.Join(SpacerArgs(1.5, out, "gap.mp4"), " ")
	for _, want := range []string{"anullsrc", "-map 0:v", "-map 1:a", "-c:a aac"} {
		if !strings.Contains(args, want) {
			t.Errorf("Spacer args missing %q:\n%s", want, args)
		}
	}
}

func TestAudioJoinGraph(t *testing.T) {
	durations := []float64{8, 6, 5}
	transitions := []compose.Transition{
		{Kind: compose.TransitionCut},
		{Kind: compose.TransitionFade, Duration: 0.5},
		{Kind: compose.TransitionCut},
	}
	graph := AudioJoinGraph(durations, transitions)

	if !strings.Contains(graph, "[0:a][1:a]acrossfade=d=0.500000[a1]") {
		t.Errorf("Expected first acrossfade over 0.5s:\n%s", graph)
	}
	// Cut boundaries use the same single-frame overlap as the video chain.
	if !strings.Contains(graph, "[a1][2:a]acrossfade=d=0.033333[a2]") {
		t.Errorf("Expected single-frame acrossfade at the cut boundary:\n%s", graph)
	}
	if !strings.HasSuffix(graph, "[a2]") {
		t.Errorf("Expected final label [a2]:\n%s", graph)
	}

	if g := AudioJoinGraph([]float64{5}, transitions[:1]); g != "" {
		t.Errorf("Expected empty graph for a single clip, got %q", g)
	}
}

func TestXfadeMuxArgsMapsAudio(t *testing.T) {
	out := compose.Output{Codec: "libx264", Quality: 23}
	clips := []string{"s0.mp4", "s1.mp4", "s2.mp4"}
	durations := []float64{8, 6, 5}
	transitions := []compose.Transition{
		{Kind: compose.TransitionCut},
		{Kind: compose.TransitionFade, Duration: 0.5},
		{Kind: compose.TransitionFade, Duration: 0.5},
	}

	args := strings.Join(XfadeMuxArgs(clips, durations, transitions, out, "final.mp4"), " ")
	for _, want := range []string{
		"xfade=transition=fade",
		"acrossfade=",
		"-map [v2]",
		"-map [a2]",
		"-c:a aac",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("Xfade mux args missing %q:\n%s", want, args)
		}
	}
}

func TestQualityArgs(t *testing.T) {
	cases := []struct {
		codec string
		want  string
	}{
		{"h264_videotoolbox", "-b:v"},
		{"h264_nvenc", "-cq"},
		{"libx264", "-crf"},
	}
	for _, c := range cases {
		out := compose.Output{Codec: c.codec, Quality: 23}
		args := strings.Join(qualityArgs(out), " ")
		if !strings.Contains(args, c.want) {
			t.Errorf("qualityArgs(%s): expected %q in %q", c.codec, c.want, args)
		}
	}
}

func TestEncodingErrorFormat(t *testing.T) {
	err := &EncodingError{SegmentIndex: 2, Stage: "segment", Err: fmt.Errorf("exit status 1")}
	if !strings.Contains(err.Error(), "segment") {
		t.Errorf("Unexpected error text: %s", err.Error())
	}

	final := &EncodingError{SegmentIndex: -1, Stage: "mux", Err: fmt.Errorf("exit status 1")}
	if !strings.Contains(final.Error(), "mux") {
		t.Errorf("Unexpected error text: %s", final.Error())
	}
}
