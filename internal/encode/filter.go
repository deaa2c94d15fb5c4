package encode

import (
	"fmt"
	"strings"

	"github.com/cricketcast/cricketcast/internal/compose"
)

// Pure ffmpeg filtergraph builders. Keeping these free of exec plumbing
// makes the encoder's string output testable.

// scalePad fits an input into the target frame, padding to center.
func scalePad(w, h int) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		w, h, w, h)
}

// SegmentGraph builds the filter_complex for one composed segment.
// Input 0 is the base (chart still or avatar clip); input 1, when present,
// is the PiP avatar; the last input is the QR badge if the item carries
// one. The final labeled output is [vout].
func SegmentGraph(item compose.Item, width, height, fps int) string {
	var parts []string
	last := "[base]"

	switch {
	case item.Avatar != nil && item.Chart != nil:
		// Picture in picture: chart base, avatar inset.
		r := item.InsetRect
		parts = append(parts,
			fmt.Sprintf("[0:v]%s,fps=%d[base]", scalePad(width, height), fps),
			fmt.Sprintf("[1:v]scale=%d:%d[inset]", r.W, r.H),
			fmt.Sprintf("[base][inset]overlay=%d:%d[pip]", r.X, r.Y),
		)
		last = "[pip]"
	case item.Avatar != nil:
		parts = append(parts, fmt.Sprintf("[0:v]%s,fps=%d[base]", scalePad(width, height), fps))
	default:
		// Fullscreen chart or text card.
		parts = append(parts, fmt.Sprintf("[0:v]%s,fps=%d[base]", scalePad(width, height), fps))
	}

	if item.LowerThird != "" {
		parts = append(parts, fmt.Sprintf("%s%s[lt]", last, LowerThirdFilter(item.LowerThird)))
		last = "[lt]"
	}

	if item.Badge != nil {
		badgeInput := 1
		if item.Avatar != nil && item.Chart != nil {
			badgeInput = 2
		}
		parts = append(parts,
			fmt.Sprintf("%s[%d:v]overlay=main_w-overlay_w-%d:%d[badged]", last, badgeInput, badgeMargin, badgeMargin))
		last = "[badged]"
	}

	parts = append(parts, fmt.Sprintf("%snull[vout]", last))
	return strings.Join(parts, ";")
}

const badgeMargin = 24

// LowerThirdFilter renders the lower-third text box centered near the
// bottom of the frame.
func LowerThirdFilter(text string) string {
	return fmt.Sprintf(
		"drawtext=text='%s':fontsize=36:fontcolor=white:box=1:boxcolor=black@0.7:boxborderw=10:x=(w-text_w)/2:y=main_h-100",
		escapeDrawtext(text))
}

// escapeDrawtext escapes the characters ffmpeg's drawtext treats specially.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}

// ConcatGraph builds the xfade chain joining the per-segment clips.
// durations holds each clip's length; transitions[i] is the boundary into
// clip i (transitions[0] is ignored). Cut boundaries degrade to a plain
// concat of the two streams inside the same graph via a zero-length xfade
// replacement, so callers should use the concat demuxer instead when every
// boundary is a cut.
func ConcatGraph(durations []float64, transitions []compose.Transition) string {
	if len(durations) < 2 {
		return ""
	}

	var graph strings.Builder
	last := "[0:v]"
	offset := 0.0
	for i := 1; i < len(durations); i++ {
		tr := transitions[i]
		name := xfadeName(tr.Kind)
		dur := tr.Duration
		if tr.Kind == compose.TransitionCut || dur <= 0 {
			// xfade needs a positive duration; a single frame at 30fps
			// reads as a cut.
			name, dur = "fade", 1.0/30
		}
		offset += durations[i-1] - dur

		out := fmt.Sprintf("[v%d]", i)
		fmt.Fprintf(&graph, "%s[%d:v]xfade=transition=%s:duration=%f:offset=%f%s;",
			last, i, name, dur, offset, out)
		last = out
	}
	return strings.TrimSuffix(graph.String(), ";")
}

// AudioJoinGraph crossfades the clips' audio tracks boundary for boundary
// with ConcatGraph. Each acrossfade overlaps the same duration the video
// xfade consumes, so the joined audio keeps the video's total length.
// Outputs are labeled [a1] through [aN-1].
func AudioJoinGraph(durations []float64, transitions []compose.Transition) string {
	if len(durations) < 2 {
		return ""
	}

	var graph strings.Builder
	last := "[0:a]"
	for i := 1; i < len(durations); i++ {
		tr := transitions[i]
		dur := tr.Duration
		if tr.Kind == compose.TransitionCut || dur <= 0 {
			dur = 1.0 / 30
		}

		out := fmt.Sprintf("[a%d]", i)
		fmt.Fprintf(&graph, "%s[%d:a]acrossfade=d=%f%s;", last, i, dur, out)
		last = out
	}
	return strings.TrimSuffix(graph.String(), ";")
}

func xfadeName(kind compose.TransitionKind) string {
	switch kind {
	case compose.TransitionWipe:
		return "wipeleft"
	default:
		return "fade"
	}
}

// HasTimedTransition reports whether any boundary needs re-encoding via
// xfade rather than the stream-copy concat demuxer.
func HasTimedTransition(items []compose.Item) bool {
	for _, item := range items {
		if item.Incoming.Kind != compose.TransitionCut && item.Incoming.Duration > 0 {
			return true
		}
	}
	return false
}

// BackgroundMixFilter mixes a looped background track under the main audio
// at the given volume.
func BackgroundMixFilter(mainIndex, bgIndex int, volume float64) string {
	return fmt.Sprintf("[%d:a]volume=%f[bg];[%d:a][bg]amix=inputs=2:duration=first:dropout_transition=3[aout]",
		bgIndex, volume, mainIndex)
}
