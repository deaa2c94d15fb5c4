package encode

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/compose"
)

// FFmpegEncoder renders each plan item to an intermediate clip and joins
// them into the final artifact.
type FFmpegEncoder struct {
	// Binary defaults to "ffmpeg" on PATH.
	Binary string
}

func NewFFmpegEncoder() *FFmpegEncoder {
	return &FFmpegEncoder{Binary: "ffmpeg"}
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

// Execute encodes every segment clip, then muxes them: the concat demuxer
// with stream copy when every boundary is a cut, an xfade chain otherwise.
func (e *FFmpegEncoder) Execute(ctx context.Context, plan *compose.Plan, tmpDir string) error {
	if len(plan.Items) == 0 {
		return &EncodingError{SegmentIndex: -1, Stage: "plan", Err: fmt.Errorf("empty composition plan")}
	}

	var clips []string
	var durations []float64
	var transitions []compose.Transition

	for _, item := range plan.Items {
		if item.Segment.PauseBefore > 0 {
			spacer := filepath.Join(tmpDir, fmt.Sprintf("gap%d.mp4", item.Segment.Index))
			args := SpacerArgs(item.Segment.PauseBefore, plan.Output, spacer)
			if log, err := e.run(ctx, args); err != nil {
				return &EncodingError{SegmentIndex: item.Segment.Index, Stage: "spacer", Log: log, Err: err}
			}
			clips = append(clips, spacer)
			durations = append(durations, item.Segment.PauseBefore)
			transitions = append(transitions, compose.Transition{Kind: compose.TransitionCut})
		}

		clip := asset.SegmentClip(tmpDir, item.Segment.Index)
		args := SegmentArgs(item, plan.Output, clip)
		if log, err := e.run(ctx, args); err != nil {
			return &EncodingError{SegmentIndex: item.Segment.Index, Stage: "segment", Log: log, Err: err}
		}
		clips = append(clips, clip)
		durations = append(durations, item.Segment.Duration)
		transitions = append(transitions, item.Incoming)
	}

	joined := plan.Output.Path
	needsAudioPass := plan.Output.BackgroundAudio != ""
	if needsAudioPass {
		joined = filepath.Join(tmpDir, "joined.mp4")
	}

	if err := e.mux(ctx, plan, clips, durations, transitions, tmpDir, joined); err != nil {
		return err
	}

	if needsAudioPass {
		args := BackgroundAudioArgs(joined, plan.Output)
		if log, err := e.run(ctx, args); err != nil {
			return &EncodingError{SegmentIndex: -1, Stage: "background audio", Log: log, Err: err}
		}
	}
	return nil
}

func (e *FFmpegEncoder) mux(ctx context.Context, plan *compose.Plan, clips []string,
	durations []float64, transitions []compose.Transition, tmpDir, outPath string) error {

	if len(clips) == 1 {
		if log, err := e.run(ctx, []string{"-y", "-i", clips[0], "-c", "copy", outPath}); err != nil {
			return &EncodingError{SegmentIndex: -1, Stage: "mux", Log: log, Err: err}
		}
		return nil
	}

	if !HasTimedTransition(plan.Items) {
		listPath := filepath.Join(tmpDir, "inputs.txt")
		if err := writeConcatFile(listPath, clips); err != nil {
			return &EncodingError{SegmentIndex: -1, Stage: "concat list", Err: err}
		}
		args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", outPath}
		if log, err := e.run(ctx, args); err != nil {
			return &EncodingError{SegmentIndex: -1, Stage: "concat", Log: log, Err: err}
		}
		return nil
	}

	args := XfadeMuxArgs(clips, durations, transitions, plan.Output, outPath)
	if log, err := e.run(ctx, args); err != nil {
		return &EncodingError{SegmentIndex: -1, Stage: "xfade mux", Log: log, Err: err}
	}
	return nil
}

// XfadeMuxArgs joins the clips through paired video and audio crossfade
// chains, mapping both final labels into the output.
func XfadeMuxArgs(clips []string, durations []float64, transitions []compose.Transition,
	out compose.Output, outPath string) []string {

	args := []string{"-y"}
	for _, clip := range clips {
		args = append(args, "-i", clip)
	}
	graph := ConcatGraph(durations, transitions) + ";" + AudioJoinGraph(durations, transitions)
	args = append(args, "-filter_complex", graph)
	args = append(args, "-map", fmt.Sprintf("[v%d]", len(clips)-1))
	args = append(args, "-map", fmt.Sprintf("[a%d]", len(clips)-1))
	args = append(args, "-c:a", "aac")
	args = append(args, "-pix_fmt", "yuv420p", "-c:v", out.Codec)
	args = append(args, qualityArgs(out)...)
	return append(args, outPath)
}

// silentSource generates the silence track muxed into clips that have no
// narration, keeping the stream layout identical across all clips.
const silentSource = "anullsrc=channel_layout=stereo:sample_rate=44100"

// SegmentArgs builds the full ffmpeg invocation for one plan item.
// Every clip leaves here with one video and one aac audio stream.
func SegmentArgs(item compose.Item, out compose.Output, clipPath string) []string {
	args := []string{"-y"}
	audioMap := ""
	inputs := 0

	switch {
	case item.Avatar != nil && item.Chart != nil:
		args = append(args, "-loop", "1", "-i", item.Chart.Path, "-i", item.Avatar.Path)
		audioMap = "1:a"
		inputs = 2
	case item.Avatar != nil:
		args = append(args, "-i", item.Avatar.Path)
		audioMap = "0:a"
		inputs = 1
	default:
		args = append(args, "-loop", "1", "-i", item.Chart.Path)
		inputs = 1
	}
	if item.Badge != nil {
		args = append(args, "-loop", "1", "-i", item.Badge.Path)
		inputs++
	}
	if audioMap == "" {
		args = append(args, "-f", "lavfi", "-i", silentSource)
		audioMap = fmt.Sprintf("%d:a", inputs)
	}

	args = append(args, "-filter_complex", SegmentGraph(item, out.Width, out.Height, out.FPS))
	args = append(args, "-map", "[vout]", "-map", audioMap, "-c:a", "aac", "-ar", "44100")
	args = append(args,
		"-t", fmt.Sprintf("%f", item.Segment.Duration),
		"-r", fmt.Sprintf("%d", out.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", out.Codec,
	)
	args = append(args, qualityArgs(out)...)
	return append(args, clipPath)
}

// SpacerArgs builds a black gap clip for an explicit pause. The gap carries
// a silence track with the same layout as the segment clips.
func SpacerArgs(duration float64, out compose.Output, clipPath string) []string {
	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d:r=%d", out.Width, out.Height, out.FPS),
		"-f", "lavfi",
		"-i", silentSource,
		"-t", fmt.Sprintf("%f", duration),
		"-map", "0:v",
		"-map", "1:a",
		"-c:a", "aac", "-ar", "44100",
		"-pix_fmt", "yuv420p",
		"-c:v", out.Codec,
	}
	args = append(args, qualityArgs(out)...)
	return append(args, clipPath)
}

// BackgroundAudioArgs mixes the configured background track under the
// joined video in a second pass.
func BackgroundAudioArgs(joinedPath string, out compose.Output) []string {
	return []string{
		"-y",
		"-i", joinedPath,
		"-stream_loop", "-1", "-i", out.BackgroundAudio,
		"-filter_complex", BackgroundMixFilter(0, 1, out.BackgroundVolume),
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		out.Path,
	}
}

// qualityArgs adapts the quality knob to the selected encoder, same rule
// set as the chart clips: VideoToolbox wants a bitrate, NVENC a cq value,
// x264 a crf.
func qualityArgs(out compose.Output) []string {
	switch out.Codec {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", out.Quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", out.Quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", out.Quality), "-preset", "medium"}
	}
}

func (e *FFmpegEncoder) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, e.binary(), args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func writeConcatFile(path string, clips []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			abs = clip
		}
		fmt.Fprintf(f, "file '%s'\n", abs)
	}
	return nil
}
