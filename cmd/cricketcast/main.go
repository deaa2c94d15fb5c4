package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cricketcast/cricketcast/internal/avatar"
	"github.com/cricketcast/cricketcast/internal/compose"
	"github.com/cricketcast/cricketcast/internal/config"
	"github.com/cricketcast/cricketcast/internal/encode"
	"github.com/cricketcast/cricketcast/internal/match"
	"github.com/cricketcast/cricketcast/internal/pipeline"
	"github.com/cricketcast/cricketcast/internal/script"
	"github.com/cricketcast/cricketcast/internal/system"
)

// presets maps common social formats to frame sizes.
var presets = map[string][2]int{
	"16:9": {1920, 1080},
	"9:16": {1080, 1920},
	"4:5":  {1080, 1350},
}

func main() {
	log.SetFlags(0)

	cfg := config.Default()

	matchPtr := flag.String("match", "", "Path to the match snapshot JSON (empty in mock mode uses built-in demo data)")
	configPtr := flag.String("config", "", "Optional YAML config file merged over defaults")
	outputPtr := flag.String("output", "", "Final video path (default: <output-dir>/<match_id>_commentary.mp4)")
	outputDirPtr := flag.String("output-dir", cfg.OutputDir, "Directory for rendered charts, timeline and video")
	presetPtr := flag.String("preset", "", "Frame preset: 16:9, 9:16, 4:5 (overrides -width/-height)")
	widthPtr := flag.Int("width", cfg.Width, "Frame width")
	heightPtr := flag.Int("height", cfg.Height, "Frame height")
	fpsPtr := flag.Int("fps", cfg.FPS, "Frames per second")
	workersPtr := flag.Int("workers", 0, "Parallel asset workers (0 = auto from CPU and free memory)")
	fadePtr := flag.Float64("fade", cfg.FadeDuration, "Transition duration in seconds")
	transitionPtr := flag.String("transition", cfg.TransitionType, "Segment transition: fade, wipe, cut")
	chartDurPtr := flag.Float64("chart-duration", cfg.ChartDuration, "Hold time for chart-only segments, seconds")
	qualityPtr := flag.Int("quality", 0, "Encoder quality (0 = auto per codec)")
	encoderPtr := flag.String("encoder", "", "H.264 encoder (empty = autodetect)")
	mockPtr := flag.Bool("mock", false, "Run without external APIs: demo snapshot, canned script, stub avatar")
	planOnlyPtr := flag.Bool("plan-only", false, "Stop after writing the composition plan, skip ffmpeg")
	providerPtr := flag.String("provider", cfg.AvatarProvider, "Avatar provider: mock, heygen, d-id")
	scorecardPtr := flag.String("scorecard-url", "", "URL encoded into the closing QR badge")
	bgAudioPtr := flag.String("bg-audio", "", "Background music file mixed under the final video")
	flag.Parse()

	if *configPtr != "" {
		if err := config.LoadFile(*configPtr, &cfg); err != nil {
			log.Fatalf("[!] %v", err)
		}
	}

	// Flags the user actually passed win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "match":
			cfg.MatchPath = *matchPtr
		case "output":
			cfg.OutputVideo = *outputPtr
		case "output-dir":
			cfg.OutputDir = *outputDirPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "fps":
			cfg.FPS = *fpsPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "fade":
			cfg.FadeDuration = *fadePtr
		case "transition":
			cfg.TransitionType = *transitionPtr
		case "chart-duration":
			cfg.ChartDuration = *chartDurPtr
		case "provider":
			cfg.AvatarProvider = *providerPtr
		case "scorecard-url":
			cfg.ScorecardURL = *scorecardPtr
		case "bg-audio":
			cfg.BackgroundAudio = *bgAudioPtr
		}
	})
	cfg.MockMode = cfg.MockMode || *mockPtr
	cfg.PlanOnly = cfg.PlanOnly || *planOnlyPtr
	if dims, ok := presets[*presetPtr]; ok {
		cfg.Width, cfg.Height = dims[0], dims[1]
	} else if *presetPtr != "" {
		log.Fatalf("[!] unknown preset %q", *presetPtr)
	}
	// Autodetect fills the encoder and quality only when neither a flag
	// nor the config file picked them.
	defaults := config.Default()
	switch {
	case *encoderPtr != "":
		cfg.VideoEncoder = *encoderPtr
	case cfg.VideoEncoder == defaults.VideoEncoder:
		cfg.VideoEncoder = system.BestH264Encoder()
	}
	switch {
	case *qualityPtr > 0:
		cfg.Quality = *qualityPtr
	case cfg.Quality == defaults.Quality:
		cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
	}
	if cfg.ScriptAPIKey == "" {
		cfg.ScriptAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.AvatarAPIKey == "" {
		cfg.AvatarAPIKey = os.Getenv("AVATAR_API_KEY")
	}
	if cfg.MockMode {
		cfg.AvatarProvider = "mock"
	}

	system.InitResourceLimits()
	if !cfg.PlanOnly && !system.CheckFFmpeg() {
		log.Fatal("[!] ffmpeg not found in PATH")
	}

	snap, err := loadSnapshot(cfg)
	if err != nil {
		log.Fatalf("[!] %v", err)
	}
	fmt.Printf("[*] Match: %s, %s %d/%d (%.1f ov)\n",
		snap.MatchID, snap.Teams.Batting, snap.Score.Runs, snap.Score.Wickets, snap.Score.Overs)
	fmt.Printf("[*] Output: %dx%d@%d, encoder %s q%d\n",
		cfg.Width, cfg.Height, cfg.FPS, cfg.VideoEncoder, cfg.Quality)

	gen := buildGenerator(cfg)
	prov, err := avatar.NewProvider(cfg.AvatarProvider, cfg.AvatarAPIKey)
	if err != nil {
		log.Fatalf("[!] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, gen, prov, encode.NewFFmpegEncoder())
	if _, err := p.Run(ctx, snap); err != nil {
		var resErr *compose.AssetResolutionError
		var encErr *encode.EncodingError
		switch {
		case errors.As(err, &resErr):
			log.Fatalf("[!] composition aborted: %v", resErr)
		case errors.As(err, &encErr):
			log.Fatalf("[!] encoding failed at stage %s: %v", encErr.Stage, encErr)
		default:
			log.Fatalf("[!] %v", err)
		}
	}
}

func loadSnapshot(cfg config.Config) (*match.Snapshot, error) {
	if cfg.MatchPath == "" {
		if !cfg.MockMode {
			return nil, fmt.Errorf("no -match file given (use -mock for demo data)")
		}
		return match.Demo(), nil
	}
	snap, err := match.Load(cfg.MatchPath)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

func buildGenerator(cfg config.Config) script.Generator {
	if cfg.MockMode || cfg.ScriptAPIKey == "" {
		if !cfg.MockMode {
			fmt.Println("[*] No Gemini key, using canned commentary")
		}
		return script.NewMockGenerator()
	}
	return script.NewGeminiGenerator(cfg.ScriptAPIKey)
}
