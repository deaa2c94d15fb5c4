// Package pipeline wires the four stages together: commentary script ->
// rendered assets -> timeline -> composition plan -> encoded video. Each
// stage exchanges typed data and is testable on its own; this package only
// sequences them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/avatar"
	"github.com/cricketcast/cricketcast/internal/chart"
	"github.com/cricketcast/cricketcast/internal/compose"
	"github.com/cricketcast/cricketcast/internal/config"
	"github.com/cricketcast/cricketcast/internal/encode"
	"github.com/cricketcast/cricketcast/internal/match"
	"github.com/cricketcast/cricketcast/internal/script"
	"github.com/cricketcast/cricketcast/internal/system"
	"github.com/cricketcast/cricketcast/internal/timeline"
)

// Pipeline runs one match snapshot end to end.
type Pipeline struct {
	cfg      config.Config
	scripts  script.Generator
	avatars  avatar.Provider
	renderer *chart.Renderer
	encoder  encode.Encoder
	workers  int
}

func New(cfg config.Config, scripts script.Generator, avatars avatar.Provider, encoder encode.Encoder) *Pipeline {
	workers := cfg.Workers
	if workers < 1 {
		workers = system.RenderWorkers()
	}
	return &Pipeline{
		cfg:      cfg,
		scripts:  scripts,
		avatars:  avatars,
		renderer: chart.NewRenderer(cfg.Style),
		encoder:  encoder,
		workers:  workers,
	}
}

// Run produces the composition plan and, unless the run is plan-only,
// executes it. The plan is returned even when encoding fails so callers
// can inspect what was about to be rendered.
func (p *Pipeline) Run(ctx context.Context, snap *match.Snapshot) (*compose.Plan, error) {
	blocks, err := p.scripts.Generate(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("script generation: %w", err)
	}
	fmt.Printf("[*] Script: %d commentary blocks\n", len(blocks))

	store := asset.NewStore()
	paths := asset.Paths{OutputDir: p.cfg.OutputDir, MatchID: snap.MatchID}
	if err := p.produceAssets(ctx, snap, blocks, store, paths); err != nil {
		return nil, err
	}

	tl, err := timeline.NewPlanner().Plan(snap.MatchID, blocks, store)
	if err != nil {
		return nil, err
	}
	if err := timeline.WriteFile(tl, paths.Timeline()); err != nil {
		log.Printf("[!] could not persist timeline: %v", err)
	}
	fmt.Printf("[*] Timeline: %d segments, %.1fs total\n", len(tl.Segments), tl.TotalDuration())

	plan, err := p.composePlan(snap, tl, store, paths)
	if err != nil {
		return nil, err
	}

	if p.cfg.PlanOnly {
		summaryPath := filepath.Join(p.cfg.OutputDir, snap.MatchID+"_plan.txt")
		if err := writePlanSummary(plan, summaryPath); err != nil {
			return plan, err
		}
		fmt.Printf("[+++] Plan written: %s\n", summaryPath)
		return plan, nil
	}

	tmpDir, err := os.MkdirTemp("", "cricketcast_")
	if err != nil {
		return plan, err
	}
	defer os.RemoveAll(tmpDir)

	fmt.Println("[*] Encoding final video...")
	if err := p.encoder.Execute(ctx, plan, tmpDir); err != nil {
		// Surface the partial plan with the failure for diagnostics.
		return plan, err
	}
	fmt.Printf("[+++] Done: %s\n", plan.Output.Path)
	return plan, nil
}

// produceAssets renders charts and synthesizes avatar clips in parallel.
// Chart data/render errors demote the segment to a text card; avatar
// failures demote the layout. Only placeholder failures abort the run,
// cancelling in-flight work through the group context.
func (p *Pipeline) produceAssets(ctx context.Context, snap *match.Snapshot,
	blocks []script.Block, store *asset.Store, paths asset.Paths) error {

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			if block.Chart != chart.KindNone {
				if err := p.produceChart(snap, block, i, store, paths); err != nil {
					return err
				}
			}
			return nil
		})
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rendered, err := p.avatars.Synthesize(ctx, block.Text, paths.Avatar(i))
			if err != nil {
				log.Printf("[!] avatar for segment %d failed, falling back to chart-only: %v", i, err)
				return nil
			}
			if dur, err := system.MediaDuration(rendered.Path); err == nil && dur > 0 {
				rendered.Duration = dur
			}
			store.PutAvatar(i, rendered)
			fmt.Printf("[>] avatar ready: segment %d\n", i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// A segment that ended up with neither asset still has to show
	// something; back it with a text card so compose can resolve it.
	for i, block := range blocks {
		if _, ok := store.Chart(i); ok {
			continue
		}
		if _, ok := store.Avatar(i); ok {
			continue
		}
		card, err := p.renderer.RenderTextCard(block.Text, p.cfg.Width, p.cfg.Height,
			p.cfg.ChartDuration, paths.Placeholder(i))
		if err != nil {
			return fmt.Errorf("segment %d placeholder: %w", i, err)
		}
		store.PutChart(i, card)
	}
	return nil
}

func (p *Pipeline) produceChart(snap *match.Snapshot, block script.Block, i int,
	store *asset.Store, paths asset.Paths) error {

	spec := chart.Spec{
		Kind:     block.Chart,
		Snapshot: snap,
		Width:    p.cfg.Width,
		Height:   p.cfg.Height,
		Duration: p.cfg.ChartDuration,
	}
	rendered, err := p.renderer.Render(spec, paths.Chart(i, string(block.Chart)))
	if err == nil {
		store.PutChart(i, rendered)
		fmt.Printf("[>] chart ready: segment %d (%s)\n", i, block.Chart)
		return nil
	}

	var dataErr *chart.DataError
	var renderErr *chart.RenderError
	if !errors.As(err, &dataErr) && !errors.As(err, &renderErr) {
		return fmt.Errorf("segment %d chart %s: %w", i, block.Chart, err)
	}

	log.Printf("[!] chart for segment %d demoted to text card: %v", i, err)
	card, cardErr := p.renderer.RenderTextCard(block.Text, p.cfg.Width, p.cfg.Height,
		p.cfg.ChartDuration, paths.Placeholder(i))
	if cardErr != nil {
		return fmt.Errorf("segment %d placeholder: %w", i, cardErr)
	}
	store.PutChart(i, card)
	return nil
}

func (p *Pipeline) composePlan(snap *match.Snapshot, tl *timeline.Timeline,
	store *asset.Store, paths asset.Paths) (*compose.Plan, error) {

	params := compose.Params{
		Width:          p.cfg.Width,
		Height:         p.cfg.Height,
		TransitionType: p.cfg.TransitionType,
		FadeDuration:   p.cfg.FadeDuration,
		LowerThird: fmt.Sprintf("%s %d/%d (%.1f ov)",
			snap.Teams.Batting, snap.Score.Runs, snap.Score.Wickets, snap.Score.Overs),
		Output: compose.Output{
			Path:             p.outputPath(paths),
			Codec:            p.cfg.VideoEncoder,
			Width:            p.cfg.Width,
			Height:           p.cfg.Height,
			FPS:              p.cfg.FPS,
			Quality:          p.cfg.Quality,
			BackgroundAudio:  p.cfg.BackgroundAudio,
			BackgroundVolume: p.cfg.BackgroundVolume,
		},
	}

	if p.cfg.ScorecardURL != "" {
		badge, err := p.renderer.RenderQRBadge(p.cfg.ScorecardURL, paths.Badge())
		if err != nil {
			log.Printf("[!] scorecard badge skipped: %v", err)
		} else {
			params.Badge = &badge
		}
	}

	return compose.NewCompositor(params).Compose(tl, store)
}

func (p *Pipeline) outputPath(paths asset.Paths) string {
	if p.cfg.OutputVideo != "" {
		return p.cfg.OutputVideo
	}
	return paths.FinalVideo()
}

func writePlanSummary(plan *compose.Plan, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "composition plan for %s (%.1fs, %d segments)\n",
		plan.MatchID, plan.TotalDuration, len(plan.Items))
	for _, item := range plan.Items {
		seg := item.Segment
		fmt.Fprintf(f, "segment %d: %.1fs-%.1fs layout=%s", seg.Index, seg.Start, seg.End(), seg.Layout)
		if item.Chart != nil {
			fmt.Fprintf(f, " chart=%s", item.Chart.Path)
		}
		if item.Avatar != nil {
			fmt.Fprintf(f, " avatar=%s", item.Avatar.Path)
		}
		if item.Incoming.Kind != "" && item.Incoming.Kind != compose.TransitionCut {
			fmt.Fprintf(f, " in=%s/%.2fs", item.Incoming.Kind, item.Incoming.Duration)
		}
		fmt.Fprintln(f)
	}
	fmt.Fprintf(f, "output: %s (%s %dx%d@%d)\n",
		plan.Output.Path, plan.Output.Codec, plan.Output.Width, plan.Output.Height, plan.Output.FPS)
	return nil
}
