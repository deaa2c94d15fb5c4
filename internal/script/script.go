// Package script produces the ordered commentary blocks a video is built
// from. The core treats blocks as text plus hints regardless of whether a
// language model or the deterministic mock wrote them.
package script

import (
	"context"
	"strings"

	"github.com/cricketcast/cricketcast/internal/chart"
	"github.com/cricketcast/cricketcast/internal/match"
)

// Block is one commentary unit: the text to be spoken plus per-block hints
// for the planner.
type Block struct {
	ID    int
	Type  string // "summary", "key_moment", "statistics"
	Text  string
	Chart chart.Kind // requested visualization; KindNone for avatar-only

	// Planner hints. Layout and Corner are optional overrides of the
	// default precedence; Fade opts the block into fade transitions.
	Layout      string
	Corner      string
	Fade        bool
	PauseBefore float64
}

// Generator is the script collaborator boundary.
type Generator interface {
	Generate(ctx context.Context, snap *match.Snapshot) ([]Block, error)
}

// secondsPerWord is the speech-pace estimate used before the avatar clip
// exists.
const secondsPerWord = 0.4

// EstimateDuration returns the expected speech duration of a block's text.
func EstimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	d := float64(words) * secondsPerWord
	if d < 2.0 {
		d = 2.0
	}
	return d
}
