// Package encode is the muxer boundary: it executes a CompositionPlan
// against an ffmpeg backend to produce one continuous output file. The
// plan is complete and order-correct; this package only translates it.
package encode

import (
	"context"
	"fmt"

	"github.com/cricketcast/cricketcast/internal/compose"
)

// Encoder executes a composition plan into the plan's output path.
type Encoder interface {
	Execute(ctx context.Context, plan *compose.Plan, tmpDir string) error
}

// EncodingError is a fatal encoder failure. It names the segment that
// broke (or -1 for the final mux) and keeps the diagnostic log so the
// caller can surface it alongside the partial plan.
type EncodingError struct {
	SegmentIndex int
	Stage        string
	Log          string
	Err          error
}

func (e *EncodingError) Error() string {
	if e.SegmentIndex >= 0 {
		return fmt.Sprintf("encoding failed at segment %d (%s): %v", e.SegmentIndex, e.Stage, e.Err)
	}
	return fmt.Sprintf("encoding failed (%s): %v", e.Stage, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
