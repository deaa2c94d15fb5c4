// Package chart turns a match snapshot into broadcast-style visualizations:
// run-rate curve, Manhattan, wagon wheel and partnership progression.
// Rendering is deterministic; identical input always produces identical
// pixels.
package chart

import (
	"fmt"

	"github.com/cricketcast/cricketcast/internal/match"
)

// Kind selects which visualization to render.
type Kind string

const (
	KindNone        Kind = ""
	KindRunRate     Kind = "run_rate"
	KindManhattan   Kind = "manhattan"
	KindWagonWheel  Kind = "wagon_wheel"
	KindPartnership Kind = "partnership"
)

// ParseKind maps a chart-kind hint to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindNone, KindRunRate, KindManhattan, KindWagonWheel, KindPartnership:
		return Kind(s), nil
	}
	return KindNone, fmt.Errorf("unknown chart kind: %q", s)
}

// Spec describes one chart render: the kind, the snapshot slice it reads,
// and the output raster size.
type Spec struct {
	Kind     Kind
	Snapshot *match.Snapshot
	Width    int
	Height   int
	Duration float64 // seconds the still is held on screen
}

// DataError reports a snapshot slice that is empty or malformed for the
// requested chart. The run continues with a placeholder for that segment.
type DataError struct {
	Kind   Kind
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("chart data error (%s): %s", e.Kind, e.Reason)
}

// RenderError reports a chart that failed on valid-looking input, e.g.
// degenerate geometry. Like DataError it is non-fatal for the run.
type RenderError struct {
	Kind   Kind
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("chart render error (%s): %s", e.Kind, e.Reason)
}
