package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cricketcast/cricketcast/internal/config"
	"github.com/cricketcast/cricketcast/internal/match"
)

func testSpec(kind Kind) Spec {
	return Spec{
		Kind:     kind,
		Snapshot: match.Demo(),
		Width:    640,
		Height:   360,
		Duration: 8.0,
	}
}

func TestRenderAllKinds(t *testing.T) {
	r := NewRenderer(config.DefaultStyle())
	dir := t.TempDir()

	for _, kind := range []Kind{KindRunRate, KindManhattan, KindWagonWheel, KindPartnership} {
		out := filepath.Join(dir, string(kind)+".png")
		rendered, err := r.Render(testSpec(kind), out)
		if err != nil {
			t.Fatalf("Render(%s) failed: %v", kind, err)
		}
		if rendered.Width != 640 || rendered.Height != 360 {
			t.Errorf("Render(%s): expected 640x360, got %dx%d", kind, rendered.Width, rendered.Height)
		}
		if rendered.Duration != 8.0 {
			t.Errorf("Render(%s): expected duration 8.0, got %f", kind, rendered.Duration)
		}
		info, err := os.Stat(out)
		if err != nil {
			t.Fatalf("Render(%s) wrote no file: %v", kind, err)
		}
		if info.Size() == 0 {
			t.Errorf("Render(%s) wrote an empty file", kind)
		}
	}
}

// Rendering the same spec twice must produce byte-identical files.
func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer(config.DefaultStyle())
	dir := t.TempDir()

	for _, kind := range []Kind{KindRunRate, KindManhattan, KindWagonWheel, KindPartnership} {
		a := filepath.Join(dir, string(kind)+"_a.png")
		b := filepath.Join(dir, string(kind)+"_b.png")
		if _, err := r.Render(testSpec(kind), a); err != nil {
			t.Fatalf("first render of %s failed: %v", kind, err)
		}
		if _, err := r.Render(testSpec(kind), b); err != nil {
			t.Fatalf("second render of %s failed: %v", kind, err)
		}
		da, _ := os.ReadFile(a)
		db, _ := os.ReadFile(b)
		if !bytes.Equal(da, db) {
			t.Errorf("Render(%s) is not deterministic: outputs differ", kind)
		}
	}
}

func TestRenderEmptyData(t *testing.T) {
	r := NewRenderer(config.DefaultStyle())
	dir := t.TempDir()

	empty := &match.Snapshot{MatchID: "empty", Teams: match.Teams{Batting: "A", Bowling: "B"}}
	for _, kind := range []Kind{KindRunRate, KindManhattan, KindWagonWheel, KindPartnership} {
		spec := testSpec(kind)
		spec.Snapshot = empty
		_, err := r.Render(spec, filepath.Join(dir, string(kind)+".png"))
		var dataErr *DataError
		if !errors.As(err, &dataErr) {
			t.Errorf("Render(%s) on empty data: expected DataError, got %v", kind, err)
		}
	}
}

func TestRenderBadSpec(t *testing.T) {
	r := NewRenderer(config.DefaultStyle())
	dir := t.TempDir()

	spec := testSpec(KindRunRate)
	spec.Snapshot = nil
	_, err := r.Render(spec, filepath.Join(dir, "nil.png"))
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Errorf("Expected DataError for nil snapshot, got %v", err)
	}

	spec = testSpec(KindRunRate)
	spec.Width = 0
	_, err = r.Render(spec, filepath.Join(dir, "zero.png"))
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Errorf("Expected RenderError for zero width, got %v", err)
	}
}

func TestRenderTextCard(t *testing.T) {
	r := NewRenderer(config.DefaultStyle())
	out := filepath.Join(t.TempDir(), "card.png")

	rendered, err := r.RenderTextCard(
		"Kohli and Maxwell have added 72 from 46 balls to keep the chase alive",
		640, 360, 5.0, out)
	if err != nil {
		t.Fatalf("RenderTextCard failed: %v", err)
	}
	if rendered.Duration != 5.0 {
		t.Errorf("Expected duration 5.0, got %f", rendered.Duration)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("RenderTextCard wrote no file: %v", err)
	}
}

func TestRenderQRBadge(t *testing.T) {
	r := NewRenderer(config.DefaultStyle())
	out := filepath.Join(t.TempDir(), "badge.png")

	rendered, err := r.RenderQRBadge("https://example.com/scorecard/RCB_vs_KKR", out)
	if err != nil {
		t.Fatalf("RenderQRBadge failed: %v", err)
	}
	if rendered.Width == 0 || rendered.Height == 0 {
		t.Error("Expected badge dimensions to be set")
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("RenderQRBadge wrote no file: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"run_rate", KindRunRate, false},
		{"manhattan", KindManhattan, false},
		{"wagon_wheel", KindWagonWheel, false},
		{"partnership", KindPartnership, false},
		{"", KindNone, false},
		{"pie", KindNone, true},
	}
	for _, c := range cases {
		got, err := ParseKind(c.in)
		if got != c.want || (err != nil) != c.wantErr {
			t.Errorf("ParseKind(%q): expected (%v, err=%v), got (%v, %v)", c.in, c.want, c.wantErr, got, err)
		}
	}
}
