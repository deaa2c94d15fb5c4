// Package asset tracks the rendered artifacts a run produces and the
// deterministic paths they live at, so re-runs overwrite instead of collide.
package asset

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Kind distinguishes the two asset families the compositor works with.
type Kind string

const (
	KindChart  Kind = "chart"
	KindAvatar Kind = "avatar"
)

// Rendered is one finished artifact: a chart image or an avatar clip.
type Rendered struct {
	Path     string
	Kind     Kind
	Duration float64 // seconds; 0 for still images
	Width    int
	Height   int
}

// Store holds the resolved assets for one run, keyed by segment index.
// Producers write from worker goroutines; the planner and compositor read
// only after production finishes.
type Store struct {
	mu      sync.Mutex
	charts  map[int]Rendered
	avatars map[int]Rendered
}

func NewStore() *Store {
	return &Store{
		charts:  make(map[int]Rendered),
		avatars: make(map[int]Rendered),
	}
}

// PutChart records the chart asset for a segment.
func (s *Store) PutChart(segment int, r Rendered) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charts[segment] = r
}

// PutAvatar records the avatar asset for a segment.
func (s *Store) PutAvatar(segment int, r Rendered) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatars[segment] = r
}

// Chart returns the chart asset for a segment, if produced.
func (s *Store) Chart(segment int) (Rendered, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.charts[segment]
	return r, ok
}

// Avatar returns the avatar asset for a segment, if produced.
func (s *Store) Avatar(segment int) (Rendered, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.avatars[segment]
	return r, ok
}

// Paths derives every artifact location from the output dir and match ID.
type Paths struct {
	OutputDir string
	MatchID   string
}

// Chart returns the path for a segment's chart image of the given kind
// name. The segment index keeps the path unique when two segments request
// the same chart kind.
func (p Paths) Chart(segment int, kind string) string {
	return filepath.Join(p.OutputDir, "charts", fmt.Sprintf("%s_seg%d_%s.png", p.MatchID, segment, kind))
}

// Placeholder returns the path for a segment's text-card fallback image.
func (p Paths) Placeholder(segment int) string {
	return filepath.Join(p.OutputDir, "charts", fmt.Sprintf("%s_card%d.png", p.MatchID, segment))
}

// Avatar returns the path for a segment's avatar clip.
func (p Paths) Avatar(segment int) string {
	return filepath.Join(p.OutputDir, "avatars", fmt.Sprintf("%s_seg%d.mp4", p.MatchID, segment))
}

// Badge returns the path for the scorecard QR badge image.
func (p Paths) Badge() string {
	return filepath.Join(p.OutputDir, "charts", fmt.Sprintf("%s_badge.png", p.MatchID))
}

// Timeline returns the path the planned timeline is persisted at.
func (p Paths) Timeline() string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s_timeline.yaml", p.MatchID))
}

// FinalVideo returns the final artifact path.
func (p Paths) FinalVideo() string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s_commentary.mp4", p.MatchID))
}

// SegmentClip returns the composed per-segment clip path inside tmpDir.
func SegmentClip(tmpDir string, segment int) string {
	return filepath.Join(tmpDir, fmt.Sprintf("s%d.mp4", segment))
}
