package avatar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/script"
)

// MockProvider materializes deterministic placeholder clips so the whole
// timeline and composition path runs without any network dependency.
// Durations come from the word-count heuristic, which keeps mock timelines
// identical run to run.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Synthesize(_ context.Context, text string, outPath string) (asset.Rendered, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return asset.Rendered{}, err
	}
	content := fmt.Sprintf("mock avatar clip\n%s\n", text)
	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return asset.Rendered{}, err
	}
	return asset.Rendered{
		Path:     outPath,
		Kind:     asset.KindAvatar,
		Duration: script.EstimateDuration(text),
		Width:    1280,
		Height:   720,
	}, nil
}
