// Package avatar synthesizes the talking-presenter clips for commentary
// segments. Vendors sit behind the Provider interface so the pipeline never
// branches on a provider name.
package avatar

import (
	"context"
	"fmt"

	"github.com/cricketcast/cricketcast/internal/asset"
)

// Provider turns a commentary text into a rendered avatar clip at outPath.
// Implementations may take tens of seconds; they must honor ctx.
type Provider interface {
	Synthesize(ctx context.Context, text string, outPath string) (asset.Rendered, error)
}

// NewProvider creates a provider by variant name.
func NewProvider(variant, apiKey string) (Provider, error) {
	switch variant {
	case "mock", "":
		return NewMockProvider(), nil
	case "heygen":
		if apiKey == "" {
			return nil, fmt.Errorf("heygen provider requires an API key")
		}
		return NewHeyGenProvider(apiKey), nil
	case "d-id":
		if apiKey == "" {
			return nil, fmt.Errorf("d-id provider requires an API key")
		}
		return NewDIDProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown avatar provider: %s", variant)
	}
}
