package chart

import (
	"strings"

	"github.com/cricketcast/cricketcast/internal/asset"
)

// RenderTextCard rasterizes the text-only fallback card used when a
// segment's chart cannot be produced. It depends only on the commentary
// text, so it always succeeds where a data-driven chart cannot.
func (r *Renderer) RenderTextCard(text string, width, height int, duration float64, outPath string) (asset.Rendered, error) {
	if width <= 0 || height <= 0 {
		return asset.Rendered{}, &RenderError{Kind: KindNone, Reason: "degenerate card dimensions"}
	}

	c := newCanvas(width, height, parseHex(r.style.Background))

	lines := wrapText(text, width/8)
	const lineHeight = 22
	y := height/2 - (len(lines)-1)*lineHeight/2
	for _, line := range lines {
		c.textCentered(width/2, y, line, parseHex(r.style.Text))
		y += lineHeight
	}

	if err := writePNG(outPath, c.img); err != nil {
		return asset.Rendered{}, &RenderError{Kind: KindNone, Reason: err.Error()}
	}
	return asset.Rendered{
		Path:     outPath,
		Kind:     asset.KindChart,
		Duration: duration,
		Width:    width,
		Height:   height,
	}, nil
}

// wrapText greedily wraps words to at most maxChars per line.
func wrapText(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if maxChars < 8 {
		maxChars = 8
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > maxChars {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}
