package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/config"
)

// Renderer rasterizes chart specs with a fixed style. It is safe for
// concurrent use; all state is read-only after construction.
type Renderer struct {
	style config.Style
}

func NewRenderer(style config.Style) *Renderer {
	return &Renderer{style: style}
}

// Render rasterizes the spec to a PNG at outPath and returns the asset
// record. Empty or malformed data slices yield a DataError; geometry that
// cannot be drawn yields a RenderError.
func (r *Renderer) Render(spec Spec, outPath string) (asset.Rendered, error) {
	if spec.Snapshot == nil {
		return asset.Rendered{}, &DataError{Kind: spec.Kind, Reason: "nil snapshot"}
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return asset.Rendered{}, &RenderError{Kind: spec.Kind,
			Reason: fmt.Sprintf("degenerate dimensions %dx%d", spec.Width, spec.Height)}
	}

	c := newCanvas(spec.Width, spec.Height, parseHex(r.style.Background))

	var err error
	switch spec.Kind {
	case KindRunRate:
		err = r.drawRunRate(c, spec)
	case KindManhattan:
		err = r.drawManhattan(c, spec)
	case KindWagonWheel:
		err = r.drawWagonWheel(c, spec)
	case KindPartnership:
		err = r.drawPartnership(c, spec)
	default:
		err = &RenderError{Kind: spec.Kind, Reason: "unknown chart kind"}
	}
	if err != nil {
		return asset.Rendered{}, err
	}

	if err := writePNG(outPath, c.img); err != nil {
		return asset.Rendered{}, &RenderError{Kind: spec.Kind, Reason: err.Error()}
	}

	return asset.Rendered{
		Path:     outPath,
		Kind:     asset.KindChart,
		Duration: spec.Duration,
		Width:    spec.Width,
		Height:   spec.Height,
	}, nil
}

// plotArea is the chart region inside the axis margins.
func plotArea(w, h int) image.Rectangle {
	return image.Rect(90, 70, w-40, h-60)
}

func (r *Renderer) color(role ColorRole) color.RGBA {
	switch role {
	case RoleSecondary:
		return parseHex(r.style.Secondary)
	case RoleAccent:
		return parseHex(r.style.Accent)
	case RoleSuccess:
		return parseHex(r.style.Success)
	default:
		return parseHex(r.style.Primary)
	}
}

func (r *Renderer) drawRunRate(c *canvas, spec Spec) error {
	series, err := BuildRunRateSeries(spec.Snapshot)
	if err != nil {
		return err
	}

	snap := spec.Snapshot
	area := plotArea(spec.Width, spec.Height)
	textCol := parseHex(r.style.Text)

	c.fillRect(area, parseHex(r.style.Surface))
	title := fmt.Sprintf("Run Rate - %s vs %s", snap.Teams.Batting, snap.Teams.Bowling)
	c.textCentered(spec.Width/2, 40, title, textCol)

	maxRuns := series.Points[len(series.Points)-1].Y
	if series.Required > 0 {
		if target := series.Required * series.TotalOvers; target > maxRuns {
			maxRuns = target
		}
	}
	if maxRuns <= 0 {
		return &RenderError{Kind: KindRunRate, Reason: "flat series with no runs"}
	}

	toPx := func(p Point) (int, int) {
		x := area.Min.X + int(float64(area.Dx())*p.X/series.TotalOvers)
		y := area.Max.Y - int(float64(area.Dy())*p.Y/maxRuns)
		return x, y
	}

	// Required-rate target line, dashed.
	if series.Required > 0 {
		x0, y0 := toPx(Point{X: 0, Y: 0})
		x1, y1 := toPx(Point{X: series.TotalOvers, Y: series.Required * series.TotalOvers})
		c.dashedSegment(x0, y0, x1, y1, r.color(RoleAccent), 2)
		c.text(area.Min.X+10, area.Min.Y+20,
			fmt.Sprintf("required %.1f rpo", series.Required), r.color(RoleAccent))
	}

	// Cumulative runs polyline.
	for i := 1; i < len(series.Points); i++ {
		x0, y0 := toPx(series.Points[i-1])
		x1, y1 := toPx(series.Points[i])
		c.line(x0, y0, x1, y1, r.color(RolePrimary), 3)
	}

	// Axes and over labels.
	axisCol := parseHex(r.style.Text)
	c.line(area.Min.X, area.Max.Y, area.Max.X, area.Max.Y, axisCol, 1)
	c.line(area.Min.X, area.Min.Y, area.Min.X, area.Max.Y, axisCol, 1)
	for i, over := range snap.Overs {
		x, _ := toPx(Point{X: float64(i + 1), Y: 0})
		c.textCentered(x, area.Max.Y+20, fmt.Sprintf("%d", over.Over), textCol)
	}
	c.text(area.Min.X-70, area.Min.Y+8, fmt.Sprintf("%d", int(maxRuns)), textCol)
	c.text(area.Min.X-70, area.Max.Y, "0", textCol)

	// Current score annotation, top right.
	score := fmt.Sprintf("%d/%d (%.1f ov)", snap.Score.Runs, snap.Score.Wickets, snap.Score.Overs)
	box := image.Rect(area.Max.X-textWidth(score)-24, area.Min.Y+8, area.Max.X-8, area.Min.Y+34)
	c.fillRect(box, color.RGBA{A: 255})
	c.text(box.Min.X+8, box.Min.Y+18, score, r.color(RoleSecondary))

	return nil
}

func (r *Renderer) drawManhattan(c *canvas, spec Spec) error {
	bars, avg, err := BuildManhattanBars(spec.Snapshot)
	if err != nil {
		return err
	}

	snap := spec.Snapshot
	area := plotArea(spec.Width, spec.Height)
	textCol := parseHex(r.style.Text)

	c.fillRect(area, parseHex(r.style.Surface))
	title := fmt.Sprintf("Manhattan - %s vs %s", snap.Teams.Batting, snap.Teams.Bowling)
	c.textCentered(spec.Width/2, 40, title, textCol)

	maxRuns := 0
	for _, b := range bars {
		if b.Runs > maxRuns {
			maxRuns = b.Runs
		}
	}
	if maxRuns == 0 {
		maxRuns = 1 // all-maiden innings still renders
	}

	slot := area.Dx() / len(bars)
	barWidth := slot * 3 / 5
	for i, b := range bars {
		x0 := area.Min.X + i*slot + (slot-barWidth)/2
		height := int(float64(area.Dy()-30) * float64(b.Runs) / float64(maxRuns))
		top := area.Max.Y - height
		rect := image.Rect(x0, top, x0+barWidth, area.Max.Y)
		c.fillRect(rect, r.color(b.Color))
		c.strokeRect(rect, textCol)
		c.textCentered(x0+barWidth/2, top-8, fmt.Sprintf("%d", b.Runs), textCol)
		c.textCentered(x0+barWidth/2, area.Max.Y+20, fmt.Sprintf("%d", b.Over), textCol)
	}

	// Average reference line.
	avgY := area.Max.Y - int(float64(area.Dy()-30)*avg/float64(maxRuns))
	c.dashedLine(area.Min.X, area.Max.X, avgY, r.color(RolePrimary), 2)
	c.text(area.Min.X+10, avgY-8, fmt.Sprintf("avg %.1f", avg), r.color(RolePrimary))

	c.line(area.Min.X, area.Max.Y, area.Max.X, area.Max.Y, textCol, 1)
	return nil
}

func (r *Renderer) drawWagonWheel(c *canvas, spec Spec) error {
	vectors, err := BuildWagonVectors(spec.Snapshot)
	if err != nil {
		return err
	}

	snap := spec.Snapshot
	textCol := parseHex(r.style.Text)
	cx, cy := spec.Width/2, spec.Height/2+10
	radius := spec.Height/2 - 80
	if radius < 10 {
		return &RenderError{Kind: KindWagonWheel, Reason: "frame too small for field circle"}
	}

	c.textCentered(spec.Width/2, 40, fmt.Sprintf("Wagon Wheel - %s", snap.Teams.Batting), textCol)

	// Field and pitch. Y grows downward on screen, so "down the ground"
	// (angle 0) points up from the batting origin.
	c.circleOutline(cx, cy, radius, textCol, 2)
	pitch := image.Rect(cx-radius/20, cy-radius/5, cx+radius/20, cy+radius/5)
	c.fillRect(pitch, color.RGBA{R: 0x8B, G: 0x73, B: 0x55, A: 255})
	c.strokeRect(pitch, textCol)

	for _, v := range vectors {
		px := cx + int(v.X*float64(radius))
		py := cy - int(v.Y*float64(radius))
		var col color.RGBA
		switch v.Marker {
		case MarkerSix:
			col = r.color(RoleAccent)
		case MarkerFour:
			col = r.color(RoleSuccess)
		case MarkerWicket:
			col = r.color(RoleSecondary)
		default:
			col = r.color(RoleSecondary)
		}
		c.line(cx, cy, px, py, col, 2)
		switch v.Marker {
		case MarkerSix:
			c.disc(px, py, 9, col)
		case MarkerFour:
			c.disc(px, py, 7, col)
		case MarkerWicket:
			c.cross(px, py, 8, col, 3)
		default:
			c.disc(px, py, 5, col)
		}
	}

	// Legend.
	c.text(30, 80, "* six", r.color(RoleAccent))
	c.text(30, 100, "o four", r.color(RoleSuccess))
	c.text(30, 120, "x wicket", r.color(RoleSecondary))
	return nil
}

func (r *Renderer) drawPartnership(c *canvas, spec Spec) error {
	spans, err := BuildPartnershipSpans(spec.Snapshot)
	if err != nil {
		return err
	}

	snap := spec.Snapshot
	area := plotArea(spec.Width, spec.Height)
	textCol := parseHex(r.style.Text)

	c.fillRect(area, parseHex(r.style.Surface))
	title := fmt.Sprintf("Partnerships - %s", snap.Teams.Batting)
	c.textCentered(spec.Width/2, 40, title, textCol)

	total := spans[len(spans)-1].End
	if total <= 0 {
		return &RenderError{Kind: KindPartnership, Reason: "zero total partnership runs"}
	}

	barTop := area.Min.Y + area.Dy()/3
	barBottom := barTop + area.Dy()/4
	roles := []ColorRole{RolePrimary, RoleSuccess, RoleSecondary}

	for i, span := range spans {
		x0 := area.Min.X + int(float64(area.Dx())*float64(span.Start)/float64(total))
		x1 := area.Min.X + int(float64(area.Dx())*float64(span.End)/float64(total))
		rect := image.Rect(x0, barTop, x1, barBottom)
		col := r.color(roles[i%len(roles)])
		if span.Open {
			// Unbroken stand: outline with a dashed leading edge
			// instead of a solid fill.
			c.strokeRect(rect, col)
			for y := barTop + 4; y < barBottom-4; y += 10 {
				c.plot(x1-3, y, col, 3)
			}
			c.text(x0+6, barTop-10, span.Label+" (not out)", col)
		} else {
			c.fillRect(rect, col)
			c.strokeRect(rect, textCol)
			c.text(x0+6, barTop-10, span.Label, textCol)
		}
		c.textCentered((x0+x1)/2, barBottom+24, fmt.Sprintf("%d", span.Runs), textCol)
	}

	c.text(area.Min.X, barBottom+60,
		fmt.Sprintf("total %d runs across %d stands", total, len(spans)), textCol)
	return nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// dashedSegment draws a dashed line between two arbitrary points.
func (c *canvas) dashedSegment(x0, y0, x1, y1 int, col color.RGBA, stroke int) {
	const dash, gap = 12.0, 8.0
	length := math.Hypot(float64(x1-x0), float64(y1-y0))
	if length == 0 {
		return
	}
	pos := 0.0
	for pos < length {
		end := pos + dash
		if end > length {
			end = length
		}
		sx := x0 + int(float64(x1-x0)*pos/length)
		sy := y0 + int(float64(y1-y0)*pos/length)
		ex := x0 + int(float64(x1-x0)*end/length)
		ey := y0 + int(float64(y1-y0)*end/length)
		c.line(sx, sy, ex, ey, col, stroke)
		pos = end + gap
	}
}
