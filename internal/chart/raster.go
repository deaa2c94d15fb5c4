package chart

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// canvas wraps an RGBA image with the small set of primitives the chart
// renderers draw with. Everything is integer pixel work; no anti-aliasing,
// which keeps output byte-stable across runs and platforms.
type canvas struct {
	img *image.RGBA
}

func newCanvas(width, height int, background color.RGBA) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	return &canvas{img: img}
}

func (c *canvas) fillRect(r image.Rectangle, col color.RGBA) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func (c *canvas) strokeRect(r image.Rectangle, col color.RGBA) {
	c.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	c.fillRect(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	c.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), col)
	c.fillRect(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// line draws a Bresenham segment thickened to the given stroke width.
func (c *canvas) line(x0, y0, x1, y1 int, col color.RGBA, stroke int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.plot(x0, y0, col, stroke)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// dashedLine draws a horizontal dashed line, used for reference/target
// lines.
func (c *canvas) dashedLine(x0, x1, y int, col color.RGBA, stroke int) {
	const dash, gap = 12, 8
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x < x1; x += dash + gap {
		end := x + dash
		if end > x1 {
			end = x1
		}
		c.line(x, y, end, y, col, stroke)
	}
}

func (c *canvas) circleOutline(cx, cy, r int, col color.RGBA, stroke int) {
	// Midpoint circle.
	x, y := r, 0
	e := 1 - r
	for x >= y {
		for _, p := range [][2]int{
			{cx + x, cy + y}, {cx - x, cy + y}, {cx + x, cy - y}, {cx - x, cy - y},
			{cx + y, cy + x}, {cx - y, cy + x}, {cx + y, cy - x}, {cx - y, cy - x},
		} {
			c.plot(p[0], p[1], col, stroke)
		}
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

func (c *canvas) disc(cx, cy, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.plot(cx+dx, cy+dy, col, 1)
			}
		}
	}
}

// cross draws an X marker, used for wickets.
func (c *canvas) cross(cx, cy, r int, col color.RGBA, stroke int) {
	c.line(cx-r, cy-r, cx+r, cy+r, col, stroke)
	c.line(cx-r, cy+r, cx+r, cy-r, col, stroke)
}

func (c *canvas) plot(x, y int, col color.RGBA, stroke int) {
	if stroke <= 1 {
		if image.Pt(x, y).In(c.img.Bounds()) {
			c.img.SetRGBA(x, y, col)
		}
		return
	}
	half := stroke / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			if image.Pt(x+dx, y+dy).In(c.img.Bounds()) {
				c.img.SetRGBA(x+dx, y+dy, col)
			}
		}
	}
}

// text draws a label with the fixed 7x13 face. (x, y) is the baseline
// origin of the first glyph.
func (c *canvas) text(x, y int, s string, col color.RGBA) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// textCentered draws a label horizontally centered on x.
func (c *canvas) textCentered(x, y int, s string, col color.RGBA) {
	width := font.MeasureString(basicfont.Face7x13, s).Ceil()
	c.text(x-width/2, y, s, col)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// parseHex converts a "#RRGGBB" palette entry to a color. Malformed values
// fall back to white rather than failing a render.
func parseHex(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
