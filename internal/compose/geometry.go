package compose

import "github.com/cricketcast/cricketcast/internal/timeline"

// Rect is a placement rectangle in frame pixels.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Inset sizing: the PiP rectangle takes a fixed fraction of the base frame
// and sits a fixed margin off the anchored corner.
const (
	insetFraction = 0.30
	insetMargin   = 20
)

// InsetRect computes the picture-in-picture rectangle for the given corner.
// Pure: identical inputs always return the identical rectangle. Dimensions
// are rounded down to even values to keep encoders happy.
func InsetRect(corner timeline.Corner, frameW, frameH int) Rect {
	w := even(int(float64(frameW) * insetFraction))
	h := even(int(float64(frameH) * insetFraction))

	r := Rect{W: w, H: h}
	switch corner {
	case timeline.CornerTopLeft:
		r.X, r.Y = insetMargin, insetMargin
	case timeline.CornerTopRight:
		r.X, r.Y = frameW-w-insetMargin, insetMargin
	case timeline.CornerBottomLeft:
		r.X, r.Y = insetMargin, frameH-h-insetMargin
	default: // bottom-right
		r.X, r.Y = frameW-w-insetMargin, frameH-h-insetMargin
	}
	return r
}

func even(n int) int {
	return n - n%2
}
