package chart

import (
	"image"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/cricketcast/cricketcast/internal/asset"
)

// badgeQRSize is the encoded QR square inside the badge.
const badgeQRSize = 160

// RenderQRBadge renders the "full scorecard" badge: a QR code for the given
// URL with a caption, overlaid on the closing segment of the video.
func (r *Renderer) RenderQRBadge(url, outPath string) (asset.Rendered, error) {
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return asset.Rendered{}, &RenderError{Kind: KindNone, Reason: "qr encode: " + err.Error()}
	}

	width := badgeQRSize + 20
	height := badgeQRSize + 48
	c := newCanvas(width, height, parseHex(r.style.Surface))

	qrImg := qr.Image(badgeQRSize)
	draw.Draw(c.img, qrImg.Bounds().Add(image.Pt(10, 10)), qrImg, qrImg.Bounds().Min, draw.Src)
	c.textCentered(width/2, height-16, "Full scorecard", parseHex(r.style.Text))

	if err := writePNG(outPath, c.img); err != nil {
		return asset.Rendered{}, &RenderError{Kind: KindNone, Reason: err.Error()}
	}
	return asset.Rendered{
		Path:   outPath,
		Kind:   asset.KindChart,
		Width:  width,
		Height: height,
	}, nil
}
