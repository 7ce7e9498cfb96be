package thumbnail

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// Size returns the dimensions of the thumbnail for an image of the given
// size. Images that already fit are not enlarged.
func Size(width, height int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	if width >= height {
		return maxWidth, max(1, height*maxWidth/width)
	}
	return max(1, width*maxHeight/height), maxHeight
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Encode writes a thumbnail of m to w in PNG format.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return errors.New("thumbnail: image is empty")
	}

	r := image.Rect(0, 0, 0, 0)
	r.Max.X, r.Max.Y = Size(b.Dx(), b.Dy())

	scaled := image.NewRGBA(r)
	draw.ApproxBiLinear.Scale(scaled, r, m, b, draw.Src, nil)

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(r, q.Quantize(make(color.Palette, 0, maxColors), scaled))
	draw.Draw(pm, r, scaled, r.Min, draw.Src)

	e := png.Encoder{CompressionLevel: png.BestCompression}

	return e.Encode(w, pm)
}
