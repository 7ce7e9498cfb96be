/*
Package export converts decoded SAG animations to standard image formats.

Frames can be enlarged by an integer factor using nearest neighbour scaling,
which keeps the hard pixel edges of LED matrix content intact.
*/
package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"

	sagimage "github.com/bodgit/sag/image"
	"golang.org/x/image/draw"
)

var errBadScale = errors.New("export: scale must be at least 1")

func scale(m image.Image, n int) (image.Image, error) {
	if n < 1 {
		return nil, errBadScale
	}
	if n == 1 {
		return m, nil
	}
	b := m.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*n, b.Dy()*n))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst, nil
}

// PNG writes m to w as a PNG, enlarged n times.
func PNG(w io.Writer, m image.Image, n int) error {
	m, err := scale(m, n)
	if err != nil {
		return err
	}
	return png.Encode(w, m)
}

var errNoFreeEntry = errors.New("export: no free palette entry for black")

// gifPalette returns the SAG palette unchanged unless a frame contains black
// that the palette lacks, which happens when a pixel is reused without
// history. Black then replaces an entry whose color no frame uses.
func gifPalette(a *sagimage.Animation) (color.Palette, error) {
	cp := a.Header.Palette.ColorPalette()
	black := color.RGBA{0, 0, 0, 0xff}
	for _, c := range cp {
		if c == black {
			return cp, nil
		}
	}

	used := make(map[color.RGBA]struct{})
	for _, f := range a.Frames {
		for i := 0; i < len(f.Pix); i += 4 {
			used[color.RGBA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}] = struct{}{}
		}
	}
	if _, ok := used[black]; !ok {
		return cp, nil
	}

	for i := len(cp) - 1; i >= 0; i-- {
		if _, ok := used[cp[i].(color.RGBA)]; !ok {
			cp[i] = black
			return cp, nil
		}
	}
	return nil, errNoFreeEntry
}

// GIF writes every frame of a to w as an infinitely looping GIF, enlarged n
// times.
func GIF(w io.Writer, a *sagimage.Animation, n int) error {
	if len(a.Frames) == 0 {
		return errors.New("export: animation has no frames")
	}

	p, err := gifPalette(a)
	if err != nil {
		return err
	}
	delay := int(a.Header.FrameDelay) / 10

	g := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(a.Frames)),
		Delay:     make([]int, 0, len(a.Frames)),
		LoopCount: 0,
	}

	for _, f := range a.Frames {
		m, err := scale(f, n)
		if err != nil {
			return err
		}
		pm := image.NewPaletted(m.Bounds(), p)
		draw.Draw(pm, pm.Rect, m, m.Bounds().Min, draw.Src)
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, delay)
	}

	return gif.EncodeAll(w, g)
}
