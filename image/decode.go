package image

import (
	"image"
	"image/color"
	"io"
)

// Animation is a fully decoded SAG file.
type Animation struct {
	Header Header
	Frames []*image.RGBA
}

// blank is a transparent image with no pixel storage.
type blank image.Rectangle

func (b blank) ColorModel() color.Model { return color.RGBAModel }
func (b blank) Bounds() image.Rectangle { return image.Rectangle(b) }
func (b blank) At(x, y int) color.Color { return color.RGBA{} }

// recorder is a Sink that keeps every frame. Each frame is allocated on its
// first pixel so a header alone never costs a full frame.
type recorder struct {
	r      image.Rectangle
	max    int
	cur    *image.RGBA
	frames []*image.RGBA
}

func newRecorder(h *Header, max int) *recorder {
	return &recorder{
		r:   image.Rect(0, 0, int(h.Width), int(h.Height)),
		max: max,
	}
}

func (rec *recorder) SetPixel(x, y int, r, g, b uint8) {
	if rec.cur == nil {
		rec.cur = image.NewRGBA(rec.r)
	}
	i := rec.cur.PixOffset(x, y)
	s := rec.cur.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = r, g, b, 0xff
}

func (rec *recorder) PresentFrame() error {
	rec.frames = append(rec.frames, rec.cur)
	rec.cur = nil
	return nil
}

func (rec *recorder) done() bool {
	return rec.max > 0 && len(rec.frames) >= rec.max
}

func decode(r io.Reader, max int) (*Animation, error) {
	d, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}

	rec := newRecorder(&d.h, max)
	for !rec.done() {
		if err := d.NextFrame(rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}

	return &Animation{
		Header: d.h,
		Frames: rec.frames,
	}, nil
}

// DecodeAll reads a SAG animation from r and returns every frame.
func DecodeAll(r io.Reader) (*Animation, error) {
	return decode(r, 0)
}

// Decode reads a SAG animation from r and returns the first frame as an
// image.Image. An animation with no frames decodes as a transparent image.
func Decode(r io.Reader) (image.Image, error) {
	a, err := decode(r, 1)
	if err != nil {
		return nil, err
	}
	if len(a.Frames) == 0 {
		return blank(image.Rect(0, 0, int(a.Header.Width), int(a.Header.Height))), nil
	}
	return a.Frames[0], nil
}

// DecodeConfig returns the color model and dimensions of a SAG animation
// without decoding any frames.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

func init() {
	image.RegisterFormat("sag", signature, Decode, DecodeConfig)
}
