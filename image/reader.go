package image

import (
	"fmt"
	"io"
)

// Sink receives decoded pixels. SetPixel is called once for every pixel of a
// frame in row-major order and PresentFrame is called once after the last
// pixel of each frame.
type Sink interface {
	SetPixel(x, y int, r, g, b uint8)
	PresentFrame() error
}

// Decoder decodes the frames of a SAG stream one at a time.
//
// Only the previous frame is kept; each row is decoded into a scratch line
// which then replaces the same row of the previous frame.
type Decoder struct {
	// Strict causes an unchanged pixel with no previous value, which can
	// only happen in the first frame, to be reported as a FormatError
	// rather than decoded as black.
	Strict bool

	r   io.Reader
	h   Header
	err error

	frame int
	prev  []Pixel
	line  []Pixel
	row   []byte
}

// NewDecoder reads the header from r and returns a Decoder positioned at the
// first frame.
func NewDecoder(r io.Reader) (*Decoder, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		r:    r,
		h:    *h,
		line: make([]Pixel, h.Width),
		row:  make([]byte, h.RowSize()),
	}, nil
}

// Header returns the parsed header.
func (d *Decoder) Header() Header {
	return d.h
}

// Frame returns the index of the next frame to be decoded.
func (d *Decoder) Frame() int {
	return d.frame
}

func (d *Decoder) readRow(y int) error {
	if err := readFull(d.r, d.row); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return &TruncatedStreamError{Section: "frame", Frame: d.frame, Row: y}
	}
	return nil
}

func (d *Decoder) decodeRow(s Sink, y int) error {
	if err := d.readRow(y); err != nil {
		return err
	}

	w := int(d.h.Width)

	// History is only allocated once there is frame data to decode
	if d.prev == nil {
		d.prev = make([]Pixel, w*int(d.h.Height))
	}
	prev := d.prev[y*w : (y+1)*w]

	for x := 0; x < w; x += groupPixels {
		g := x / groupPixels * groupBytes
		bit := decodeGroup(d.line[x:x+groupPixels], prev[x:x+groupPixels], d.row[g:g+groupBytes], &d.h.Palette)
		if bit >= 0 && d.Strict {
			return FormatError(fmt.Sprintf("frame %d reuses pixel (%d, %d) with no previous value", d.frame, x+bit, y))
		}
	}

	for x, p := range d.line {
		s.SetPixel(x, y, p.R, p.G, p.B)
	}
	copy(prev, d.line)

	return nil
}

// NextFrame decodes the next frame into s. It returns io.EOF once every frame
// has been decoded. Any other error is permanent; the frame is abandoned and
// s.PresentFrame is not called.
func (d *Decoder) NextFrame(s Sink) error {
	if d.err != nil {
		return d.err
	}
	if d.frame >= int(d.h.FrameCount) {
		return io.EOF
	}

	for y := 0; y < int(d.h.Height); y++ {
		if err := d.decodeRow(s, y); err != nil {
			d.err = err
			return err
		}
	}
	d.frame++

	return s.PresentFrame()
}

// DecodeFrames decodes every remaining frame into s.
func (d *Decoder) DecodeFrames(s Sink) error {
	for {
		switch err := d.NextFrame(s); err {
		case nil:
		case io.EOF:
			return nil
		default:
			return err
		}
	}
}
