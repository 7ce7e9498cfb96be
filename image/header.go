package image

import (
	"encoding/binary"
	"image/color"
	"io"
	"time"
)

// Color is an RGB triple. It implements color.Color and is always opaque.
type Color struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

// Palette is the global 256 entry color table of a SAG file.
type Palette [paletteSize]Color

// ColorPalette returns the palette as a color.Palette.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = color.RGBA{c.R, c.G, c.B, 0xff}
	}
	return cp
}

// Header holds the fields from the start of a SAG file.
type Header struct {
	Version    uint8
	Width      uint16
	Height     uint16
	FrameCount uint16
	FrameDelay uint16 // milliseconds
	Palette    Palette
}

// Delay returns the time each frame should be displayed for.
func (h *Header) Delay() time.Duration {
	return time.Duration(h.FrameDelay) * time.Millisecond
}

// GroupsPerRow returns the number of 8 pixel groups in each row.
func (h *Header) GroupsPerRow() int {
	return int(h.Width) / groupPixels
}

// RowSize returns the number of bytes used to encode each row.
func (h *Header) RowSize() int {
	return h.GroupsPerRow() * groupBytes
}

// FrameSize returns the number of bytes used to encode each frame.
func (h *Header) FrameSize() int {
	return h.RowSize() * int(h.Height)
}

func (h *Header) validate() error {
	switch {
	case h.Width == 0 || h.Height == 0:
		return FormatError("zero width or height")
	case h.Width%groupPixels != 0:
		return FormatError("width is not a multiple of 8")
	case h.Height%groupPixels != 0:
		return FormatError("height is not a multiple of 8")
	}
	return nil
}

// ReadHeader reads exactly HeaderSize bytes from r and returns the parsed
// header. It returns a *TruncatedStreamError if r holds fewer bytes.
func ReadHeader(r io.Reader) (*Header, error) {
	var tmp [HeaderSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, &TruncatedStreamError{Section: "header"}
	}

	if string(tmp[:len(signature)]) != signature {
		return nil, FormatError("bad signature")
	}

	h := &Header{
		Version:    tmp[3],
		Width:      binary.BigEndian.Uint16(tmp[4:6]),
		Height:     binary.BigEndian.Uint16(tmp[6:8]),
		FrameCount: binary.BigEndian.Uint16(tmp[8:10]),
		FrameDelay: binary.BigEndian.Uint16(tmp[10:12]),
	}

	p := tmp[fieldBytes:]
	for i := range h.Palette {
		h.Palette[i] = Color{p[i*3], p[i*3+1], p[i*3+2]}
	}

	if err := h.validate(); err != nil {
		return nil, err
	}

	return h, nil
}
