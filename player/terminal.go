package player

import (
	"bufio"
	"fmt"
	"io"
)

// Terminal is a sink that draws frames on an ANSI terminal with 24-bit color
// support. Each character cell shows two pixels stacked vertically using the
// upper half block; the foreground is the top pixel and the background is the
// bottom pixel.
type Terminal struct {
	w      *bufio.Writer
	width  int
	height int
	pix    []uint8
}

// NewTerminal returns a Terminal sink for frames of the given size.
func NewTerminal(w io.Writer, width, height int) *Terminal {
	return &Terminal{
		w:      bufio.NewWriter(w),
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}
}

// SetPixel implements image.Sink.
func (t *Terminal) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	i := (y*t.width + x) * 3
	t.pix[i], t.pix[i+1], t.pix[i+2] = r, g, b
}

func (t *Terminal) rgb(x, y int) (uint8, uint8, uint8) {
	if y >= t.height {
		return 0, 0, 0
	}
	i := (y*t.width + x) * 3
	return t.pix[i], t.pix[i+1], t.pix[i+2]
}

// PresentFrame implements image.Sink.
func (t *Terminal) PresentFrame() error {
	// Cursor to top left
	t.w.WriteString("\x1b[H")
	for y := 0; y < t.height; y += 2 {
		for x := 0; x < t.width; x++ {
			r1, g1, b1 := t.rgb(x, y)
			r2, g2, b2 := t.rgb(x, y+1)
			fmt.Fprintf(t.w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", r1, g1, b1, r2, g2, b2)
		}
		t.w.WriteString("\x1b[0m\n")
	}
	return t.w.Flush()
}

// Clear erases the terminal.
func (t *Terminal) Clear() error {
	t.w.WriteString("\x1b[2J\x1b[H")
	return t.w.Flush()
}
