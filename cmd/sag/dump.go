package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bodgit/sag/image"
)

// dumpSink prints one line per pixel.
type dumpSink struct {
	*bufio.Writer
	d *image.Decoder
}

func newDumpSink(w io.Writer, d *image.Decoder) *dumpSink {
	return &dumpSink{
		Writer: bufio.NewWriter(w),
		d:      d,
	}
}

func (s *dumpSink) SetPixel(x, y int, r, g, b uint8) {
	fmt.Fprintf(s, "Frame: %d X: %d Y: %d R: %d G: %d B: %d\n", s.d.Frame(), x, y, r, g, b)
}

func (s *dumpSink) PresentFrame() error {
	return s.Flush()
}
