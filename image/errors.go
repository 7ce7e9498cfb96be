package image

import (
	"fmt"
	"io"
)

// A FormatError reports that the input is not a valid SAG file.
//
// There is no error for a palette index being out of range; an index is a
// single byte and the palette always has 256 entries.
type FormatError string

func (e FormatError) Error() string { return "sag: invalid format: " + string(e) }

// A TruncatedStreamError reports that the input ended before a complete
// header or row could be read.
type TruncatedStreamError struct {
	Section string // "header" or "frame"
	Frame   int
	Row     int
}

func (e *TruncatedStreamError) Error() string {
	if e.Section == "header" {
		return "sag: truncated stream reading header"
	}
	return fmt.Sprintf("sag: truncated stream reading frame %d row %d", e.Frame, e.Row)
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
