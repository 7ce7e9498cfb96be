/*
Package image implements a SAG animation decoder.

A SAG file starts with a 780 byte header; a 3 byte "SAG" signature, a version
byte, four big-endian 16-bit values for the width, height, number of frames
and the delay between frames in milliseconds, followed by a global palette of
256 RGB colors.

The frame data follows with no further framing. Each row of each frame is
split into groups of 8 pixels and each group is written as 9 bytes; a control
byte followed by a palette index for each pixel. If a bit in the control byte
is set, the most significant bit being the leftmost pixel, the pixel is
unchanged from the previous frame and the index byte is ignored. Otherwise the
pixel takes the color of the palette entry given by the index byte.
*/
package image

const (
	signature    = "SAG"
	fieldBytes   = 12
	paletteSize  = 256
	paletteBytes = paletteSize * 3
	groupPixels  = 8
	groupBytes   = groupPixels + 1

	// HeaderSize is the total number of bytes before the first frame.
	HeaderSize = fieldBytes + paletteBytes
)
