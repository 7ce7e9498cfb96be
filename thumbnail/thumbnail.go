/*
Package thumbnail implements a small preview encoder for animation frames.

A thumbnail is the frame scaled to fit within 64 by 64 pixels, keeping the
aspect ratio, and reduced to no more than 16 colors. It is written as a
paletted PNG so each thumbnail stays well under a couple of kilobytes.
*/
package thumbnail

const (
	maxWidth  = 64
	maxHeight = maxWidth
	maxColors = 16
)
