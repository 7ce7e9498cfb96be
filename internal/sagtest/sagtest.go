// Package sagtest builds SAG streams for tests.
package sagtest

import (
	"bytes"
	"encoding/binary"
)

// Group is one encoded 8 pixel group.
type Group struct {
	Control byte
	Index   [8]byte
}

// Fill returns a group setting all 8 pixels to palette index i.
func Fill(i byte) Group {
	return Group{Index: [8]byte{i, i, i, i, i, i, i, i}}
}

// Unchanged returns a group marking all 8 pixels as unchanged with the index
// bytes set to garbage.
func Unchanged() Group {
	return Group{Control: 0xff, Index: [8]byte{0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef}}
}

// File describes a SAG stream.
type File struct {
	Signature string
	Version   byte
	Width     uint16
	Height    uint16
	Delay     uint16
	Palette   [256][3]byte

	// Frames holds Height rows of Width/8 groups per frame.
	Frames [][][]Group

	// Count overrides the frame count written in the header when non-zero.
	Count uint16
}

// New returns a file with the given dimensions and a grey ramp palette.
func New(width, height uint16) *File {
	f := &File{
		Signature: "SAG",
		Version:   1,
		Width:     width,
		Height:    height,
		Delay:     33,
	}
	for i := range f.Palette {
		f.Palette[i] = [3]byte{byte(i), byte(i), byte(i)}
	}
	return f
}

// AddFrame appends a frame with every group set to g and returns it so
// individual groups can be changed.
func (f *File) AddFrame(g Group) [][]Group {
	rows := make([][]Group, f.Height)
	for y := range rows {
		rows[y] = make([]Group, f.Width/8)
		for x := range rows[y] {
			rows[y][x] = g
		}
	}
	f.Frames = append(f.Frames, rows)
	return rows
}

// Header returns just the encoded header.
func (f *File) Header() []byte {
	b := new(bytes.Buffer)
	b.WriteString(f.Signature)
	b.WriteByte(f.Version)

	count := f.Count
	if count == 0 {
		count = uint16(len(f.Frames))
	}
	binary.Write(b, binary.BigEndian, []uint16{f.Width, f.Height, count, f.Delay})

	for _, c := range f.Palette {
		b.Write(c[:])
	}
	return b.Bytes()
}

// Bytes returns the encoded stream.
func (f *File) Bytes() []byte {
	b := bytes.NewBuffer(f.Header())
	for _, frame := range f.Frames {
		for _, row := range frame {
			for _, g := range row {
				b.WriteByte(g.Control)
				b.Write(g.Index[:])
			}
		}
	}
	return b.Bytes()
}
