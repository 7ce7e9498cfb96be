package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bodgit/sag/image"
	"github.com/bodgit/sag/internal/sagtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpSink(t *testing.T) {
	f := sagtest.New(8, 8)
	f.Palette[5] = [3]byte{255, 0, 0}
	f.AddFrame(sagtest.Fill(5))
	f.AddFrame(sagtest.Unchanged())

	d, err := image.NewDecoder(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)

	b := new(bytes.Buffer)
	require.NoError(t, d.DecodeFrames(newDumpSink(b, d)))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 128)
	assert.Equal(t, "Frame: 0 X: 0 Y: 0 R: 255 G: 0 B: 0", lines[0])
	assert.Equal(t, "Frame: 1 X: 7 Y: 7 R: 255 G: 0 B: 0", lines[127])
}
