package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"runtime"
	"testing"

	"github.com/bodgit/sag/internal/sagtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAll(t *testing.T) {
	f := sagtest.New(16, 8)
	f.Palette[5] = [3]byte{255, 0, 0}
	f.Palette[6] = [3]byte{0, 0, 255}
	f.AddFrame(sagtest.Fill(5))
	f.AddFrame(sagtest.Unchanged())[7][1] = sagtest.Fill(6)

	a, err := DecodeAll(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)
	require.Len(t, a.Frames, 2)
	assert.Equal(t, uint16(16), a.Header.Width)

	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	assert.Equal(t, red, a.Frames[0].RGBAAt(15, 7))
	assert.Equal(t, red, a.Frames[1].RGBAAt(0, 0))
	assert.Equal(t, red, a.Frames[1].RGBAAt(7, 7))
	assert.Equal(t, blue, a.Frames[1].RGBAAt(8, 7))
	assert.Equal(t, blue, a.Frames[1].RGBAAt(15, 7))
}

func TestImageDecode(t *testing.T) {
	f := sagtest.New(8, 16)
	f.Palette[1] = [3]byte{10, 20, 30}
	f.AddFrame(sagtest.Fill(1))
	f.AddFrame(sagtest.Fill(2))

	m, format, err := image.Decode(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "sag", format)
	assert.Equal(t, image.Rect(0, 0, 8, 16), m.Bounds())
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, m.At(3, 3))

	c, format, err := image.DecodeConfig(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "sag", format)
	assert.Equal(t, 8, c.Width)
	assert.Equal(t, 16, c.Height)
}

func TestDecodeNoFrames(t *testing.T) {
	f := sagtest.New(8, 8)

	a, err := DecodeAll(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, a.Frames)

	m, err := Decode(bytes.NewReader(f.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), m.Bounds())
}

func allocated(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestLargeHeaderWithoutFrames(t *testing.T) {
	f := sagtest.New(8192, 8192)
	b := f.Bytes()

	n := allocated(func() {
		_, err := NewDecoder(bytes.NewReader(b))
		require.NoError(t, err)

		a, err := DecodeAll(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Empty(t, a.Frames)

		m, _, err := image.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 8192, 8192), m.Bounds())
		assert.Equal(t, color.RGBA{}, m.At(100, 100))
	})
	assert.True(t, n < 4<<20, "allocated %d bytes", n)
}

func TestLargeHeaderTruncated(t *testing.T) {
	f := sagtest.New(8192, 8192)
	f.Count = 1

	n := allocated(func() {
		_, err := DecodeAll(bytes.NewReader(f.Header()))
		var te *TruncatedStreamError
		assert.True(t, errors.As(err, &te), "got %v", err)
	})
	assert.True(t, n < 4<<20, "allocated %d bytes", n)
}
