package player

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bodgit/sag/image"
	"github.com/bodgit/sag/internal/sagtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct {
	pixels   int
	presents int
	cancel   func()
}

func (s *countingSink) SetPixel(x, y int, r, g, b uint8) {
	s.pixels++
}

func (s *countingSink) PresentFrame() error {
	s.presents++
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

type closer struct {
	io.Reader
	closed *int
}

func (c closer) Close() error {
	*c.closed++
	return nil
}

func opener(b []byte, opens, closes *int) Opener {
	return func() (io.ReadCloser, error) {
		*opens++
		return closer{bytes.NewReader(b), closes}, nil
	}
}

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func TestPlayLoops(t *testing.T) {
	f := sagtest.New(8, 8)
	f.Delay = 0
	f.AddFrame(sagtest.Fill(1))
	f.AddFrame(sagtest.Unchanged())
	f.AddFrame(sagtest.Fill(2))

	var opens, closes int
	s := new(countingSink)
	p := New(opener(f.Bytes(), &opens, &closes), s, discard())
	p.Loops = 3

	require.NoError(t, p.Play(context.Background()))
	assert.Equal(t, 3, opens)
	assert.Equal(t, 3, closes)
	assert.Equal(t, 9, s.presents)
	assert.Equal(t, 9*64, s.pixels)
}

func TestPlayCancel(t *testing.T) {
	f := sagtest.New(8, 8)
	f.Delay = 10000
	f.AddFrame(sagtest.Fill(1))
	f.AddFrame(sagtest.Fill(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opens, closes int
	s := &countingSink{cancel: cancel}
	p := New(opener(f.Bytes(), &opens, &closes), s, discard())

	start := time.Now()
	assert.Equal(t, context.Canceled, p.Play(ctx))
	assert.True(t, time.Since(start) < 5*time.Second)
	assert.Equal(t, 1, s.presents)
	assert.Equal(t, 1, closes)
}

// blockingStream returns its header bytes then blocks every read until it
// is closed.
type blockingStream struct {
	io.Reader
	closed chan struct{}
	once   sync.Once
}

func newBlockingStream(header []byte) *blockingStream {
	b := &blockingStream{closed: make(chan struct{})}
	b.Reader = io.MultiReader(bytes.NewReader(header), readerFunc(func([]byte) (int, error) {
		<-b.closed
		return 0, errors.New("read on closed stream")
	}))
	return b
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

func (b *blockingStream) Close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}

func TestPlayCancelBlockedRead(t *testing.T) {
	f := sagtest.New(8, 8)
	f.Count = 1
	stream := newBlockingStream(f.Header())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := new(countingSink)
	p := New(func() (io.ReadCloser, error) {
		return stream, nil
	}, s, discard())

	errc := make(chan error, 1)
	go func() {
		errc <- p.Play(ctx)
	}()

	time.AfterFunc(20*time.Millisecond, cancel)

	select {
	case err := <-errc:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Play did not return after cancel")
	}

	select {
	case <-stream.closed:
	default:
		t.Error("stream was not closed")
	}
	assert.Equal(t, 0, s.presents)
}

func TestPlayDelay(t *testing.T) {
	f := sagtest.New(8, 8)
	f.Delay = 20
	f.AddFrame(sagtest.Fill(1))
	f.AddFrame(sagtest.Fill(2))

	var opens, closes int
	p := New(opener(f.Bytes(), &opens, &closes), new(countingSink), discard())
	p.Loops = 1

	start := time.Now()
	require.NoError(t, p.Play(context.Background()))
	assert.True(t, time.Since(start) >= 40*time.Millisecond)
}

func TestPlayError(t *testing.T) {
	f := sagtest.New(8, 8)
	f.Delay = 0
	f.AddFrame(sagtest.Fill(1))
	b := f.Bytes()

	var opens, closes int
	p := New(opener(b[:len(b)-1], &opens, &closes), new(countingSink), discard())

	err := p.Play(context.Background())
	var te *image.TruncatedStreamError
	assert.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, closes)
}

func TestPlayStrict(t *testing.T) {
	f := sagtest.New(8, 8)
	f.Delay = 0
	f.AddFrame(sagtest.Unchanged())

	var opens, closes int
	p := New(opener(f.Bytes(), &opens, &closes), new(countingSink), discard())
	p.Loops = 1
	p.Strict = true

	var fe image.FormatError
	assert.True(t, errors.As(p.Play(context.Background()), &fe))
}

func TestPlayOpenError(t *testing.T) {
	p := New(func() (io.ReadCloser, error) {
		return nil, errors.New("no such file")
	}, new(countingSink), discard())
	assert.EqualError(t, p.Play(context.Background()), "no such file")
}

func TestPlayNoFrames(t *testing.T) {
	var opens, closes int
	p := New(opener(sagtest.New(8, 8).Bytes(), &opens, &closes), new(countingSink), discard())
	require.NoError(t, p.Play(context.Background()))
	assert.Equal(t, 1, opens)
}

func TestTerminal(t *testing.T) {
	b := new(bytes.Buffer)
	term := NewTerminal(b, 2, 3)
	term.SetPixel(0, 0, 255, 0, 0)
	term.SetPixel(0, 1, 0, 0, 255)
	term.SetPixel(1, 2, 1, 2, 3)
	term.SetPixel(5, 5, 9, 9, 9)
	require.NoError(t, term.PresentFrame())

	out := b.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[H"))
	assert.Contains(t, out, "\x1b[38;2;255;0;0m\x1b[48;2;0;0;255m▀")
	assert.Contains(t, out, "\x1b[38;2;1;2;3m\x1b[48;2;0;0;0m▀")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}
