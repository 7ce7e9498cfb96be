/*
Package player plays SAG animations on a sink, looping and honouring the
frame delay stored in the file.
*/
package player

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/bodgit/sag/image"
)

// Opener returns a fresh stream positioned at the start of the animation.
// It is called once per loop.
type Opener func() (io.ReadCloser, error)

// Player repeatedly decodes an animation onto a sink.
type Player struct {
	// Loops is the number of times to play the animation, 0 means forever.
	Loops int
	// Strict is passed to each image.Decoder.
	Strict bool

	open   Opener
	sink   image.Sink
	logger *log.Logger
}

// New returns a Player that reads the animation using open and renders it
// to sink.
func New(open Opener, sink image.Sink, logger *log.Logger) *Player {
	return &Player{
		open:   open,
		sink:   sink,
		logger: logger,
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Player) pass(ctx context.Context, loop int) (int, error) {
	rc, err := p.open()
	if err != nil {
		return 0, err
	}

	// Closing the stream is the only way to interrupt a blocked read
	done := make(chan struct{})
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		select {
		case <-ctx.Done():
		case <-done:
		}
		rc.Close()
	}()
	defer func() {
		close(done)
		<-closed
	}()

	d, err := image.NewDecoder(rc)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, err
	}
	d.Strict = p.Strict

	h := d.Header()
	if loop == 0 {
		p.logger.Printf("Playing %dx%d, %d frames at %v per frame\n", h.Width, h.Height, h.FrameCount, h.Delay())
	}

	for {
		switch err := d.NextFrame(p.sink); err {
		case nil:
		case io.EOF:
			return d.Frame(), nil
		default:
			if ctx.Err() != nil {
				return d.Frame(), ctx.Err()
			}
			return d.Frame(), err
		}
		if err := wait(ctx, h.Delay()); err != nil {
			return d.Frame(), err
		}
	}
}

// Play plays the animation until the requested number of loops has completed,
// ctx is cancelled, or an error occurs. Each loop re-opens the stream and
// decodes it from the start.
func (p *Player) Play(ctx context.Context) error {
	for loop := 0; p.Loops == 0 || loop < p.Loops; loop++ {
		n, err := p.pass(ctx, loop)
		if err != nil {
			return err
		}
		p.logger.Printf("Loop %d complete, %d frames\n", loop+1, n)
		if n == 0 && p.Loops == 0 {
			// Nothing to show, don't spin forever
			return nil
		}
	}
	return nil
}
