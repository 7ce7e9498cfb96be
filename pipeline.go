package sag

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/sag/image"
	"github.com/bodgit/sag/thumbnail"
)

const numWorkers = 10

func isSAG(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".sag")
}

func (l *Library) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isSAG(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// firstFrame is a sink that keeps only the first frame. Later frames are
// decoded to validate the file but discarded.
type firstFrame struct {
	r      stdimage.Rectangle
	m      *stdimage.RGBA
	frames int
}

func (f *firstFrame) SetPixel(x, y int, r, g, b uint8) {
	if f.frames > 0 {
		return
	}
	if f.m == nil {
		f.m = stdimage.NewRGBA(f.r)
	}
	f.m.SetRGBA(x, y, color.RGBA{r, g, b, 0xff})
}

func (f *firstFrame) PresentFrame() error {
	f.frames++
	return nil
}

// readAnimation hashes and fully decodes file, returning the header and a
// thumbnail of the first frame.
func readAnimation(file string) (string, *image.Header, []byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", nil, nil, err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)

	d, err := image.NewDecoder(r)
	if err != nil {
		return "", nil, nil, err
	}
	header := d.Header()

	s := &firstFrame{r: stdimage.Rect(0, 0, int(header.Width), int(header.Height))}
	if err := d.DecodeFrames(s); err != nil {
		return "", nil, nil, err
	}

	// Include any trailing bytes in the hash
	if _, err := io.Copy(ioutil.Discard, r); err != nil {
		return "", nil, nil, err
	}

	var png []byte
	if s.m != nil {
		b := new(bytes.Buffer)
		if err := thumbnail.Encode(b, s.m); err != nil {
			return "", nil, nil, err
		}
		png = b.Bytes()
	}

	return fmt.Sprintf("%X", h.Sum(nil)), &header, png, nil
}

func isDecodeError(err error) bool {
	var fe image.FormatError
	var te *image.TruncatedStreamError
	return errors.As(err, &fe) || errors.As(err, &te)
}

func (l *Library) fileWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if ctx.Err() != nil {
				return
			}
			sha, h, png, err := readAnimation(file)
			if err != nil {
				if isDecodeError(err) {
					l.logger.Printf("Skipping \"%s\": %s\n", file, err)
					continue
				}
				errc <- err
				return
			}

			if err := l.db.AddAnimation(file, sha, h, png); err != nil {
				errc <- err
				return
			}
			l.logger.Printf("Added \"%s\", %dx%d, %d frames\n", file, h.Width, h.Height, h.FrameCount)
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error after cancelling the pipeline and
// waiting for every stage to finish.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and adds every SAG animation found to the catalogue. Files
// that are not valid SAG animations are logged and skipped.
func (l *Library) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := l.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := l.fileWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
