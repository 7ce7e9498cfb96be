package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bodgit/sag"
	"github.com/bodgit/sag/export"
	"github.com/bodgit/sag/image"
	"github.com/bodgit/sag/player"
	"github.com/urfave/cli/v2"
)

const defaultDB = "sag.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openLibrary(c *cli.Context) (*sag.Library, error) {
	return sag.New(c.String("db"), newLogger(c))
}

func decodeFile(file string) (*image.Animation, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return image.DecodeAll(f)
}

func createFile(file string, fn func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	h, err := image.ReadHeader(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Printf("Version:     %d\n", h.Version)
	fmt.Printf("Dimensions:  %dx%d\n", h.Width, h.Height)
	fmt.Printf("Frames:      %d\n", h.FrameCount)
	fmt.Printf("Frame delay: %v\n", h.Delay())
	fmt.Printf("Frame size:  %d bytes\n", h.FrameSize())

	return nil
}

func dump(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	d, err := image.NewDecoder(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	d.Strict = c.Bool("strict")

	s := newDumpSink(os.Stdout, d)
	if err := d.DecodeFrames(s); err != nil {
		s.Flush()
		return cli.NewExitError(err, 1)
	}

	return s.Flush()
}

func toGIF(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	a, err := decodeFile(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := createFile(c.Args().Get(1), func(w io.Writer) error {
		return export.GIF(w, a, c.Int("scale"))
	}); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func toPNG(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	a, err := decodeFile(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	n := c.Int("frame")
	if n < 0 || n >= len(a.Frames) {
		return cli.NewExitError(fmt.Sprintf("frame %d out of range, animation has %d frames", n, len(a.Frames)), 1)
	}

	if err := createFile(c.Args().Get(1), func(w io.Writer) error {
		return export.PNG(w, a.Frames[n], c.Int("scale"))
	}); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func play(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	file := c.Args().First()

	// Read the dimensions up front to size the terminal
	f, err := os.Open(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	h, err := image.ReadHeader(f)
	f.Close()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	term := player.NewTerminal(os.Stdout, int(h.Width), int(h.Height))
	if err := term.Clear(); err != nil {
		return cli.NewExitError(err, 1)
	}

	p := player.New(func() (io.ReadCloser, error) {
		return os.Open(file)
	}, term, newLogger(c))
	p.Loops = c.Int("loops")
	p.Strict = c.Bool("strict")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	go func() {
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := p.Play(ctx); err != nil && err != context.Canceled {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	l, err := openLibrary(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.Close()

	if err := l.Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func list(c *cli.Context) error {
	l, err := openLibrary(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.Close()

	animations, err := l.List()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, a := range animations {
		fmt.Printf("%s %4dx%-4d %5d frames %5dms %s\n", a.SHA1, a.Width, a.Height, a.FrameCount, a.FrameDelay, a.Path)
	}

	return nil
}

func thumbnail(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	file, err := filepath.Abs(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	l, err := openLibrary(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.Close()

	b, err := l.Thumbnail(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if b == nil {
		return cli.NewExitError(fmt.Sprintf("no thumbnail for \"%s\"", file), 1)
	}

	if err := ioutil.WriteFile(c.Args().Get(1), b, 0644); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "sag"
	app.Usage = "SAG animation utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	strict := &cli.BoolFlag{
		Name:  "strict",
		Usage: "fail if the first frame reuses a pixel instead of drawing it black",
	}
	scale := &cli.IntFlag{
		Name:  "scale",
		Value: 1,
		Usage: "enlarge each pixel `N` times",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SAG_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Show the header of a SAG file",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:      "dump",
			Usage:     "Print every decoded pixel",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{strict},
			Action:    dump,
		},
		{
			Name:      "gif",
			Usage:     "Convert a SAG file to an animated GIF",
			ArgsUsage: "FILE OUTPUT",
			Flags:     []cli.Flag{scale},
			Action:    toGIF,
		},
		{
			Name:      "png",
			Usage:     "Convert a single frame of a SAG file to PNG",
			ArgsUsage: "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "frame",
					Usage: "frame `INDEX` to convert",
				},
				scale,
			},
			Action: toPNG,
		},
		{
			Name:      "play",
			Usage:     "Play a SAG file in the terminal",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "loops",
					Usage: "number of times to play, 0 loops forever",
				},
				strict,
			},
			Action: play,
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and catalogue SAG files",
			ArgsUsage: "DIRECTORY",
			Action:    scan,
		},
		{
			Name:   "list",
			Usage:  "List catalogued SAG files",
			Action: list,
		},
		{
			Name:      "thumbnail",
			Usage:     "Write the catalogued thumbnail of a SAG file",
			ArgsUsage: "FILE OUTPUT",
			Action:    thumbnail,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
