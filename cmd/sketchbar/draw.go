package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/sketchbar/internal/sketchui"
	"github.com/example/sketchbar/internal/toolbar"
)

// drawCmd opens the sketch window.
type drawCmd struct {
	*root
	fs            *flag.FlagSet
	sketch        sketchFlags
	title         string
	fromClipboard bool
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func (d *drawCmd) Program() string {
	if d.root == nil {
		return "sketchbar draw"
	}
	return d.root.Program() + " draw"
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	d.sketch.register(fs, configOf(r))
	fs.StringVar(&d.title, "title", "Sketchbar", "window title")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "use the clipboard image as the background")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "use the clipboard image as the background (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	if d.fromClipboard && d.sketch.background != "" {
		return nil, fmt.Errorf("-from-clipboard cannot be combined with -background")
	}
	if err := d.sketch.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	s, err := newSession(d.root, d.sketch, os.Stderr)
	if err != nil {
		return err
	}
	if d.fromClipboard {
		img, err := readClipboardImage()
		if err != nil {
			return fmt.Errorf("read clipboard image: %w", err)
		}
		s.canvas.SetSourceImage(img, toolbar.ImageMode(d.sketch.mode))
	}
	opts := []sketchui.Option{sketchui.WithTitle(d.title)}
	if d.root != nil && d.root.activeTheme != nil {
		opts = append(opts, sketchui.WithTheme(d.root.activeTheme))
	}
	win := sketchui.New(s.ctrl, s.canvas, opts...)
	s.setStatus(win.Status)
	win.Run()
	s.setStatus(nil)
	// Pending saves finish before the process exits.
	s.canvas.Wait()
	return nil
}
