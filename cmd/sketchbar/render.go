package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sketchbar/internal/canvas"
	"github.com/example/sketchbar/internal/clipboard"
	"github.com/example/sketchbar/internal/toolbar"
)

// renderCmd runs session commands without a window and writes the result.
type renderCmd struct {
	*root
	fs            *flag.FlagSet
	sketch        sketchFlags
	execs         commandList
	script        string
	output        string
	imageType     string
	transparent   bool
	fromClipboard bool
	toClipboard   bool
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *renderCmd) Program() string {
	if c.root == nil {
		return "sketchbar render"
	}
	return c.root.Program() + " render"
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	c.sketch.register(fs, configOf(r))
	fs.Var(&c.execs, "e", "session command to run (may be specified multiple times)")
	fs.StringVar(&c.script, "script", "", "file of session commands, one per line (- for stdin)")
	fs.StringVar(&c.output, "output", "", "output file path")
	fs.StringVar(&c.imageType, "type", "", "image type: png or jpg (defaults to the output extension)")
	fs.BoolVar(&c.transparent, "transparent", false, "leave the background transparent (png only)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "use the clipboard image as the background")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "use the clipboard image as the background (alias)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.output == "" && !c.toClipboard {
		return nil, fmt.Errorf("an output file or -to-clipboard is required")
	}
	if c.fromClipboard && c.sketch.background != "" {
		return nil, fmt.Errorf("-from-clipboard cannot be combined with -background")
	}
	if c.imageType == "" {
		c.imageType = string(toolbar.ImagePNG)
		if ext := strings.ToLower(filepath.Ext(c.output)); ext == ".jpg" || ext == ".jpeg" {
			c.imageType = string(toolbar.ImageJPG)
		}
	}
	switch toolbar.ImageType(c.imageType) {
	case toolbar.ImagePNG, toolbar.ImageJPG:
	default:
		return nil, fmt.Errorf("unknown image type %q", c.imageType)
	}
	if err := c.sketch.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var readClipboardImage = clipboard.ReadImage

var writeClipboardImage = clipboard.WriteImage

var writeClipboardText = clipboard.WriteText

func (c *renderCmd) Run() error {
	s, err := newSession(c.root, c.sketch, os.Stderr)
	if err != nil {
		return err
	}
	if c.fromClipboard {
		img, err := readClipboardImage()
		if err != nil {
			return fmt.Errorf("read clipboard image: %w", err)
		}
		s.canvas.SetSourceImage(img, toolbar.ImageMode(c.sketch.mode))
	}
	commands, err := c.commands()
	if err != nil {
		return err
	}
	for i, line := range commands {
		done, err := s.executeLine(line)
		if err != nil {
			return fmt.Errorf("command %d %q: %w", i+1, line, err)
		}
		if done {
			break
		}
	}
	s.canvas.Wait()

	img := s.canvas.Render(canvas.RenderOptions{
		Transparent:  c.transparent,
		IncludeImage: true,
		IncludeText:  true,
	})
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			return err
		}
		if err := canvas.Encode(out, img, toolbar.ImageType(c.imageType)); err != nil {
			if cerr := out.Close(); cerr != nil {
				log.Printf("error closing %q: %v", out.Name(), cerr)
			}
			return fmt.Errorf("encode %s: %w", c.output, err)
		}
		if err := out.Close(); err != nil {
			return err
		}
		saved := c.output
		if abs, err := filepath.Abs(c.output); err == nil {
			saved = abs
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", saved)
		c.root.notifySaved(true, saved)
	}
	if c.toClipboard {
		if err := writeClipboardImage(img); err != nil {
			return fmt.Errorf("copy image to clipboard: %w", err)
		}
		detail := "sketch"
		if c.output != "" {
			detail = filepath.Base(c.output)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		c.root.notifyCopy(detail)
	}
	return nil
}

func (c *renderCmd) commands() ([]string, error) {
	var lines []string
	if c.script != "" {
		var r io.Reader = os.Stdin
		if c.script != "-" {
			f, err := os.Open(c.script)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			lines = append(lines, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
	}
	return append(lines, c.execs...), nil
}
