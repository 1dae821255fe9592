package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"sort"

	"golang.org/x/image/colornames"

	"github.com/example/sketchbar/internal/toolbar"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	palette := toolbar.DefaultColors
	defaultIdx := toolbar.DefaultColorIndex
	if cfg := configOf(c.root); cfg != nil {
		palette = cfg.Palette
		defaultIdx = cfg.ColorIndex
	}
	if len(palette) == 0 {
		fmt.Fprintln(os.Stdout, "no colors available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available palette colors (* marks the default color):")
	defaultIdx = clampIndex(defaultIdx, len(palette))
	for idx, entry := range palette {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		rgba, err := entry.NRGBA()
		if err != nil {
			fmt.Fprintf(os.Stdout, "%s %2d: %-12s %s (invalid)\n", marker, idx, "", entry)
			continue
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", rgba.R, rgba.G, rgba.B)
		fmt.Fprintf(os.Stdout, "%s %2d: %-12s %s %s\n", marker, idx, colorName(rgba), entry, block)
	}
	fmt.Fprintf(os.Stdout, "  eraser: %s\n", toolbar.EraseColor)
	return nil
}

// colorName returns the first CSS name for c in alphabetical order.
func colorName(c color.NRGBA) string {
	var names []string
	for name, v := range colornames.Map {
		if color.NRGBAModel.Convert(v) == c {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}

type widthsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	fs := flag.NewFlagSet("widths", flag.ExitOnError)
	cmd := &widthsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *widthsCmd) Run() error {
	def, min, max, step := toolbar.DefaultStrokeWidth, toolbar.DefaultMinWidth, toolbar.DefaultMaxWidth, toolbar.DefaultWidthStep
	if cfg := configOf(c.root); cfg != nil {
		def, min, max, step = cfg.Widths.Default, cfg.Widths.Min, cfg.Widths.Max, cfg.Widths.Step
	}
	osc, err := toolbar.NewWidthOscillator(def, min, max, step)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "stroke widths from %dpx, each tap advances by %dpx and bounces between %dpx and %dpx:\n", def, step, min, max)
	// direction the next tap moves in, after any turn at a bound
	heading := func() int {
		s, w := osc.Step(), osc.Width()
		if (w >= max && s > 0) || (w <= min && s < 0) {
			return -s
		}
		return s
	}
	start := heading()
	seq := []int{def}
	limit := 2 * ((max-min)/step + 1)
	for i := 0; i < limit; i++ {
		w := osc.Advance()
		if w == def && heading() == start {
			break
		}
		seq = append(seq, w)
	}
	for i, w := range seq {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %3dpx\n", marker, w)
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *widthsCmd) Template() string {
	return "widths.txt"
}

type alphasCmd struct {
	*root
	fs *flag.FlagSet
}

func parseAlphasCmd(args []string, r *root) (*alphasCmd, error) {
	fs := flag.NewFlagSet("alphas", flag.ExitOnError)
	cmd := &alphasCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *alphasCmd) Run() error {
	levels := toolbar.DefaultAlphaLevels
	if cfg := configOf(c.root); cfg != nil {
		levels = cfg.Alphas
	}
	cycler, err := toolbar.NewAlphaCycler(levels)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "alpha levels, re-tapping a color cycles through them (* marks the starting level):")
	for _, l := range cycler.Levels() {
		marker := " "
		if l == cycler.MostOpaque() {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", marker, l)
	}
	return nil
}

func (c *alphasCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *alphasCmd) Template() string {
	return "alphas.txt"
}
