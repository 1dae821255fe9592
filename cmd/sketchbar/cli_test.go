package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sketchbar/internal/config"
	"github.com/example/sketchbar/internal/toolbar"
)

func testFlags() sketchFlags {
	return sketchFlags{width: 50, height: 40, mode: string(toolbar.ModeAspectFit), touch: true}
}

func TestParseRenderRequiresOutput(t *testing.T) {
	_, err := parseRenderCmd([]string{"-e", "width"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file or -to-clipboard is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseRenderInfersImageType(t *testing.T) {
	cmd, err := parseRenderCmd([]string{"-output", "out.JPG"}, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.imageType != string(toolbar.ImageJPG) {
		t.Fatalf("imageType = %q", cmd.imageType)
	}
	if _, err := parseRenderCmd([]string{"-output", "out.png", "-type", "gif"}, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestParseRenderRejectsClipboardWithBackground(t *testing.T) {
	_, err := parseRenderCmd([]string{"-output", "o.png", "-from-clipboard", "-background", "bg.png"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	} else if want := "-from-clipboard cannot be combined"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestRenderWritesStroke(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sketch.png")
	cmd, err := parseRenderCmd([]string{"-width", "40", "-height", "40", "-output", out, "-e", "stroke 1,1 30,30"}, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := color.RGBAModel.Convert(img.At(15, 15)).(color.RGBA); got != (color.RGBA{A: 255}) {
		t.Fatalf("stroke pixel = %v", got)
	}
	if got := color.RGBAModel.Convert(img.At(35, 2)).(color.RGBA); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("background pixel = %v", got)
	}
}

func TestRenderCommandErrorNamesCommand(t *testing.T) {
	cmd, err := parseRenderCmd([]string{"-to-clipboard", "-e", "bogus"}, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	err = cmd.Run()
	if !errors.Is(err, errUnknownCommand) {
		t.Fatalf("expected errUnknownCommand, got %v", err)
	}
	if !strings.Contains(err.Error(), `"bogus"`) {
		t.Fatalf("expected error to name the command, got %v", err)
	}
}

func TestRenderClipboardRoundTrip(t *testing.T) {
	origRead, origWrite := readClipboardImage, writeClipboardImage
	t.Cleanup(func() { readClipboardImage, writeClipboardImage = origRead, origWrite })

	bg := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for i := range bg.Pix {
		bg.Pix[i] = 0x80
	}
	readClipboardImage = func() (image.Image, error) { return bg, nil }
	var copied image.Image
	writeClipboardImage = func(img image.Image) error {
		copied = img
		return nil
	}

	cmd, err := parseRenderCmd([]string{"-width", "20", "-height", "20", "-mode", "ScaleToFill", "-from-clipboard", "-to-clipboard"}, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if copied == nil {
		t.Fatalf("nothing copied to the clipboard")
	}
	if got := color.RGBAModel.Convert(copied.At(10, 10)).(color.RGBA); got.R == 255 {
		t.Fatalf("clipboard background not used: %v", got)
	}
}

func TestRenderClipboardReadError(t *testing.T) {
	orig := readClipboardImage
	sentinel := errors.New("empty")
	readClipboardImage = func() (image.Image, error) { return nil, sentinel }
	t.Cleanup(func() { readClipboardImage = orig })

	cmd, err := parseRenderCmd([]string{"-output", filepath.Join(t.TempDir(), "o.png"), "-from-clipboard"}, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSessionCommands(t *testing.T) {
	var out bytes.Buffer
	s, err := newSession(nil, testFlags(), &out)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	steps := []struct {
		line string
		want string
	}{
		{"color 2", "color " + string(toolbar.DefaultColors[2]) + " alpha FF"},
		{"color 2", "alpha AA"},
		{"width", "width 6"},
		{"stroke 1,1 10,10", "path 1"},
		{"undo", "undo 1"},
		{"undo", "undo 0"},
	}
	for _, st := range steps {
		out.Reset()
		if _, err := s.executeLine(st.line); err != nil {
			t.Fatalf("%q: %v", st.line, err)
		}
		if !strings.Contains(out.String(), st.want) {
			t.Fatalf("%q printed %q, want %q", st.line, out.String(), st.want)
		}
	}

	if _, err := s.executeLine("shape rect"); err != nil {
		t.Fatalf("shape: %v", err)
	}
	if _, err := s.executeLine("delete"); err == nil {
		t.Fatalf("delete should fail while touch drawing is on")
	}
	for _, line := range []string{"touch off", "delete"} {
		if _, err := s.executeLine(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	if n := len(s.canvas.Shapes()); n != 0 {
		t.Fatalf("%d shapes left after delete", n)
	}
	if _, err := s.executeLine("stroke 1,1 2,2"); err == nil {
		t.Fatalf("stroke should fail while touch drawing is off")
	}
	if _, err := s.executeLine("frobnicate"); !errors.Is(err, errUnknownCommand) {
		t.Fatalf("expected errUnknownCommand, got %v", err)
	}
	if done, err := s.executeLine("exit"); !done || err != nil {
		t.Fatalf("exit = %v, %v", done, err)
	}
}

func TestSessionSaveReportsPath(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.SaveDir = dir
	var out bytes.Buffer
	s, err := newSession(&root{program: "sketchbar", config: cfg}, testFlags(), &out)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if _, err := s.executeLine("save"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out.String(), "saved "+dir) {
		t.Fatalf("output %q does not report the save", out.String())
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	if len(matches) != 1 {
		t.Fatalf("expected one png in %s, got %v", dir, matches)
	}
}

func TestSessionBase64(t *testing.T) {
	var out bytes.Buffer
	s, err := newSession(nil, testFlags(), &out)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if _, err := s.executeLine("base64 png"); err != nil {
		t.Fatalf("base64: %v", err)
	}
	if !strings.HasPrefix(out.String(), "iVBOR") {
		t.Fatalf("expected base64 PNG, got %q", out.String())
	}
	if _, err := s.executeLine("base64 gif"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestSessionBase64ToClipboard(t *testing.T) {
	orig := writeClipboardText
	t.Cleanup(func() { writeClipboardText = orig })
	var copied string
	writeClipboardText = func(text string) error {
		copied = text
		return nil
	}
	var out bytes.Buffer
	s, err := newSession(nil, testFlags(), &out)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if _, err := s.executeLine("base64 jpg -clipboard"); err != nil {
		t.Fatalf("base64: %v", err)
	}
	if !strings.HasPrefix(copied, "/9j/") {
		t.Fatalf("expected base64 JPEG on clipboard, got %q", copied)
	}
	if strings.Contains(out.String(), copied) {
		t.Fatalf("clipboard export also printed the data")
	}
	if !strings.Contains(out.String(), "copied") {
		t.Fatalf("output %q does not report the copy", out.String())
	}

	sentinel := errors.New("no clipboard")
	writeClipboardText = func(string) error { return sentinel }
	if _, err := s.executeLine("base64 -clipboard"); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want %v", err, sentinel)
	}
}

func TestInteractiveReadsCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cli, err := parseInteractiveCmd([]string{"-width", "30", "-height", "30"}, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	cli.stdin = strings.NewReader("width\nnope\nexit\nwidth\n")
	cli.stdout, cli.stderr = &stdout, &stderr
	if err := cli.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Count(stdout.String(), "width "); got != 1 {
		t.Fatalf("expected one width line before exit, got %d in %q", got, stdout.String())
	}
	if !strings.Contains(stderr.String(), "unknown command: nope") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestConfigSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.rc")
	cfg := config.New()
	cfg.Theme = "dark"
	cmd, err := parseConfigCmd([]string{"-output", path, "save"}, &root{program: "sketchbar", config: cfg})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := config.Parse(f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Theme != "dark" {
		t.Fatalf("Theme = %q", got.Theme)
	}
}

func TestConfigPrint(t *testing.T) {
	var out bytes.Buffer
	cmd, err := parseConfigCmd([]string{"print"}, nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	cmd.stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "[palette]") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRootUnknownCommandIsUsageError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKETCHBAR_THEME", "")
	r := newRoot()
	err := r.Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: sketchbar", "render", "-theme"} {
		if !strings.Contains(help, want) {
			t.Errorf("help does not mention %q:\n%s", want, help)
		}
	}
}

func TestSubcommandHelpRenders(t *testing.T) {
	r := &root{program: "sketchbar", fs: flag.NewFlagSet("sketchbar", flag.ContinueOnError)}
	cmd, err := parseRenderCmd([]string{"-output", "x.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	help := (&UsageError{of: cmd}).Error()
	if !strings.Contains(help, "Usage: sketchbar render") || !strings.Contains(help, "-to-clipboard") {
		t.Fatalf("unexpected help:\n%s", help)
	}
}
