package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/example/sketchbar/internal/canvas"
	"github.com/example/sketchbar/internal/config"
	"github.com/example/sketchbar/internal/toolbar"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// sketchFlags are the canvas flags shared by draw, render and interactive.
type sketchFlags struct {
	width      int
	height     int
	background string
	mode       string
	touch      bool
}

func (f *sketchFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	touch := true
	if cfg != nil {
		touch = cfg.TouchEnabled
	}
	fs.IntVar(&f.width, "width", canvas.DefaultWidth, "canvas width in pixels")
	fs.IntVar(&f.height, "height", canvas.DefaultHeight, "canvas height in pixels")
	fs.StringVar(&f.background, "background", "", "background image file")
	fs.StringVar(&f.mode, "mode", string(toolbar.ModeAspectFit), "background fit: AspectFill, AspectFit or ScaleToFill")
	fs.BoolVar(&f.touch, "touch", touch, "start with freehand drawing enabled")
}

func (f *sketchFlags) validate() error {
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", f.width, f.height)
	}
	switch toolbar.ImageMode(f.mode) {
	case toolbar.ModeAspectFill, toolbar.ModeAspectFit, toolbar.ModeScaleToFill:
	default:
		return fmt.Errorf("unknown background mode %q", f.mode)
	}
	return nil
}

func (f *sketchFlags) source() *toolbar.LocalSourceImage {
	if f.background == "" {
		return nil
	}
	return &toolbar.LocalSourceImage{
		Filename:  filepath.Base(f.background),
		Directory: filepath.Dir(f.background),
		Mode:      toolbar.ImageMode(f.mode),
	}
}

// session owns one canvas and the controller driving it.
type session struct {
	r      *root
	canvas *canvas.Canvas
	ctrl   *toolbar.Controller
	out    io.Writer

	mu       sync.Mutex
	status   func(string)
	prompted bool
	captions []toolbar.CanvasText
}

func newSession(r *root, f sketchFlags, out io.Writer) (*session, error) {
	s := &session{r: r, out: out}
	s.canvas = canvas.New(
		canvas.WithSize(f.width, f.height),
		canvas.WithDrawer("sketchbar"),
		canvas.WithGalleryListener(s.galleryCopied),
	)

	cfg := config.New()
	if r != nil && r.config != nil {
		cfg = r.config
	}
	opts := cfg.ToolbarOptions()
	opts = append(opts,
		toolbar.WithTouchEnabled(f.touch),
		toolbar.WithLocalSourceImage(f.source()),
		toolbar.WithHandlers(toolbar.Handlers{
			OnSketchSaved: s.sketchSaved,
			OnClear:       func() { s.report("cleared") },
		}),
	)
	ctrl, err := toolbar.New(s.canvas, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure toolbar: %w", err)
	}
	s.ctrl = ctrl
	s.canvas.SetEvents(ctrl)
	s.sync()
	return s, nil
}

func (s *session) sync() {
	s.canvas.Apply(s.ctrl.Sync())
}

func (s *session) setStatus(fn func(string)) {
	s.mu.Lock()
	s.status = fn
	s.mu.Unlock()
}

func (s *session) report(msg string) {
	s.mu.Lock()
	fn := s.status
	s.mu.Unlock()
	if fn != nil {
		fn(msg)
		return
	}
	fmt.Fprintln(s.out, msg)
}

func (s *session) sketchSaved(success bool, path string) {
	if success {
		s.report("saved " + path)
	} else {
		s.report("failed to save " + path)
	}
	s.r.notifySaved(success, path)
}

func (s *session) galleryCopied(path string, err error) {
	if err != nil {
		s.report(fmt.Sprintf("copy %s to clipboard: %v", filepath.Base(path), err))
		return
	}
	s.report("copied " + filepath.Base(path) + " to clipboard")
	s.r.notifyCopy(filepath.Base(path))
}

// save resolves the save preference and writes the sketch, showing the
// configured permission prompt the first time.
func (s *session) save() error {
	s.mu.Lock()
	first := !s.prompted
	s.prompted = true
	s.mu.Unlock()
	if p := s.ctrl.PermissionPrompt(); first && p.Title != "" {
		s.report(p.Title + ": " + p.Message)
	}
	if _, err := s.ctrl.SaveTapped(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

var errUnknownCommand = errors.New("unknown command")

// executeLine runs one interactive command. done reports that the session
// should end.
func (s *session) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	defer s.sync()
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "close":
		s.ctrl.CloseTapped()
		return true, nil
	case "help":
		fmt.Fprint(s.out, sessionHelp)
	case "color", "colour":
		if len(rest) != 1 {
			return false, fmt.Errorf("color requires an index, name or hex value")
		}
		if idx, convErr := strconv.Atoi(rest[0]); convErr == nil {
			err = s.ctrl.SwatchIndexTapped(idx)
		} else {
			var c toolbar.Color
			if c, err = toolbar.ParseColor(rest[0]); err == nil {
				err = s.ctrl.SwatchTapped(c)
			}
		}
		if err != nil {
			return false, err
		}
		st := s.ctrl.State()
		fmt.Fprintf(s.out, "color %s alpha %s\n", st.Color, st.Alpha)
	case "erase":
		s.ctrl.EraseTapped()
	case "width":
		fmt.Fprintf(s.out, "width %d\n", s.ctrl.WidthTapped())
	case "undo":
		fmt.Fprintf(s.out, "undo %d\n", s.ctrl.UndoTapped())
	case "undo-shape":
		fmt.Fprintf(s.out, "undo-shape %d\n", s.ctrl.UndoShapeTapped())
	case "clear":
		s.ctrl.ClearTapped()
	case "stroke":
		return false, s.stroke(rest)
	case "shape":
		return false, s.addShape(rest)
	case "select":
		pts, err := parseFloats(rest, 2, "select")
		if err != nil {
			return false, err
		}
		if !s.canvas.SelectAt(toolbar.Point{X: pts[0], Y: pts[1]}) {
			fmt.Fprintln(s.out, "no shape selected")
		}
	case "unselect":
		s.ctrl.UnselectShape()
	case "move":
		d, err := parseFloats(rest, 2, "move")
		if err != nil {
			return false, err
		}
		s.canvas.MoveSelectedShape(int(d[0]), int(d[1]))
	case "delete":
		if !s.ctrl.DeleteSelectedShapeTapped() {
			return false, fmt.Errorf("delete requires touch drawing to be off")
		}
	case "touch":
		if len(rest) != 1 || (rest[0] != "on" && rest[0] != "off") {
			return false, fmt.Errorf("touch requires on or off")
		}
		s.ctrl.SetTouchEnabled(rest[0] == "on")
	case "font":
		if len(rest) != 1 {
			return false, fmt.Errorf("font requires + or -")
		}
		switch rest[0] {
		case "+":
			s.ctrl.IncreaseSelectedShapeFontSize()
		case "-":
			s.ctrl.DecreaseSelectedShapeFontSize()
		default:
			return false, fmt.Errorf("font requires + or -")
		}
	case "text":
		if len(rest) == 0 {
			return false, fmt.Errorf("text requires content")
		}
		s.ctrl.ChangeSelectedShapeText(strings.Join(rest, " "))
	case "caption":
		return false, s.caption(rest)
	case "background":
		if len(rest) < 1 || len(rest) > 2 {
			return false, fmt.Errorf("background requires a file and optional mode")
		}
		mode := toolbar.ModeAspectFit
		if len(rest) == 2 {
			mode = toolbar.ImageMode(rest[1])
		}
		s.ctrl.SetLocalSourceImage(&toolbar.LocalSourceImage{
			Filename:  filepath.Base(rest[0]),
			Directory: filepath.Dir(rest[0]),
			Mode:      mode,
		})
	case "save":
		if err := s.save(); err != nil {
			return false, err
		}
		s.canvas.Wait()
	case "base64":
		return false, s.base64(rest)
	case "state":
		st := s.ctrl.State()
		fmt.Fprintf(s.out, "color %s alpha %s width %d touch-delete %v paths %d shapes %d\n",
			st.Color, st.Alpha, st.Width, s.ctrl.DeleteEnabled(), len(s.ctrl.Paths()), len(s.canvas.Shapes()))
	case "paths":
		for _, p := range s.ctrl.Paths() {
			fmt.Fprintf(s.out, "%d %s w%d %d points\n", p.Path.ID, p.Path.Color, p.Path.Width, len(p.Path.Data))
		}
	default:
		return false, fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
	return false, nil
}

// stroke draws a freehand path through "x,y" points.
func (s *session) stroke(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("stroke requires at least two x,y points")
	}
	pts := make([]toolbar.Point, 0, len(args))
	for _, a := range args {
		p, err := canvas.ParsePoint(a)
		if err != nil {
			return err
		}
		pts = append(pts, p)
	}
	s.sync()
	if !s.canvas.BeginStroke(pts[0]) {
		return fmt.Errorf("touch drawing is off")
	}
	for _, p := range pts[1:] {
		s.canvas.ExtendStroke(p)
	}
	path, ok := s.canvas.EndStroke()
	if ok {
		fmt.Fprintf(s.out, "path %d\n", path.Path.ID)
	}
	return nil
}

func (s *session) addShape(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("shape requires a type")
	}
	var shape toolbar.ShapeType
	for _, t := range toolbar.ShapeTypes() {
		if strings.EqualFold(string(t), args[0]) {
			shape = t
		}
	}
	if shape == "" {
		return fmt.Errorf("unknown shape %q", args[0])
	}
	cfg := toolbar.AddShapeConfig{ShapeType: shape}
	switch shape {
	case toolbar.ShapeText:
		cfg.Text = strings.Join(args[1:], " ")
	case toolbar.ShapeImage:
		if len(args) != 2 {
			return fmt.Errorf("image shape requires a file")
		}
		cfg.ImageAsset = args[1]
	}
	s.ctrl.AddShape(cfg)
	return nil
}

// caption adds a text overlay: caption x y text...
func (s *session) caption(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("caption requires x y and text")
	}
	pos, err := parseFloats(args[:2], 2, "caption")
	if err != nil {
		return err
	}
	col := s.ctrl.State().Color
	if col == toolbar.EraseColor {
		col = toolbar.DefaultColors[toolbar.DefaultColorIndex]
	}
	s.captions = append(s.captions, toolbar.CanvasText{
		Text:      strings.Join(args[2:], " "),
		FontSize:  canvas.DefaultFontSize,
		FontColor: col,
		Overlay:   toolbar.TextOnSketch,
		Position:  toolbar.Point{X: pos[0], Y: pos[1]},
	})
	s.ctrl.SetText(s.captions)
	return nil
}

// base64 prints the sketch as base64, or places it on the clipboard when
// -clipboard is given.
func (s *session) base64(args []string) error {
	t := toolbar.ImagePNG
	toClipboard := false
	for _, a := range args {
		switch v := strings.ToLower(a); v {
		case "-clipboard", "--clipboard":
			toClipboard = true
		case string(toolbar.ImagePNG), string(toolbar.ImageJPG):
			t = toolbar.ImageType(v)
		default:
			return fmt.Errorf("unknown image type %q", a)
		}
	}
	var (
		result string
		rerr   error
	)
	s.ctrl.Base64(toolbar.Base64Request{ImageType: t, IncludeImage: true, IncludeText: true}, func(err error, out string) {
		result, rerr = out, err
	})
	s.canvas.Wait()
	if rerr != nil {
		return fmt.Errorf("base64: %w", rerr)
	}
	if toClipboard {
		if err := writeClipboardText(result); err != nil {
			return fmt.Errorf("copy base64 to clipboard: %w", err)
		}
		s.report(fmt.Sprintf("copied %d base64 characters to the clipboard", len(result)))
		return nil
	}
	fmt.Fprintln(s.out, result)
	return nil
}

func parseFloats(args []string, n int, name string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numbers", name, n)
	}
	vals := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", name, a)
		}
		vals[i] = v
	}
	return vals, nil
}

const sessionHelp = `commands:
  color <index|name|#hex>   select a palette color, re-select to cycle alpha
  erase                     switch to the eraser
  width                     advance the stroke width
  stroke x,y x,y ...        draw a freehand path
  undo | undo-shape         undo the last path or shape
  clear                     remove all paths
  shape <type> [text|file]  add a shape (Circle, Text, Image, Rect, Square, Triangle, Arrow, Ruler, MeasurementTool)
  select x y | move dx dy   select or move a shape
  unselect | delete         clear the selection or delete the selected shape
  touch on|off              toggle freehand drawing
  font + | font -           change the selected text size
  text <content>            replace the selected text
  caption x y <text>        add a text overlay
  background <file> [mode]  set the background image
  save | base64 [png|jpg] [-clipboard]   export the sketch
  state | paths             print the current state
  close | exit              end the session
`
