// Package canvas is a raster implementation of toolbar.Canvas. Strokes and
// shapes are kept as vector data and rasterised on demand onto an
// *image.RGBA, optionally over a local background image and text overlays.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/example/sketchbar/internal/toolbar"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Canvas holds the drawing state. All methods are safe for concurrent use.
// Events are delivered after the internal lock is released, so a receiver
// may call straight back into the canvas.
type Canvas struct {
	mu      sync.Mutex
	size    image.Point
	bg      color.RGBA
	drawer  string
	events  toolbar.Events
	gallery func(path string, err error)
	wg      sync.WaitGroup

	paths  []toolbar.Path
	nextID int

	shapes    []*shape
	selected  *shape
	shapeSeq  int
	shapeConf toolbar.ShapeConfiguration

	stroke       *toolbar.Path
	strokeColor  toolbar.Color
	strokeWidth  int
	touchEnabled bool

	text       []toolbar.CanvasText
	source     *toolbar.LocalSourceImage
	sourceImg  image.Image
	sourceRect image.Rectangle
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithSize sets the canvas size in pixels.
func WithSize(w, h int) Option { return func(c *Canvas) { c.size = image.Pt(w, h) } }

// WithBackground sets the color painted under the sketch when exporting
// without transparency.
func WithBackground(col color.RGBA) Option { return func(c *Canvas) { c.bg = col } }

// WithEvents sets the receiver for canvas events.
func WithEvents(ev toolbar.Events) Option { return func(c *Canvas) { c.events = ev } }

// WithDrawer sets the Drawer recorded on paths created by this canvas.
func WithDrawer(name string) Option { return func(c *Canvas) { c.drawer = name } }

// WithGalleryListener is called after each copy-to-gallery attempt.
func WithGalleryListener(fn func(path string, err error)) Option {
	return func(c *Canvas) { c.gallery = fn }
}

// New creates an empty canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		size:         image.Pt(DefaultWidth, DefaultHeight),
		bg:           color.RGBA{255, 255, 255, 255},
		nextID:       1,
		shapeConf:    toolbar.DefaultShapeConfiguration(),
		strokeColor:  toolbar.DefaultColors[0] + "FF",
		strokeWidth:  toolbar.DefaultStrokeWidth,
		touchEnabled: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.size.X <= 0 || c.size.Y <= 0 {
		c.size = image.Pt(DefaultWidth, DefaultHeight)
	}
	return c
}

var _ toolbar.Canvas = (*Canvas)(nil)

// SetEvents replaces the event receiver. The controller is usually created
// after the canvas, so it is attached here.
func (c *Canvas) SetEvents(ev toolbar.Events) {
	c.mu.Lock()
	c.events = ev
	c.mu.Unlock()
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Resize changes the canvas size. Existing paths keep the size they were
// drawn at and are scaled when rendered.
func (c *Canvas) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.mu.Lock()
	c.size = image.Pt(w, h)
	c.sourceImg, c.sourceRect = nil, image.Rectangle{}
	src := c.source
	c.mu.Unlock()
	if src != nil {
		c.loadSource(src)
	}
}

// Apply pushes the render-step props produced by toolbar.Controller.Sync.
// A nil LocalSourceImage leaves the current background in place.
func (c *Canvas) Apply(p toolbar.Props) {
	c.mu.Lock()
	c.strokeColor = p.StrokeColor
	c.strokeWidth = p.StrokeWidth
	c.touchEnabled = p.TouchEnabled
	c.shapeConf = p.ShapeConfiguration
	c.text = append([]toolbar.CanvasText(nil), p.Text...)
	reload := p.LocalSourceImage != nil && !sameSource(c.source, p.LocalSourceImage)
	c.mu.Unlock()
	if reload {
		c.loadSource(p.LocalSourceImage)
	}
}

func sameSource(a, b *toolbar.LocalSourceImage) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// emitter collects events raised while the lock is held.
type emitter []func(toolbar.Events)

func (e *emitter) add(fn func(toolbar.Events)) { *e = append(*e, fn) }

func (c *Canvas) flush(ev toolbar.Events, pending emitter) {
	if ev == nil {
		return
	}
	for _, fn := range pending {
		fn(ev)
	}
}

func (c *Canvas) drawingStateLocked() toolbar.DrawingState {
	st := toolbar.DrawingState{
		CanUndo:     len(c.paths) > 0 || len(c.shapes) > 0,
		CanDelete:   c.selected != nil,
		DrawingStep: len(c.paths) + len(c.shapes),
	}
	if c.selected != nil {
		st.ShapeType = c.selected.kind
	}
	return st
}

// AddPath adds a finished stroke. A path without an ID is given the next
// free one. A path whose ID is already present is ignored.
func (c *Canvas) AddPath(p toolbar.Path) {
	var pending emitter
	c.mu.Lock()
	if c.addPathLocked(&p, &pending) {
		n := len(c.paths)
		st := c.drawingStateLocked()
		pending.add(func(ev toolbar.Events) { ev.PathsChanged(n) })
		pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	}
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

func (c *Canvas) addPathLocked(p *toolbar.Path, pending *emitter) bool {
	if p.Path.ID == 0 {
		p.Path.ID = c.nextID
		pending.add(func(ev toolbar.Events) { ev.PathIDAssigned() })
	}
	for _, existing := range c.paths {
		if existing.Path.ID == p.Path.ID {
			return false
		}
	}
	if p.Path.ID >= c.nextID {
		c.nextID = p.Path.ID + 1
	}
	if p.Size == (toolbar.Size{}) {
		p.Size = toolbar.Size{Width: float64(c.size.X), Height: float64(c.size.Y)}
	}
	p.Path.Data = append([]string(nil), p.Path.Data...)
	c.paths = append(c.paths, *p)
	return true
}

// DeletePath removes the path with the given ID.
func (c *Canvas) DeletePath(id int) {
	var pending emitter
	c.mu.Lock()
	for i, p := range c.paths {
		if p.Path.ID == id {
			c.paths = append(c.paths[:i], c.paths[i+1:]...)
			n := len(c.paths)
			st := c.drawingStateLocked()
			pending.add(func(ev toolbar.Events) { ev.PathsChanged(n) })
			pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
			break
		}
	}
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

// Paths returns a copy of the current paths in drawing order.
func (c *Canvas) Paths() []toolbar.Path {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]toolbar.Path, len(c.paths))
	for i, p := range c.paths {
		p.Path.Data = append([]string(nil), p.Path.Data...)
		out[i] = p
	}
	return out
}

// Undo removes the most recent path and returns its ID, or
// toolbar.NothingToUndo when there are no paths.
func (c *Canvas) Undo() int {
	var pending emitter
	c.mu.Lock()
	if len(c.paths) == 0 {
		c.mu.Unlock()
		return toolbar.NothingToUndo
	}
	last := c.paths[len(c.paths)-1]
	c.paths = c.paths[:len(c.paths)-1]
	n := len(c.paths)
	st := c.drawingStateLocked()
	pending.add(func(ev toolbar.Events) { ev.PathsChanged(n) })
	pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
	return last.Path.ID
}

// Clear removes every path and shape.
func (c *Canvas) Clear() {
	var pending emitter
	c.mu.Lock()
	hadSelection := c.selected != nil
	c.paths = nil
	c.shapes = nil
	c.selected = nil
	c.stroke = nil
	st := c.drawingStateLocked()
	pending.add(func(ev toolbar.Events) { ev.PathsChanged(0) })
	if hadSelection {
		pending.add(func(ev toolbar.Events) { ev.ShapeSelectionChanged(false) })
	}
	pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

// BeginStroke starts a freehand stroke at p with the current stroke color
// and width. It reports false when touch drawing is disabled.
func (c *Canvas) BeginStroke(p toolbar.Point) bool {
	var pending emitter
	c.mu.Lock()
	if !c.touchEnabled {
		c.mu.Unlock()
		return false
	}
	c.stroke = &toolbar.Path{
		Drawer: c.drawer,
		Size:   toolbar.Size{Width: float64(c.size.X), Height: float64(c.size.Y)},
		Path: toolbar.PathData{
			Color: c.strokeColor,
			Width: c.strokeWidth,
			Data:  []string{formatPoint(p)},
		},
	}
	pending.add(func(ev toolbar.Events) { ev.StrokeStarted() })
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
	return true
}

// ExtendStroke appends p to the stroke in progress.
func (c *Canvas) ExtendStroke(p toolbar.Point) {
	var pending emitter
	c.mu.Lock()
	if c.stroke == nil {
		c.mu.Unlock()
		return
	}
	c.stroke.Path.Data = append(c.stroke.Path.Data, formatPoint(p))
	snapshot := *c.stroke
	snapshot.Path.Data = append([]string(nil), c.stroke.Path.Data...)
	pending.add(func(ev toolbar.Events) { ev.StrokeChanged() })
	pending.add(func(ev toolbar.Events) { ev.StrokeChangedData(snapshot) })
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

// EndStroke commits the stroke in progress and returns it with its
// assigned ID. ok is false when no stroke was active.
func (c *Canvas) EndStroke() (path toolbar.Path, ok bool) {
	var pending emitter
	c.mu.Lock()
	if c.stroke == nil {
		c.mu.Unlock()
		return toolbar.Path{}, false
	}
	p := *c.stroke
	c.stroke = nil
	c.addPathLocked(&p, &pending)
	n := len(c.paths)
	st := c.drawingStateLocked()
	pending.add(func(ev toolbar.Events) { ev.StrokeEnded(p, "end") })
	pending.add(func(ev toolbar.Events) { ev.PathsChanged(n) })
	pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
	return p, true
}

func formatPoint(p toolbar.Point) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
}

// ParsePoint parses one "x,y" entry of PathData.Data.
func ParsePoint(s string) (toolbar.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return toolbar.Point{}, fmt.Errorf("point %q: missing comma", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return toolbar.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return toolbar.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return toolbar.Point{X: x, Y: y}, nil
}
