package canvas

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/google/uuid"

	"github.com/example/sketchbar/internal/toolbar"
)

const (
	minFontSize  = 4
	maxFontSize  = 200
	fontSizeStep = 2
	hitSlop      = 4
)

// shape is a structured primitive placed with AddShape.
type shape struct {
	id       uuid.UUID
	seq      int
	kind     toolbar.ShapeType
	rect     image.Rectangle
	color    toolbar.Color
	stroke   int
	text     string
	font     string
	fontSize float64
	asset    image.Image
}

// Shape describes a placed shape.
type Shape struct {
	ID       uuid.UUID
	Type     toolbar.ShapeType
	Bounds   image.Rectangle
	Text     string
	FontSize float64
	Selected bool
}

func (s *shape) snapshot(selected bool) Shape {
	return Shape{ID: s.id, Type: s.kind, Bounds: s.rect, Text: s.text, FontSize: s.fontSize, Selected: selected}
}

// Shapes returns the shapes in stacking order, bottom first.
func (c *Canvas) Shapes() []Shape {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Shape, len(c.shapes))
	for i, s := range c.shapes {
		out[i] = s.snapshot(s == c.selected)
	}
	return out
}

// AddShape places a new shape at the centre of the canvas and selects it.
func (c *Canvas) AddShape(cfg toolbar.AddShapeConfig) {
	s := &shape{
		id:       uuid.New(),
		kind:     cfg.ShapeType,
		text:     cfg.Text,
		font:     cfg.FontType,
		fontSize: cfg.FontSize,
	}
	if cfg.ShapeType == toolbar.ShapeImage && cfg.ImageAsset != "" {
		img, err := decodeFile(cfg.ImageAsset)
		if err != nil {
			log.Printf("shape image %s: %v", cfg.ImageAsset, err)
		} else {
			s.asset = img
		}
	}

	var pending emitter
	c.mu.Lock()
	s.color = c.shapeConf.Color
	s.stroke = c.shapeConf.StrokeWidth
	c.shapeSeq++
	s.seq = c.shapeSeq
	if s.kind == toolbar.ShapeText {
		if s.text == "" {
			s.text = "Text"
		}
		if s.fontSize <= 0 {
			s.fontSize = DefaultFontSize
		}
	}
	size := c.defaultShapeSize(s)
	origin := image.Pt((c.size.X-size.X)/2, (c.size.Y-size.Y)/2)
	s.rect = image.Rectangle{Min: origin, Max: origin.Add(size)}
	c.shapes = append(c.shapes, s)
	c.selected = s
	st := c.drawingStateLocked()
	pending.add(func(ev toolbar.Events) { ev.ShapeSelectionChanged(true) })
	pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

func (c *Canvas) defaultShapeSize(s *shape) image.Point {
	switch s.kind {
	case toolbar.ShapeText:
		w, h, err := MeasureText(s.text, s.font, s.fontSize)
		if err != nil {
			return image.Pt(120, 40)
		}
		return image.Pt(w, h)
	case toolbar.ShapeImage:
		if s.asset == nil {
			return image.Pt(120, 120)
		}
		return fitInside(s.asset.Bounds().Size(), image.Pt(c.size.X/2, c.size.Y/2))
	case toolbar.ShapeCircle, toolbar.ShapeSquare:
		return image.Pt(100, 100)
	case toolbar.ShapeArrow:
		return image.Pt(160, 1)
	case toolbar.ShapeRuler, toolbar.ShapeMeasurementTool:
		return image.Pt(200, 30)
	default:
		return image.Pt(160, 100)
	}
}

// fitInside scales size down to fit within limit keeping its aspect ratio.
func fitInside(size, limit image.Point) image.Point {
	if size.X <= limit.X && size.Y <= limit.Y {
		return size
	}
	scale := math.Min(float64(limit.X)/float64(size.X), float64(limit.Y)/float64(size.Y))
	return image.Pt(int(float64(size.X)*scale), int(float64(size.Y)*scale))
}

// SelectAt selects the topmost shape under p, or clears the selection when
// there is none. It reports whether a shape is selected afterwards.
func (c *Canvas) SelectAt(p toolbar.Point) bool {
	pt := image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	var hit *shape
	c.mu.Lock()
	for i := len(c.shapes) - 1; i >= 0; i-- {
		if pt.In(c.shapes[i].rect.Inset(-hitSlop)) {
			hit = c.shapes[i]
			break
		}
	}
	c.mu.Unlock()
	if hit == nil {
		c.UnselectShape()
		return false
	}
	c.selectShape(hit)
	return true
}

func (c *Canvas) selectShape(s *shape) {
	var pending emitter
	c.mu.Lock()
	if c.selected != s {
		c.selected = s
		st := c.drawingStateLocked()
		pending.add(func(ev toolbar.Events) { ev.ShapeSelectionChanged(true) })
		pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	}
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

// MoveSelectedShape offsets the selected shape by (dx, dy).
func (c *Canvas) MoveSelectedShape(dx, dy int) {
	c.mu.Lock()
	if c.selected != nil {
		c.selected.rect = c.selected.rect.Add(image.Pt(dx, dy))
	}
	c.mu.Unlock()
}

// UnselectShape clears the selection.
func (c *Canvas) UnselectShape() {
	var pending emitter
	c.mu.Lock()
	if c.selected != nil {
		c.selected = nil
		st := c.drawingStateLocked()
		pending.add(func(ev toolbar.Events) { ev.ShapeSelectionChanged(false) })
		pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	}
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

// DeleteSelectedShape removes the selected shape, if any.
func (c *Canvas) DeleteSelectedShape() {
	var pending emitter
	c.mu.Lock()
	if c.selected != nil {
		c.removeShapeLocked(c.selected)
		c.selected = nil
		st := c.drawingStateLocked()
		pending.add(func(ev toolbar.Events) { ev.ShapeSelectionChanged(false) })
		pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	}
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
}

// UndoShape removes the most recently added shape and returns its sequence
// number, or toolbar.NothingToUndo when there are no shapes.
func (c *Canvas) UndoShape() int {
	var pending emitter
	c.mu.Lock()
	if len(c.shapes) == 0 {
		c.mu.Unlock()
		return toolbar.NothingToUndo
	}
	last := c.shapes[0]
	for _, s := range c.shapes {
		if s.seq > last.seq {
			last = s
		}
	}
	c.removeShapeLocked(last)
	if c.selected == last {
		c.selected = nil
		pending.add(func(ev toolbar.Events) { ev.ShapeSelectionChanged(false) })
	}
	st := c.drawingStateLocked()
	pending.add(func(ev toolbar.Events) { ev.DrawingStateChanged(st) })
	ev := c.events
	c.mu.Unlock()
	c.flush(ev, pending)
	return last.seq
}

func (c *Canvas) removeShapeLocked(target *shape) {
	for i, s := range c.shapes {
		if s == target {
			c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
			return
		}
	}
}

// IncreaseSelectedShapeFontSize grows the selected text shape.
func (c *Canvas) IncreaseSelectedShapeFontSize() { c.adjustFontSize(fontSizeStep) }

// DecreaseSelectedShapeFontSize shrinks the selected text shape.
func (c *Canvas) DecreaseSelectedShapeFontSize() { c.adjustFontSize(-fontSizeStep) }

func (c *Canvas) adjustFontSize(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.selected
	if s == nil || s.kind != toolbar.ShapeText {
		return
	}
	s.fontSize = math.Max(minFontSize, math.Min(maxFontSize, s.fontSize+delta))
	c.refitTextLocked(s)
}

// ChangeSelectedShapeText replaces the text of the selected text shape.
func (c *Canvas) ChangeSelectedShapeText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.selected
	if s == nil || s.kind != toolbar.ShapeText {
		return
	}
	s.text = text
	c.refitTextLocked(s)
}

func (c *Canvas) refitTextLocked(s *shape) {
	w, h, err := MeasureText(s.text, s.font, s.fontSize)
	if err != nil {
		log.Printf("measure text: %v", err)
		return
	}
	s.rect.Max = s.rect.Min.Add(image.Pt(w, h))
}

// drawShape rasterises s onto img.
func drawShape(img *image.RGBA, s *shape) {
	col, err := s.color.NRGBA()
	if err != nil {
		col = color.NRGBA{A: 255}
	}
	r := s.rect
	l := newLayer(img.Bounds())
	switch s.kind {
	case toolbar.ShapeCircle:
		drawEllipse(l, r, s.stroke)
	case toolbar.ShapeRect, toolbar.ShapeSquare:
		drawRect(l, r, s.stroke)
	case toolbar.ShapeTriangle:
		drawTriangle(l, r, s.stroke)
	case toolbar.ShapeArrow:
		y := (r.Min.Y + r.Max.Y) / 2
		drawArrow(l, r.Min.X, y, r.Max.X-1, y, s.stroke)
	case toolbar.ShapeRuler:
		drawRuler(l, r, s.stroke)
	case toolbar.ShapeMeasurementTool:
		y := (r.Min.Y + r.Max.Y) / 2
		drawLine(l, r.Min.X, y, r.Max.X-1, y, s.stroke)
		drawLine(l, r.Min.X, r.Min.Y, r.Min.X, r.Max.Y-1, s.stroke)
		drawLine(l, r.Max.X-1, r.Min.Y, r.Max.X-1, r.Max.Y-1, s.stroke)
		if b, err := layoutText(fmt.Sprintf("%d px", r.Dx()), "", 12, 1); err == nil {
			b.draw(img, image.Pt(r.Min.X+(r.Dx()-b.width)/2, r.Min.Y-b.height), col, toolbar.AlignLeft)
		}
	case toolbar.ShapeText:
		if b, err := layoutText(s.text, s.font, s.fontSize, 1); err == nil {
			b.draw(img, r.Min, col, toolbar.AlignLeft)
		}
	case toolbar.ShapeImage:
		if s.asset == nil {
			drawRect(l, r, 1)
			drawLine(l, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, 1)
			drawLine(l, r.Max.X-1, r.Min.Y, r.Min.X, r.Max.Y-1, 1)
			break
		}
		xdraw.CatmullRom.Scale(img, r, s.asset, s.asset.Bounds(), xdraw.Over, nil)
	}
	l.composite(img, col)
}

// drawSelection outlines the selected shape using the border settings.
func drawSelection(img *image.RGBA, s *shape, conf toolbar.ShapeConfiguration) {
	col, err := conf.BorderColor.NRGBA()
	if err != nil || col.A == 0 {
		col = color.NRGBA{0, 120, 215, 255}
	}
	thick := conf.BorderStrokeWidth
	if thick <= 0 {
		thick = 1
	}
	r := s.rect.Inset(-hitSlop)
	l := newLayer(img.Bounds())
	if conf.BorderStyle == toolbar.BorderSolid {
		drawRect(l, r, thick)
	} else {
		drawDashedRect(l, r, 4, thick)
	}
	l.composite(img, col)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
