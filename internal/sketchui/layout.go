// Package sketchui is a shiny window around a canvas.Canvas: a toolbar of
// actions along the top, shape buttons down the left, the color swatches
// along the bottom and the drawing area in between.
package sketchui

import (
	"image"

	"github.com/example/sketchbar/internal/toolbar"
)

const (
	barHeight    = 28
	swatchHeight = 28
	sideWidth    = 72
	buttonPad    = 4
	swatchSize   = 20
)

// Action is a toolbar entry point.
type Action int

const (
	ActionNone Action = iota
	ActionSwatch
	ActionErase
	ActionWidth
	ActionUndo
	ActionUndoShape
	ActionClear
	ActionDeleteShape
	ActionSave
	ActionClose
	ActionAddShape
	ActionToggleTouch
	ActionFontBigger
	ActionFontSmaller
	ActionCanvas
)

// Hit is the result of hit-testing a window position.
type Hit struct {
	Action Action
	// Index is the swatch index for ActionSwatch.
	Index int
	// Shape is the shape type for ActionAddShape.
	Shape toolbar.ShapeType
}

// Region is a labelled toolbar rectangle.
type Region struct {
	Label string
	Rect  image.Rectangle
	Hit   Hit
}

// Layout positions every control for one window size.
type Layout struct {
	Size     image.Point
	Buttons  []Region
	Shapes   []Region
	Swatches []Region
	Erase    Region
	Canvas   image.Rectangle
}

var topButtons = []struct {
	label  string
	action Action
}{
	{"Close", ActionClose},
	{"Undo", ActionUndo},
	{"Undo shape", ActionUndoShape},
	{"Clear", ActionClear},
	{"Delete", ActionDeleteShape},
	{"Width", ActionWidth},
	{"Touch", ActionToggleTouch},
	{"A+", ActionFontBigger},
	{"A-", ActionFontSmaller},
	{"Save", ActionSave},
}

// NewLayout lays out a window of the given size with n swatches.
func NewLayout(width, height, swatches int, shapes []toolbar.ShapeType) Layout {
	l := Layout{Size: image.Pt(width, height)}

	x := buttonPad
	for _, b := range topButtons {
		w := labelWidth(b.label) + 2*buttonPad
		l.Buttons = append(l.Buttons, Region{
			Label: b.label,
			Rect:  image.Rect(x, buttonPad, x+w, barHeight-buttonPad),
			Hit:   Hit{Action: b.action},
		})
		x += w + buttonPad
	}

	y := barHeight + buttonPad
	for _, s := range shapes {
		l.Shapes = append(l.Shapes, Region{
			Label: shapeLabel(s),
			Rect:  image.Rect(buttonPad, y, sideWidth-buttonPad, y+barHeight-2*buttonPad),
			Hit:   Hit{Action: ActionAddShape, Shape: s},
		})
		y += barHeight - buttonPad
	}

	top := height - swatchHeight + (swatchHeight-swatchSize)/2
	x = buttonPad
	for i := 0; i < swatches; i++ {
		l.Swatches = append(l.Swatches, Region{
			Rect: image.Rect(x, top, x+swatchSize, top+swatchSize),
			Hit:  Hit{Action: ActionSwatch, Index: i},
		})
		x += swatchSize + buttonPad
	}
	l.Erase = Region{
		Label: "Erase",
		Rect:  image.Rect(x+buttonPad, top, x+buttonPad+labelWidth("Erase")+2*buttonPad, top+swatchSize),
		Hit:   Hit{Action: ActionErase},
	}

	l.Canvas = image.Rect(sideWidth, barHeight, width, height-swatchHeight)
	if l.Canvas.Empty() {
		l.Canvas = image.Rectangle{}
	}
	return l
}

// HitTest maps a window position to the control under it.
func (l Layout) HitTest(p image.Point) Hit {
	for _, group := range [][]Region{l.Buttons, l.Shapes, l.Swatches, {l.Erase}} {
		for _, r := range group {
			if p.In(r.Rect) {
				return r.Hit
			}
		}
	}
	if p.In(l.Canvas) {
		return Hit{Action: ActionCanvas}
	}
	return Hit{}
}

// ToCanvas converts a window position into canvas coordinates.
func (l Layout) ToCanvas(p image.Point) toolbar.Point {
	q := p.Sub(l.Canvas.Min)
	return toolbar.Point{X: float64(q.X), Y: float64(q.Y)}
}

func shapeLabel(s toolbar.ShapeType) string {
	if s == toolbar.ShapeMeasurementTool {
		return "Measure"
	}
	return string(s)
}
