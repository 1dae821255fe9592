package sketchui

import (
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/sketchbar/internal/canvas"
	"github.com/example/sketchbar/internal/theme"
	"github.com/example/sketchbar/internal/toolbar"
)

const messageDuration = 2 * time.Second

// Window hosts a toolbar controller and its canvas.
type Window struct {
	ctrl   *toolbar.Controller
	canvas *canvas.Canvas
	theme  *theme.Theme
	title  string

	mu   sync.Mutex
	send func(any)
}

// Option configures a Window.
type Option func(*Window)

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(w *Window) { w.theme = t } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(w *Window) { w.title = title } }

// New creates a window for ctrl drawing on c.
func New(ctrl *toolbar.Controller, c *canvas.Canvas, opts ...Option) *Window {
	w := &Window{ctrl: ctrl, canvas: c, theme: theme.Default(), title: "Sketchbar"}
	for _, opt := range opts {
		opt(w)
	}
	if w.theme == nil {
		w.theme = theme.Default()
	}
	return w
}

type statusEvent struct{ text string }

type repaintEvent struct{}

// Status shows a transient message. It is safe to call from any goroutine,
// including canvas callbacks, and is a no-op before the window opens.
func (w *Window) Status(text string) {
	w.mu.Lock()
	send := w.send
	w.mu.Unlock()
	if send != nil {
		send(statusEvent{text: text})
	}
}

// Refresh schedules a repaint, for callers that change the canvas directly.
func (w *Window) Refresh() {
	w.mu.Lock()
	send := w.send
	w.mu.Unlock()
	if send != nil {
		send(repaintEvent{})
	}
}

func (w *Window) setSender(fn func(any)) {
	w.mu.Lock()
	w.send = fn
	w.mu.Unlock()
}

// Run executes the UI loop using shiny's driver.
func (w *Window) Run() { driver.Main(w.Main) }

// Main runs the window on s until it is closed.
func (w *Window) Main(s screen.Screen) {
	palette := w.ctrl.Palette().Colors()
	shapes := toolbar.ShapeTypes()
	cs := w.canvas.Size()
	width := cs.X + sideWidth
	height := cs.Y + barHeight + swatchHeight

	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: w.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()

	w.setSender(func(ev any) { win.Send(ev) })
	defer w.setSender(nil)

	layout := NewLayout(width, height, len(palette), shapes)
	var (
		props        toolbar.Props
		hover        Hit
		pressed      Hit
		drawing      bool
		dragging     bool
		last         image.Point
		message      string
		messageUntil time.Time
	)
	showMessage := func(text string) {
		message = text
		messageUntil = time.Now().Add(messageDuration)
		log.Print(text)
	}
	apply := func() {
		props = w.ctrl.Sync()
		w.canvas.Apply(props)
	}
	run := func(hit Hit) bool {
		closed, msg, err := Dispatch(w.ctrl, hit)
		switch {
		case err != nil:
			showMessage(err.Error())
		case msg != "":
			showMessage(msg)
		}
		apply()
		win.Send(paint.Event{})
		return closed
	}
	apply()

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				w.ctrl.CloseTapped()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			layout = NewLayout(width, height, len(palette), shapes)
			w.canvas.Resize(layout.Canvas.Dx(), layout.Canvas.Dy())
			win.Send(paint.Event{})
		case statusEvent:
			showMessage(e.text)
			win.Send(paint.Event{})
		case repaintEvent:
			win.Send(paint.Event{})
		case paint.Event:
			st := w.ctrl.State()
			w.paint(s, win, frameState{
				layout:       layout,
				sketch:       liveSketch(w.canvas),
				palette:      palette,
				props:        props,
				selected:     w.ctrl.Palette().IndexOf(st.Color),
				erasing:      st.Color == toolbar.EraseColor,
				deleteActive: w.ctrl.DeleteEnabled(),
				hover:        hover,
				pressed:      pressed,
				message:      message,
				messageUntil: messageUntil,
			})
		case key.Event:
			if hit := KeyAction(e); hit.Action != ActionNone && run(hit) {
				return
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			hit := layout.HitTest(p)
			switch {
			case drawing || dragging:
				w.trackPointer(e, layout, p, &last, &drawing, &dragging)
				win.Send(paint.Event{})
			case hit.Action == ActionCanvas:
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					pt := layout.ToCanvas(p)
					last = p
					if w.canvas.BeginStroke(pt) {
						drawing = true
					} else if w.canvas.SelectAt(pt) {
						dragging = true
					}
					win.Send(paint.Event{})
				}
				if hover != (Hit{}) {
					hover = Hit{}
					win.Send(paint.Event{})
				}
			case hit.Action != ActionNone:
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					pressed = hit
					if run(hit) {
						return
					}
				}
				if e.Direction == mouse.DirRelease {
					pressed = Hit{}
				}
				if hover != hit || e.Direction != mouse.DirNone {
					hover = hit
					win.Send(paint.Event{})
				}
			default:
				if hover != (Hit{}) || pressed != (Hit{}) {
					hover, pressed = Hit{}, Hit{}
					win.Send(paint.Event{})
				}
			}
		}
	}
}

// trackPointer continues a stroke or shape drag started in the canvas area.
func (w *Window) trackPointer(e mouse.Event, layout Layout, p image.Point, last *image.Point, drawing, dragging *bool) {
	switch e.Direction {
	case mouse.DirNone:
		if *drawing {
			w.canvas.ExtendStroke(layout.ToCanvas(p))
		} else {
			d := p.Sub(*last)
			w.canvas.MoveSelectedShape(d.X, d.Y)
		}
		*last = p
	case mouse.DirRelease:
		if *drawing {
			w.canvas.ExtendStroke(layout.ToCanvas(p))
			w.canvas.EndStroke()
		}
		*drawing, *dragging = false, false
	}
}

func (w *Window) paint(s screen.Screen, win screen.Window, st frameState) {
	b, err := s.NewBuffer(st.layout.Size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	drawFrame(b.RGBA(), st, w.theme)
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}
