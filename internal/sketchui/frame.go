package sketchui

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchbar/internal/canvas"
	"github.com/example/sketchbar/internal/theme"
	"github.com/example/sketchbar/internal/toolbar"
)

// ButtonState is the visual state of a control.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

func labelWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

// frameState is everything drawFrame needs for one paint.
type frameState struct {
	layout       Layout
	sketch       *image.RGBA
	palette      []toolbar.Color
	props        toolbar.Props
	selected     int
	erasing      bool
	deleteActive bool
	hover        Hit
	pressed      Hit
	message      string
	messageUntil time.Time
}

func drawFrame(dst *image.RGBA, st frameState, th *theme.Theme) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(th.Background), image.Point{}, draw.Src)

	l := st.layout
	if !l.Canvas.Empty() && st.sketch != nil {
		drawCheckerboard(dst, l.Canvas, 8, th.CheckerLight, th.CheckerDark)
		draw.Draw(dst, l.Canvas, st.sketch, image.Point{}, draw.Over)
	}

	bar := image.Rect(0, 0, b.Dx(), barHeight)
	draw.Draw(dst, bar, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	side := image.Rect(0, barHeight, sideWidth, b.Dy()-swatchHeight)
	draw.Draw(dst, side, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	strip := image.Rect(0, b.Dy()-swatchHeight, b.Dx(), b.Dy())
	draw.Draw(dst, strip, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)

	for _, r := range l.Buttons {
		enabled := true
		if r.Hit.Action == ActionDeleteShape {
			enabled = st.deleteActive
		}
		drawButton(dst, r, st.buttonState(r.Hit), enabled, false, th)
	}
	for _, r := range l.Shapes {
		drawButton(dst, r, st.buttonState(r.Hit), true, false, th)
	}
	for i, r := range l.Swatches {
		if i >= len(st.palette) {
			break
		}
		drawSwatch(dst, r.Rect, st.palette[i], !st.erasing && i == st.selected, th)
	}
	drawButton(dst, l.Erase, st.buttonState(l.Erase.Hit), true, st.erasing, th)

	label := string(st.props.StrokeColor) + " w" + strconv.Itoa(st.props.StrokeWidth)
	x := l.Erase.Rect.Max.X + 3*buttonPad
	if x+labelWidth(label) < b.Dx() {
		drawLabel(dst, image.Pt(x, l.Erase.Rect.Min.Y+14), label, th.Foreground)
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st.message, th)
	}
}

func (st frameState) buttonState(h Hit) ButtonState {
	switch {
	case st.pressed == h:
		return StatePressed
	case st.hover == h:
		return StateHover
	}
	return StateDefault
}

func drawButton(dst *image.RGBA, r Region, state ButtonState, enabled, active bool, th *theme.Theme) {
	bg := th.ButtonBackground
	switch {
	case state == StatePressed || active:
		bg = th.ButtonBackgroundPress
	case state == StateHover && enabled:
		bg = th.ButtonBackgroundHover
	}
	draw.Draw(dst, r.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	outline(dst, r.Rect, th.ButtonBorder)
	fg := th.ButtonText
	if !enabled {
		fg = th.ButtonTextDisabled
	}
	x := r.Rect.Min.X + (r.Rect.Dx()-labelWidth(r.Label))/2
	drawLabel(dst, image.Pt(x, r.Rect.Min.Y+(r.Rect.Dy()+10)/2), r.Label, fg)
}

func drawSwatch(dst *image.RGBA, rect image.Rectangle, c toolbar.Color, selected bool, th *theme.Theme) {
	col, err := c.NRGBA()
	if err != nil {
		col = color.NRGBA{A: 255}
	}
	draw.Draw(dst, rect, image.NewUniform(col), image.Point{}, draw.Src)
	outline(dst, rect, th.SwatchBorder)
	if selected {
		outline(dst, rect.Inset(-2), th.SwatchSelected)
		outline(dst, rect.Inset(-3), th.SwatchSelected)
	}
}

func drawLabel(dst *image.RGBA, dot image.Point, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(s)
}

func drawMessage(dst *image.RGBA, msg string, th *theme.Theme) {
	b := dst.Bounds()
	w := labelWidth(msg)
	px := (b.Dx() - w) / 2
	py := b.Dy() / 2
	rect := image.Rect(px-8, py-18, px+w+8, py+8)
	draw.Draw(dst, rect, image.NewUniform(color.RGBA{255, 255, 255, 230}), image.Point{}, draw.Over)
	outline(dst, rect, th.ButtonBorder)
	drawLabel(dst, image.Pt(px, py), msg, color.Black)
}

func outline(dst *image.RGBA, r image.Rectangle, col color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, col)
		dst.Set(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, col)
		dst.Set(r.Max.X-1, y, col)
	}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// liveSketch renders the canvas for the window.
func liveSketch(c *canvas.Canvas) *image.RGBA {
	opts := canvas.Live
	opts.Transparent = true
	return c.Render(opts)
}
