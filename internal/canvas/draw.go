package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// layer collects brush coverage for one path or shape. Overlapping stamps
// share a single coverage value, so a translucent stroke keeps a uniform
// alpha where it crosses itself.
type layer struct {
	mask  *image.Alpha
	dirty image.Rectangle
}

func newLayer(bounds image.Rectangle) *layer {
	return &layer{mask: image.NewAlpha(bounds)}
}

func (l *layer) mark(x, y int) {
	p := image.Pt(x, y)
	if !p.In(l.mask.Bounds()) {
		return
	}
	l.mask.SetAlpha(x, y, color.Alpha{A: 0xFF})
	l.dirty = l.dirty.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
}

// composite paints col through the collected coverage. A fully transparent
// color clears the covered pixels; anything else blends over them.
func (l *layer) composite(dst *image.RGBA, col color.Color) {
	if l.dirty.Empty() {
		return
	}
	if _, _, _, a := col.RGBA(); a == 0 {
		for y := l.dirty.Min.Y; y < l.dirty.Max.Y; y++ {
			for x := l.dirty.Min.X; x < l.dirty.Max.X; x++ {
				if l.mask.AlphaAt(x, y).A != 0 {
					dst.SetRGBA(x, y, color.RGBA{})
				}
			}
		}
		return
	}
	draw.DrawMask(dst, l.dirty, image.NewUniform(col), image.Point{}, l.mask, l.dirty.Min, draw.Over)
}

// setBrush stamps a round brush of diameter thick centred on (x, y).
func setBrush(l *layer, x, y, thick int) {
	if thick <= 1 {
		l.mark(x, y)
		return
	}
	r := thick / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			l.mark(x+dx, y+dy)
		}
	}
}

func drawLine(l *layer, x0, y0, x1, y1, thick int) {
	walkLine(x0, y0, x1, y1, func(x, y, _ int) {
		setBrush(l, x, y, thick)
	})
}

// walkLine visits every pixel of the Bresenham line from (x0, y0) to
// (x1, y1). n counts visited pixels from zero.
func walkLine(x0, y0, x1, y1 int, visit func(x, y, n int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := int(math.Abs(float64(y1 - y0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for n := 0; ; n++ {
		visit(x0, y0, n)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawPolyline(l *layer, pts []image.Point, thick int) {
	if len(pts) == 1 {
		setBrush(l, pts[0].X, pts[0].Y, thick)
		return
	}
	for i := 1; i < len(pts); i++ {
		drawLine(l, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, thick)
	}
}

func drawCircleThin(l *layer, cx, cy, r int) {
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			l.mark(cx+p[0], cy+p[1])
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

func drawCircle(l *layer, cx, cy, r, thick int) {
	if thick <= 1 {
		drawCircleThin(l, cx, cy, r)
		return
	}
	start := -thick / 2
	for i := 0; i < thick; i++ {
		rr := r + start + i
		if rr >= 0 {
			drawCircleThin(l, cx, cy, rr)
		}
	}
}

func drawEllipse(l *layer, rect image.Rectangle, thick int) {
	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	rx := rect.Dx() / 2
	ry := rect.Dy() / 2
	if rx == ry {
		drawCircle(l, cx, cy, rx, thick)
		return
	}
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(float64(rx*rx+ry*ry))))
	if steps < 8 {
		steps = 8
	}
	var prevX, prevY int
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Cos(angle)*float64(rx))
		y := cy + int(math.Sin(angle)*float64(ry))
		if i > 0 {
			drawLine(l, prevX, prevY, x, y, thick)
		} else {
			setBrush(l, x, y, thick)
		}
		prevX, prevY = x, y
	}
}

func drawArrow(l *layer, x0, y0, x1, y1, thick int) {
	drawLine(l, x0, y0, x1, y1, thick)
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := float64(6 + thick*2)
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	x2 := x1 - int(math.Cos(a1)*size)
	y2 := y1 - int(math.Sin(a1)*size)
	x3 := x1 - int(math.Cos(a2)*size)
	y3 := y1 - int(math.Sin(a2)*size)
	drawLine(l, x1, y1, x2, y2, thick)
	drawLine(l, x1, y1, x3, y3, thick)
}

func drawTriangle(l *layer, rect image.Rectangle, thick int) {
	top := image.Pt((rect.Min.X+rect.Max.X)/2, rect.Min.Y)
	left := image.Pt(rect.Min.X, rect.Max.Y-1)
	right := image.Pt(rect.Max.X-1, rect.Max.Y-1)
	drawPolyline(l, []image.Point{top, right, left, top}, thick)
}

// drawRuler draws a horizontal scale across rect with a tick every 10px and
// a long tick every 50px.
func drawRuler(l *layer, rect image.Rectangle, thick int) {
	y := rect.Max.Y - 1
	drawLine(l, rect.Min.X, y, rect.Max.X-1, y, thick)
	for x := rect.Min.X; x < rect.Max.X; x += 10 {
		h := rect.Dy() / 3
		if (x-rect.Min.X)%50 == 0 {
			h = rect.Dy() * 2 / 3
		}
		drawLine(l, x, y, x, y-h, 1)
	}
}

func drawRect(l *layer, rect image.Rectangle, thick int) {
	drawLine(l, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, thick)
	drawLine(l, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, thick)
	drawLine(l, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, thick)
	drawLine(l, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, thick)
}

func drawDashedLine(l *layer, x0, y0, x1, y1, dash, thick int) {
	if dash <= 0 {
		dash = 4
	}
	walkLine(x0, y0, x1, y1, func(x, y, n int) {
		if (n/dash)%2 == 0 {
			setBrush(l, x, y, thick)
		}
	})
}

func drawDashedRect(l *layer, rect image.Rectangle, dash, thick int) {
	drawDashedLine(l, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, dash, thick)
	drawDashedLine(l, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, dash, thick)
	drawDashedLine(l, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, dash, thick)
	drawDashedLine(l, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, dash, thick)
}

// cropImage returns a copy of the given rectangle from img. Areas of rect
// outside img are left transparent.
func cropImage(img *image.RGBA, rect image.Rectangle) *image.RGBA {
	if rect.Empty() {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	src := rect.Intersect(img.Bounds())
	if !src.Empty() {
		draw.Draw(out, src.Sub(rect.Min), img, src.Min, draw.Src)
	}
	return out
}
