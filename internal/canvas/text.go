package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchbar/internal/toolbar"
)

// DefaultFontSize is used for text without an explicit size.
const DefaultFontSize = 24

var fontData = map[string][]byte{
	"":        goregular.TTF,
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
	"italic":  goitalic.TTF,
	"mono":    gomono.TTF,
}

type faceKey struct {
	font string
	size float64
}

var (
	parsedFonts sync.Map // map[string]*opentype.Font
	faces       sync.Map // map[faceKey]font.Face
)

// FontNames lists the font names accepted by CanvasText.Font and
// AddShapeConfig.FontType.
func FontNames() []string {
	return []string{"regular", "bold", "italic", "mono"}
}

func fontKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := fontData[name]; ok {
		return name
	}
	return ""
}

func faceFor(name string, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	key := faceKey{font: fontKey(name), size: math.Round(size*10) / 10}
	if face, ok := faces.Load(key); ok {
		return face.(font.Face), nil
	}
	var f *opentype.Font
	if v, ok := parsedFonts.Load(key.font); ok {
		f = v.(*opentype.Font)
	} else {
		parsed, err := opentype.Parse(fontData[key.font])
		if err != nil {
			return nil, fmt.Errorf("parse font %q: %w", name, err)
		}
		parsedFonts.Store(key.font, parsed)
		f = parsed
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faces.Store(key, face)
	return face, nil
}

// textBlock is laid-out multi-line text.
type textBlock struct {
	face       font.Face
	lines      []string
	widths     []int
	width      int
	lineHeight int
	ascent     int
	height     int
}

func layoutText(text, fontName string, size, lineHeightMultiple float64) (*textBlock, error) {
	face, err := faceFor(fontName, size)
	if err != nil {
		return nil, err
	}
	if lineHeightMultiple <= 0 {
		lineHeightMultiple = 1
	}
	metrics := face.Metrics()
	b := &textBlock{
		face:   face,
		lines:  strings.Split(text, "\n"),
		ascent: metrics.Ascent.Ceil(),
	}
	natural := metrics.Height.Ceil()
	b.lineHeight = int(math.Round(float64(natural) * lineHeightMultiple))
	d := &font.Drawer{Face: face}
	for _, line := range b.lines {
		w := d.MeasureString(line).Ceil()
		b.widths = append(b.widths, w)
		if w > b.width {
			b.width = w
		}
	}
	b.height = b.lineHeight*(len(b.lines)-1) + natural
	return b, nil
}

// MeasureText returns the bounding box of text at the given font and size.
func MeasureText(text, fontName string, size float64) (width, height int, err error) {
	b, err := layoutText(text, fontName, size, 1)
	if err != nil {
		return 0, 0, err
	}
	return b.width, b.height, nil
}

// draw renders the block with its top-left corner at origin.
func (b *textBlock) draw(img *image.RGBA, origin image.Point, col color.Color, align toolbar.Alignment) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: b.face}
	for i, line := range b.lines {
		x := origin.X
		switch align {
		case toolbar.AlignCenter:
			x += (b.width - b.widths[i]) / 2
		case toolbar.AlignRight:
			x += b.width - b.widths[i]
		}
		d.Dot = fixed.P(x, origin.Y+b.ascent+i*b.lineHeight)
		d.DrawString(line)
	}
}

// textOrigin resolves the top-left corner of a CanvasText overlay on a
// canvas of the given size.
func textOrigin(t toolbar.CanvasText, b *textBlock, size image.Point) image.Point {
	x, y := t.Position.X, t.Position.Y
	if t.Coordinate == toolbar.CoordinateRatio {
		x *= float64(size.X)
		y *= float64(size.Y)
	}
	x -= t.Anchor.X * float64(b.width)
	y -= t.Anchor.Y * float64(b.height)
	return image.Pt(int(math.Round(x)), int(math.Round(y)))
}
