package toolbar

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a hex color token such as "#FF0000" or "#FF000080".
// Two colors are equal only when their tokens match exactly.
type Color string

// EraseColor is the fully transparent sentinel selected by the erase button.
const EraseColor Color = "#00000000"

// HasAlpha reports whether the token already carries an explicit alpha
// component (#RRGGBBAA).
func (c Color) HasAlpha() bool { return len(c) == 9 }

// NRGBA converts the token to a non-premultiplied color. A 7-character token
// is opaque.
func (c Color) NRGBA() (color.NRGBA, error) {
	s := string(c)
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 7 {
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	}
	return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// ParseColor normalises a user supplied color into a canonical token. It
// accepts #RRGGBB, #RRGGBBAA and SVG color names.
func ParseColor(s string) (Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return "", fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return FromColor(c), nil
	}
	if !strings.HasPrefix(spec, "#") || (len(spec) != 7 && len(spec) != 9) {
		return "", fmt.Errorf("invalid color %q", s)
	}
	if _, err := strconv.ParseUint(spec[1:], 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q", s)
	}
	return Color(strings.ToUpper(spec)), nil
}

// FromColor formats c as a token, omitting the alpha component when opaque.
func FromColor(col color.Color) Color {
	c := color.NRGBAModel.Convert(col).(color.NRGBA)
	if c.A == 255 {
		return Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
	}
	return Color(fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A))
}

// DefaultColors is the palette used when the caller configures none.
var DefaultColors = []Color{
	"#000000",
	"#FF0000",
	"#00FFFF",
	"#0000FF",
	"#0000A0",
	"#ADD8E6",
	"#800080",
	"#FFFF00",
	"#00FF00",
	"#FF00FF",
	"#FFFFFF",
	"#C0C0C0",
	"#808080",
	"#FFA500",
	"#A52A2A",
	"#800000",
	"#008000",
	"#808000",
}

// Palette is an immutable ordered list of selectable colors.
type Palette struct {
	colors []Color
}

// NewPalette copies colors into a Palette.
func NewPalette(colors []Color) Palette {
	out := make([]Color, len(colors))
	copy(out, colors)
	return Palette{colors: out}
}

// DefaultPalette returns the built-in 18 color palette.
func DefaultPalette() Palette { return NewPalette(DefaultColors) }

// Len returns the number of entries.
func (p Palette) Len() int { return len(p.colors) }

// ColorAt returns the color at idx.
func (p Palette) ColorAt(idx int) (Color, error) {
	if idx < 0 || idx >= len(p.colors) {
		return "", fmt.Errorf("%w: %d (palette has %d colors)", ErrIndexOutOfRange, idx, len(p.colors))
	}
	return p.colors[idx], nil
}

// IndexOf returns the index of c, or -1.
func (p Palette) IndexOf(c Color) int {
	for i, existing := range p.colors {
		if existing == c {
			return i
		}
	}
	return -1
}

// Colors returns a copy of the entries.
func (p Palette) Colors() []Color {
	out := make([]Color, len(p.colors))
	copy(out, p.colors)
	return out
}
