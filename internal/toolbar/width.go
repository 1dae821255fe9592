package toolbar

import "fmt"

// WidthOscillator produces a triangle wave of stroke widths between Min and
// Max, moving by a fixed step on each call to Advance.
type WidthOscillator struct {
	width int
	step  int
	min   int
	max   int
}

// NewWidthOscillator validates the bounds and returns an oscillator that
// starts at width and initially travels upwards.
func NewWidthOscillator(width, min, max, step int) (*WidthOscillator, error) {
	if min > max {
		return nil, &ConfigurationError{Field: "stroke width bounds", Reason: fmt.Sprintf("min %d is greater than max %d", min, max)}
	}
	if step <= 0 {
		return nil, &ConfigurationError{Field: "stroke width step", Reason: fmt.Sprintf("step %d must be positive", step)}
	}
	if width < min || width > max {
		return nil, &ConfigurationError{Field: "default stroke width", Reason: fmt.Sprintf("%d is outside [%d, %d]", width, min, max)}
	}
	return &WidthOscillator{width: width, step: step, min: min, max: max}, nil
}

// Width returns the current width.
func (o *WidthOscillator) Width() int { return o.width }

// Step returns the signed step that the next Advance starts from.
func (o *WidthOscillator) Step() int { return o.step }

// Bounds returns the inclusive width range.
func (o *WidthOscillator) Bounds() (min, max int) { return o.min, o.max }

// Advance moves to the next width. Reversal is applied before stepping, so a
// call made while sitting on a bound turns around on that same call.
func (o *WidthOscillator) Advance() int {
	if (o.width >= o.max && o.step > 0) || (o.width <= o.min && o.step < 0) {
		o.step = -o.step
	}
	next := o.width + o.step
	// a step that does not divide the range lands on the bound instead of past it
	if next > o.max {
		next = o.max
	}
	if next < o.min {
		next = o.min
	}
	o.width = next
	return o.width
}
