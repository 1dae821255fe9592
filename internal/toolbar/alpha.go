package toolbar

import (
	"fmt"
	"strconv"
)

// AlphaLevel is a two hex digit opacity token appended to a base color.
type AlphaLevel string

// DefaultAlphaLevels runs from most transparent to opaque.
var DefaultAlphaLevels = []AlphaLevel{"33", "77", "AA", "FF"}

// Step is the direction alpha travels on the next re-tap.
type Step int

const (
	StepDown  Step = -1
	StepUnset Step = 0
	StepUp    Step = 1
)

func (s Step) String() string {
	switch s {
	case StepDown:
		return "down"
	case StepUp:
		return "up"
	default:
		return "unset"
	}
}

// AlphaCycler walks a fixed sequence of alpha levels back and forth.
type AlphaCycler struct {
	levels []AlphaLevel
}

// NewAlphaCycler validates levels and returns a cycler over a copy of them.
func NewAlphaCycler(levels []AlphaLevel) (*AlphaCycler, error) {
	if len(levels) == 0 {
		return nil, &ConfigurationError{Field: "alpha levels", Reason: "sequence is empty"}
	}
	out := make([]AlphaLevel, len(levels))
	for i, l := range levels {
		if len(l) != 2 {
			return nil, &ConfigurationError{Field: "alpha levels", Reason: fmt.Sprintf("level %q is not two hex digits", l)}
		}
		if _, err := strconv.ParseUint(string(l), 16, 8); err != nil {
			return nil, &ConfigurationError{Field: "alpha levels", Reason: fmt.Sprintf("level %q is not two hex digits", l)}
		}
		out[i] = l
	}
	return &AlphaCycler{levels: out}, nil
}

// Levels returns a copy of the configured sequence.
func (a *AlphaCycler) Levels() []AlphaLevel {
	out := make([]AlphaLevel, len(a.levels))
	copy(out, a.levels)
	return out
}

// MostOpaque returns the last level of the sequence.
func (a *AlphaCycler) MostOpaque() AlphaLevel { return a.levels[len(a.levels)-1] }

// Next returns the level that follows current and the direction used to get
// there. The direction is recomputed from the current position on every call:
// at the first level it always goes up, at the last it always goes down, and
// elsewhere it keeps the previous direction. An unset step behaves like a
// downward one, so the first re-tap from the opaque end moves towards
// transparency.
func (a *AlphaCycler) Next(current AlphaLevel, step Step) (AlphaLevel, Step, error) {
	idx := a.indexOf(current)
	if idx < 0 {
		return current, step, fmt.Errorf("%w: %q", ErrUnknownAlpha, current)
	}
	n := len(a.levels)
	if n == 1 {
		return a.levels[0], step, nil
	}
	if step == StepUp {
		if idx == n-1 {
			step = StepDown
		}
	} else {
		step = StepDown
		if idx == 0 {
			step = StepUp
		}
	}
	return a.levels[idx+int(step)], step, nil
}

func (a *AlphaCycler) indexOf(l AlphaLevel) int {
	for i, existing := range a.levels {
		if existing == l {
			return i
		}
	}
	return -1
}
