package toolbar

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a palette lookup falls outside the palette.
	ErrIndexOutOfRange = errors.New("palette index out of range")
	// ErrUnknownColor is returned when a tapped color is not part of the palette.
	ErrUnknownColor = errors.New("color is not in the palette")
	// ErrUnknownAlpha is returned when the current alpha is not one of the configured levels.
	ErrUnknownAlpha = errors.New("alpha is not a configured level")
)

// ConfigurationError reports an invalid controller configuration. It is only
// produced by New; values are never clamped into range.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// InvalidPreferenceError reports a save preference that is missing a required field.
type InvalidPreferenceError struct {
	Field string
}

func (e *InvalidPreferenceError) Error() string {
	return fmt.Sprintf("save preference missing %s", e.Field)
}
