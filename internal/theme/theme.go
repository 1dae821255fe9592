package theme

import (
	"image/color"
)

// Theme defines the colors used to paint the sketch window around the canvas.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background behind the canvas
	Foreground color.RGBA // Main text color

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonTextDisabled    color.RGBA
	ButtonBorder          color.RGBA

	// Swatch strip
	SwatchBorder   color.RGBA
	SwatchSelected color.RGBA // Ring drawn around the active color

	// Canvas
	CanvasBackground color.RGBA
	CheckerLight     color.RGBA // Shown behind transparent exports
	CheckerDark      color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextDisabled:    color.RGBA{128, 128, 128, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		SwatchBorder:          color.RGBA{150, 150, 150, 255},
		SwatchSelected:        color.RGBA{0, 0, 0, 255},
		CanvasBackground:      color.RGBA{255, 255, 255, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}
