// Package toolbar holds the state machine behind a sketch editor's toolbar:
// color and alpha selection, stroke width oscillation and save parameter
// resolution. It drives a Canvas and relays the canvas events back to the
// caller's Handlers.
package toolbar

import (
	"fmt"
	"sync"
	"time"
)

const (
	DefaultColorIndex  = 0
	DefaultStrokeWidth = 3
	DefaultMinWidth    = 3
	DefaultMaxWidth    = 15
	DefaultWidthStep   = 3
)

// PermissionPrompt is forwarded untouched to whatever asks the user for
// storage access before saving.
type PermissionPrompt struct {
	Title   string
	Message string
}

// Options is the recognised controller configuration.
type Options struct {
	Palette            []Color
	DefaultColorIndex  int
	DefaultWidth       int
	MinWidth           int
	MaxWidth           int
	WidthStep          int
	AlphaLevels        []AlphaLevel
	PreferenceSource   PreferenceSource
	DefaultFolder      string
	Clock              func() time.Time
	Handlers           Handlers
	ShapeConfiguration ShapeConfiguration
	Text               []CanvasText
	LocalSourceImage   *LocalSourceImage
	TouchEnabled       bool
	Permission         PermissionPrompt
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Palette:            DefaultColors,
		DefaultColorIndex:  DefaultColorIndex,
		DefaultWidth:       DefaultStrokeWidth,
		MinWidth:           DefaultMinWidth,
		MaxWidth:           DefaultMaxWidth,
		WidthStep:          DefaultWidthStep,
		AlphaLevels:        DefaultAlphaLevels,
		ShapeConfiguration: DefaultShapeConfiguration(),
		TouchEnabled:       true,
	}
}

// Option modifies Options during New.
type Option func(*Options)

// WithPalette sets the selectable colors.
func WithPalette(colors []Color) Option { return func(o *Options) { o.Palette = colors } }

// WithDefaultColorIndex selects the initial palette entry.
func WithDefaultColorIndex(idx int) Option { return func(o *Options) { o.DefaultColorIndex = idx } }

// WithDefaultWidth sets the initial stroke width.
func WithDefaultWidth(w int) Option { return func(o *Options) { o.DefaultWidth = w } }

// WithWidthBounds sets the inclusive stroke width range.
func WithWidthBounds(min, max int) Option {
	return func(o *Options) { o.MinWidth, o.MaxWidth = min, max }
}

// WithWidthStep sets how far each width tap moves.
func WithWidthStep(step int) Option { return func(o *Options) { o.WidthStep = step } }

// WithAlphaLevels sets the alpha sequence, most transparent first.
func WithAlphaLevels(levels []AlphaLevel) Option { return func(o *Options) { o.AlphaLevels = levels } }

// WithPreferenceSource supplies save preferences. Without one the controller
// saves PNGs named after the current time.
func WithPreferenceSource(src PreferenceSource) Option {
	return func(o *Options) { o.PreferenceSource = src }
}

// WithDefaultFolder sets the folder used by the default save command.
func WithDefaultFolder(dir string) Option { return func(o *Options) { o.DefaultFolder = dir } }

// WithClock overrides time.Now for default filenames.
func WithClock(now func() time.Time) Option { return func(o *Options) { o.Clock = now } }

// WithHandlers registers notification callbacks.
func WithHandlers(h Handlers) Option { return func(o *Options) { o.Handlers = h } }

// WithShapeConfiguration styles inserted shapes.
func WithShapeConfiguration(sc ShapeConfiguration) Option {
	return func(o *Options) { o.ShapeConfiguration = sc }
}

// WithText sets static text overlays.
func WithText(text []CanvasText) Option { return func(o *Options) { o.Text = text } }

// WithLocalSourceImage sets the background image.
func WithLocalSourceImage(img *LocalSourceImage) Option {
	return func(o *Options) { o.LocalSourceImage = img }
}

// WithTouchEnabled sets whether freehand drawing is enabled.
func WithTouchEnabled(enabled bool) Option { return func(o *Options) { o.TouchEnabled = enabled } }

// WithPermissionPrompt stores the storage permission dialog text.
func WithPermissionPrompt(title, message string) Option {
	return func(o *Options) { o.Permission = PermissionPrompt{Title: title, Message: message} }
}

// ControllerState is a snapshot of the toolbar selection.
type ControllerState struct {
	Color            Color
	Width            int
	Alpha            AlphaLevel
	WidthStep        int
	AlphaStep        Step
	ColorJustChanged bool
}

// Props is everything the render step pushes to the canvas for one cycle.
type Props struct {
	StrokeColor        Color
	StrokeWidth        int
	Alpha              AlphaLevel
	SelectedIndex      int
	ColorJustChanged   bool
	TouchEnabled       bool
	ShapeConfiguration ShapeConfiguration
	LocalSourceImage   *LocalSourceImage
	Text               []CanvasText
}

// Controller owns the toolbar state and issues commands to a Canvas.
// Entry points may be called from any goroutine; state access is serialised,
// and neither canvas commands nor handlers run with the lock held.
type Controller struct {
	canvas   Canvas
	palette  Palette
	alphas   *AlphaCycler
	widths   *WidthOscillator
	resolver SaveResolver

	mu               sync.Mutex
	handlers         Handlers
	color            Color
	alpha            AlphaLevel
	alphaStep        Step
	colorJustChanged bool
	touchEnabled     bool
	shapeConfig      ShapeConfiguration
	text             []CanvasText
	source           *LocalSourceImage
	permission       PermissionPrompt
}

// New validates the configuration and returns a controller driving canvas.
// Configuration problems are reported as *ConfigurationError.
func New(canvas Canvas, opts ...Option) (*Controller, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithOptions(canvas, o)
}

// NewWithOptions is New for a fully built Options value.
func NewWithOptions(canvas Canvas, o Options) (*Controller, error) {
	if canvas == nil {
		return nil, &ConfigurationError{Field: "canvas", Reason: "is nil"}
	}
	if len(o.Palette) == 0 {
		return nil, &ConfigurationError{Field: "palette", Reason: "is empty"}
	}
	palette := NewPalette(o.Palette)
	initial, err := palette.ColorAt(o.DefaultColorIndex)
	if err != nil {
		return nil, &ConfigurationError{Field: "default color index", Reason: err.Error()}
	}
	alphas, err := NewAlphaCycler(o.AlphaLevels)
	if err != nil {
		return nil, err
	}
	widths, err := NewWidthOscillator(o.DefaultWidth, o.MinWidth, o.MaxWidth, o.WidthStep)
	if err != nil {
		return nil, err
	}
	text := make([]CanvasText, len(o.Text))
	copy(text, o.Text)
	return &Controller{
		canvas:       canvas,
		palette:      palette,
		alphas:       alphas,
		widths:       widths,
		resolver:     SaveResolver{Source: o.PreferenceSource, Folder: o.DefaultFolder, Now: o.Clock},
		handlers:     o.Handlers,
		color:        initial,
		alpha:        alphas.MostOpaque(),
		alphaStep:    StepUnset,
		touchEnabled: o.TouchEnabled,
		shapeConfig:  o.ShapeConfiguration,
		text:         text,
		source:       o.LocalSourceImage,
		permission:   o.Permission,
	}, nil
}

// Palette returns the configured palette.
func (c *Controller) Palette() Palette { return c.palette }

// AlphaLevels returns the configured alpha sequence.
func (c *Controller) AlphaLevels() []AlphaLevel { return c.alphas.Levels() }

// PermissionPrompt returns the permission dialog text as configured.
func (c *Controller) PermissionPrompt() PermissionPrompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.permission
}

// SwatchTapped handles a tap on a palette swatch. Tapping a new color selects
// it; tapping the active color again cycles its alpha. No canvas command is
// issued, the new stroke color reaches the canvas through Sync.
func (c *Controller) SwatchTapped(col Color) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if col == EraseColor {
		if c.color != EraseColor {
			c.selectLocked(EraseColor)
		}
		return nil
	}
	if c.palette.IndexOf(col) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownColor, col)
	}
	if col != c.color {
		c.selectLocked(col)
		return nil
	}
	next, step, err := c.alphas.Next(c.alpha, c.alphaStep)
	if err != nil {
		return err
	}
	c.alpha = next
	c.alphaStep = step
	c.colorJustChanged = false
	return nil
}

// SwatchIndexTapped is SwatchTapped for the palette entry at idx.
func (c *Controller) SwatchIndexTapped(idx int) error {
	col, err := c.palette.ColorAt(idx)
	if err != nil {
		return err
	}
	return c.SwatchTapped(col)
}

// EraseTapped selects the transparent erase color.
func (c *Controller) EraseTapped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.color != EraseColor {
		c.selectLocked(EraseColor)
	}
}

func (c *Controller) selectLocked(col Color) {
	c.color = col
	c.alphaStep = StepUnset
	c.colorJustChanged = true
}

// WidthTapped advances the stroke width and returns it.
func (c *Controller) WidthTapped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.widths.Advance()
}

// UndoTapped undoes the last stroke and relays the canvas result to OnUndo,
// including NothingToUndo.
func (c *Controller) UndoTapped() int {
	id := c.canvas.Undo()
	if fn := c.snapshotHandlers().OnUndo; fn != nil {
		fn(id)
	}
	return id
}

// UndoShapeTapped undoes the last shape and relays the result to OnUndo.
func (c *Controller) UndoShapeTapped() int {
	id := c.canvas.UndoShape()
	if fn := c.snapshotHandlers().OnUndo; fn != nil {
		fn(id)
	}
	return id
}

// ClearTapped clears the canvas and then notifies OnClear.
func (c *Controller) ClearTapped() {
	c.canvas.Clear()
	if fn := c.snapshotHandlers().OnClear; fn != nil {
		fn()
	}
}

// CloseTapped notifies OnClose.
func (c *Controller) CloseTapped() {
	if fn := c.snapshotHandlers().OnClose; fn != nil {
		fn()
	}
}

// DeleteSelectedShapeTapped deletes the selected shape. The button is
// disabled while freehand touch drawing is enabled, in which case nothing is
// sent and false is returned.
func (c *Controller) DeleteSelectedShapeTapped() bool {
	if !c.DeleteEnabled() {
		return false
	}
	c.canvas.DeleteSelectedShape()
	return true
}

// DeleteEnabled reports whether the delete-shape button is active.
func (c *Controller) DeleteEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.touchEnabled
}

// SetTouchEnabled toggles freehand drawing.
func (c *Controller) SetTouchEnabled(enabled bool) {
	c.mu.Lock()
	c.touchEnabled = enabled
	c.mu.Unlock()
}

// SaveTapped resolves the save parameters and hands them to the canvas. The
// result arrives later through OnSketchSaved. When the preference source
// fails or is malformed nothing is saved and the error is returned.
func (c *Controller) SaveTapped() (SaveCommand, error) {
	c.mu.Lock()
	resolver := c.resolver
	c.mu.Unlock()
	cmd, err := resolver.Resolve()
	if err != nil {
		return SaveCommand{}, err
	}
	c.canvas.Save(cmd)
	return cmd, nil
}

// AddPath adds p to the canvas, keeping any explicit ID.
func (c *Controller) AddPath(p Path) { c.canvas.AddPath(p) }

// DeletePath removes the path with the given ID from the canvas.
func (c *Controller) DeletePath(id int) { c.canvas.DeletePath(id) }

// AddShape places a shape described by cfg on the canvas.
func (c *Controller) AddShape(cfg AddShapeConfig) { c.canvas.AddShape(cfg) }

// UnselectShape clears the canvas shape selection.
func (c *Controller) UnselectShape() { c.canvas.UnselectShape() }

// IncreaseSelectedShapeFontSize enlarges the selected text shape.
func (c *Controller) IncreaseSelectedShapeFontSize() { c.canvas.IncreaseSelectedShapeFontSize() }

// DecreaseSelectedShapeFontSize shrinks the selected text shape.
func (c *Controller) DecreaseSelectedShapeFontSize() { c.canvas.DecreaseSelectedShapeFontSize() }

// ChangeSelectedShapeText replaces the text of the selected text shape.
func (c *Controller) ChangeSelectedShapeText(t string) { c.canvas.ChangeSelectedShapeText(t) }

// Paths returns a copy of the canvas paths in drawing order.
func (c *Controller) Paths() []Path { return c.canvas.Paths() }

// Base64 asks the canvas for an encoded export; done receives the canvas
// result unchanged.
func (c *Controller) Base64(req Base64Request, done func(err error, result string)) {
	c.canvas.Base64(req, done)
}

// SetText replaces the static text overlays.
func (c *Controller) SetText(text []CanvasText) {
	cp := make([]CanvasText, len(text))
	copy(cp, text)
	c.mu.Lock()
	c.text = cp
	c.mu.Unlock()
}

// SetLocalSourceImage replaces the background image.
func (c *Controller) SetLocalSourceImage(img *LocalSourceImage) {
	c.mu.Lock()
	c.source = img
	c.mu.Unlock()
}

// SetShapeConfiguration restyles inserted shapes.
func (c *Controller) SetShapeConfiguration(sc ShapeConfiguration) {
	c.mu.Lock()
	c.shapeConfig = sc
	c.mu.Unlock()
}

// State returns a copy of the current selection without consuming the
// color-changed signal.
func (c *Controller) State() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ControllerState{
		Color:            c.color,
		Width:            c.widths.Width(),
		Alpha:            c.alpha,
		WidthStep:        c.widths.Step(),
		AlphaStep:        c.alphaStep,
		ColorJustChanged: c.colorJustChanged,
	}
}

// Sync produces the property set for one render cycle. The color-changed
// signal is reported once and then cleared.
func (c *Controller) Sync() Props {
	c.mu.Lock()
	defer c.mu.Unlock()
	text := make([]CanvasText, len(c.text))
	copy(text, c.text)
	p := Props{
		StrokeColor:        ComposeStrokeColor(c.color, c.alpha),
		StrokeWidth:        c.widths.Width(),
		Alpha:              c.alpha,
		SelectedIndex:      c.palette.IndexOf(c.color),
		ColorJustChanged:   c.colorJustChanged,
		TouchEnabled:       c.touchEnabled,
		ShapeConfiguration: c.shapeConfig,
		LocalSourceImage:   c.source,
		Text:               text,
	}
	c.colorJustChanged = false
	return p
}

// ComposeStrokeColor appends alpha to col unless col already carries its own.
func ComposeStrokeColor(col Color, alpha AlphaLevel) Color {
	if col.HasAlpha() {
		return col
	}
	return col + Color(alpha)
}
