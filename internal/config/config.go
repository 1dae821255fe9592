package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/sketchbar/internal/theme"
	"github.com/example/sketchbar/internal/toolbar"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Widths holds the stroke width oscillator settings.
type Widths struct {
	Default int
	Min     int
	Max     int
	Step    int
}

// Save is the [save] section. When Set is false the controller falls back to
// timestamped PNG files in SaveDir.
type Save struct {
	Set             bool
	Folder          string
	Filename        string
	ImageType       toolbar.ImageType
	Transparent     *bool
	IncludeImage    *bool
	IncludeText     *bool
	CropToImageSize *bool
	CopyToGallery   *bool
}

// Permission is the text of the storage permission prompt.
type Permission struct {
	Title   string
	Message string
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	SaveDir      string
	TouchEnabled bool
	Palette      []toolbar.Color
	ColorIndex   int
	Alphas       []toolbar.AlphaLevel
	Widths       Widths
	Shape        toolbar.ShapeConfiguration
	Save         Save
	Permission   Permission
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:        "", // Default to empty to allow fallback to Env/Default
		TouchEnabled: true,
		Palette:      append([]toolbar.Color(nil), toolbar.DefaultColors...),
		ColorIndex:   toolbar.DefaultColorIndex,
		Alphas:       append([]toolbar.AlphaLevel(nil), toolbar.DefaultAlphaLevels...),
		Widths: Widths{
			Default: toolbar.DefaultStrokeWidth,
			Min:     toolbar.DefaultMinWidth,
			Max:     toolbar.DefaultMaxWidth,
			Step:    toolbar.DefaultWidthStep,
		},
		Shape: toolbar.DefaultShapeConfiguration(),
		Notify: Notify{
			Save: false,
			Copy: false,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "touch_enabled = %v\n", c.TouchEnabled)
	sb.WriteString("\n")

	sb.WriteString("[palette]\n")
	fmt.Fprintf(&sb, "colors = %s\n", joinColors(c.Palette))
	fmt.Fprintf(&sb, "default_index = %d\n", c.ColorIndex)
	sb.WriteString("\n")

	sb.WriteString("[alpha]\n")
	fmt.Fprintf(&sb, "levels = %s\n", joinAlphas(c.Alphas))
	sb.WriteString("\n")

	sb.WriteString("[width]\n")
	fmt.Fprintf(&sb, "default = %d\n", c.Widths.Default)
	fmt.Fprintf(&sb, "min = %d\n", c.Widths.Min)
	fmt.Fprintf(&sb, "max = %d\n", c.Widths.Max)
	fmt.Fprintf(&sb, "step = %d\n", c.Widths.Step)
	sb.WriteString("\n")

	sb.WriteString("[shape]\n")
	fmt.Fprintf(&sb, "border_color = %s\n", c.Shape.BorderColor)
	fmt.Fprintf(&sb, "border_style = %s\n", c.Shape.BorderStyle)
	fmt.Fprintf(&sb, "border_width = %d\n", c.Shape.BorderStrokeWidth)
	fmt.Fprintf(&sb, "color = %s\n", c.Shape.Color)
	fmt.Fprintf(&sb, "stroke_width = %d\n", c.Shape.StrokeWidth)
	sb.WriteString("\n")

	if c.Save.Set {
		sb.WriteString("[save]\n")
		if c.Save.Folder != "" {
			fmt.Fprintf(&sb, "folder = %s\n", c.Save.Folder)
		}
		if c.Save.Filename != "" {
			fmt.Fprintf(&sb, "filename = %s\n", c.Save.Filename)
		}
		if c.Save.ImageType != "" {
			fmt.Fprintf(&sb, "image_type = %s\n", c.Save.ImageType)
		}
		writeOptionalBool(&sb, "transparent", c.Save.Transparent)
		writeOptionalBool(&sb, "include_image", c.Save.IncludeImage)
		writeOptionalBool(&sb, "include_text", c.Save.IncludeText)
		writeOptionalBool(&sb, "crop_to_image_size", c.Save.CropToImageSize)
		writeOptionalBool(&sb, "copy_to_gallery", c.Save.CopyToGallery)
		sb.WriteString("\n")
	}

	if c.Permission != (Permission{}) {
		sb.WriteString("[permission]\n")
		fmt.Fprintf(&sb, "title = %q\n", c.Permission.Title)
		fmt.Fprintf(&sb, "message = %q\n", c.Permission.Message)
		sb.WriteString("\n")
	}

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// PreferenceSource returns the [save] section as a preference source, or nil
// when the section is absent.
func (c *Config) PreferenceSource() toolbar.PreferenceSource {
	if !c.Save.Set {
		return nil
	}
	s := c.Save
	return func() (toolbar.SavePreference, error) {
		return toolbar.SavePreference{
			Folder:          s.Folder,
			Filename:        s.Filename,
			Transparent:     s.Transparent,
			ImageType:       s.ImageType,
			IncludeImage:    s.IncludeImage,
			IncludeText:     s.IncludeText,
			CropToImageSize: s.CropToImageSize,
			CopyToGallery:   s.CopyToGallery,
		}, nil
	}
}

// ToolbarOptions converts the configuration into controller options.
// Validation is left to toolbar.New.
func (c *Config) ToolbarOptions() []toolbar.Option {
	opts := []toolbar.Option{
		toolbar.WithPalette(c.Palette),
		toolbar.WithDefaultColorIndex(c.ColorIndex),
		toolbar.WithAlphaLevels(c.Alphas),
		toolbar.WithDefaultWidth(c.Widths.Default),
		toolbar.WithWidthBounds(c.Widths.Min, c.Widths.Max),
		toolbar.WithWidthStep(c.Widths.Step),
		toolbar.WithShapeConfiguration(c.Shape),
		toolbar.WithTouchEnabled(c.TouchEnabled),
		toolbar.WithDefaultFolder(c.SaveDir),
	}
	if src := c.PreferenceSource(); src != nil {
		opts = append(opts, toolbar.WithPreferenceSource(src))
	}
	if c.Permission != (Permission{}) {
		opts = append(opts, toolbar.WithPermissionPrompt(c.Permission.Title, c.Permission.Message))
	}
	return opts
}

func joinColors(cs []toolbar.Color) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinAlphas(as []toolbar.AlphaLevel) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

func writeOptionalBool(sb *strings.Builder, key string, b *bool) {
	if b != nil {
		fmt.Fprintf(sb, "%s = %v\n", key, *b)
	}
}
