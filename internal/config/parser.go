package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/sketchbar/internal/theme"
	"github.com/example/sketchbar/internal/toolbar"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			if currentSection == "save" {
				cfg.Save.Set = true
			}
			continue
		}

		// Parse Key = Value or Key: Value. Colors contain no '=' so the
		// first separator wins.
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := unquote(strings.TrimSpace(parts[1]))

		var err error
		switch {
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "palette":
			err = setPaletteField(cfg, key, value)
		case currentSection == "alpha":
			err = setAlphaField(cfg, key, value)
		case currentSection == "width":
			err = setWidthField(&cfg.Widths, key, value)
		case currentSection == "shape":
			err = setShapeField(&cfg.Shape, key, value)
		case currentSection == "save":
			err = setSaveField(&cfg.Save, key, value)
		case currentSection == "permission":
			setPermissionField(&cfg.Permission, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		if s, err := strconv.Unquote(value); err == nil {
			return s
		}
		return value[1 : len(value)-1]
	}
	return value
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "touch_enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		cfg.TouchEnabled = b
	}
	return nil
}

func setPaletteField(cfg *Config, key, value string) error {
	switch key {
	case "colors":
		var colors []toolbar.Color
		for _, item := range splitList(value) {
			c, err := toolbar.ParseColor(item)
			if err != nil {
				return fmt.Errorf("invalid color %q: %w", item, err)
			}
			colors = append(colors, c)
		}
		cfg.Palette = colors
	case "default_index":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		cfg.ColorIndex = n
	}
	return nil
}

func setAlphaField(cfg *Config, key, value string) error {
	if key != "levels" {
		return nil
	}
	var levels []toolbar.AlphaLevel
	for _, item := range splitList(value) {
		levels = append(levels, toolbar.AlphaLevel(strings.ToUpper(item)))
	}
	cfg.Alphas = levels
	return nil
}

func setWidthField(w *Widths, key, value string) error {
	n, err := parseInt(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "default":
		w.Default = n
	case "min":
		w.Min = n
	case "max":
		w.Max = n
	case "step":
		w.Step = n
	}
	return nil
}

func setShapeField(s *toolbar.ShapeConfiguration, key, value string) error {
	switch key {
	case "border_color", "color":
		c, err := toolbar.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		if key == "color" {
			s.Color = c
		} else {
			s.BorderColor = c
		}
	case "border_style":
		switch {
		case strings.EqualFold(value, string(toolbar.BorderDashed)):
			s.BorderStyle = toolbar.BorderDashed
		case strings.EqualFold(value, string(toolbar.BorderSolid)):
			s.BorderStyle = toolbar.BorderSolid
		default:
			return fmt.Errorf("invalid border style %q", value)
		}
	case "border_width", "stroke_width":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if key == "border_width" {
			s.BorderStrokeWidth = n
		} else {
			s.StrokeWidth = n
		}
	}
	return nil
}

func setSaveField(s *Save, key, value string) error {
	switch key {
	case "folder":
		s.Folder = value
	case "filename":
		s.Filename = value
	case "image_type":
		switch t := toolbar.ImageType(strings.ToLower(value)); t {
		case toolbar.ImagePNG, toolbar.ImageJPG:
			s.ImageType = t
		default:
			return fmt.Errorf("invalid image type %q", value)
		}
	case "transparent", "include_image", "include_text", "crop_to_image_size", "copy_to_gallery":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		p := toolbar.Bool(b)
		switch key {
		case "transparent":
			s.Transparent = p
		case "include_image":
			s.IncludeImage = p
		case "include_text":
			s.IncludeText = p
		case "crop_to_image_size":
			s.CropToImageSize = p
		case "copy_to_gallery":
			s.CopyToGallery = p
		}
	}
	return nil
}

func setPermissionField(p *Permission, key, value string) {
	switch key {
	case "title":
		p.Title = value
	case "message":
		p.Message = value
	}
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
