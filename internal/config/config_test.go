package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/example/sketchbar/internal/toolbar"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/sketches
touch_enabled = false

[palette]
colors = #000000, red, #00ff0080
default_index = 2

[alpha]
levels = 40, 80, ff

[width]
default = 2
min = 2
max = 10
step = 4

[shape]
border_style = solid
color = #123456

[save]
image_type = jpg
transparent = false
copy_to_gallery = true

[permission]
title = "Storage"
message = "Allow saving sketches?"

[notify]
save = true
copy = false

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/sketches" {
		t.Errorf("Expected save_dir '/tmp/sketches', got '%s'", cfg.SaveDir)
	}
	if cfg.TouchEnabled {
		t.Error("Expected touch_enabled to be false")
	}
	wantPalette := []toolbar.Color{"#000000", "#FF0000", "#00FF0080"}
	if !reflect.DeepEqual(cfg.Palette, wantPalette) {
		t.Errorf("Palette = %v, want %v", cfg.Palette, wantPalette)
	}
	if cfg.ColorIndex != 2 {
		t.Errorf("ColorIndex = %d", cfg.ColorIndex)
	}
	wantAlphas := []toolbar.AlphaLevel{"40", "80", "FF"}
	if !reflect.DeepEqual(cfg.Alphas, wantAlphas) {
		t.Errorf("Alphas = %v, want %v", cfg.Alphas, wantAlphas)
	}
	if cfg.Widths != (Widths{Default: 2, Min: 2, Max: 10, Step: 4}) {
		t.Errorf("Widths = %+v", cfg.Widths)
	}
	if cfg.Shape.BorderStyle != toolbar.BorderSolid || cfg.Shape.Color != "#123456" {
		t.Errorf("Shape = %+v", cfg.Shape)
	}
	if cfg.Shape.StrokeWidth != 3 {
		t.Errorf("unset shape keys should keep defaults, got %+v", cfg.Shape)
	}
	if !cfg.Save.Set || cfg.Save.ImageType != toolbar.ImageJPG {
		t.Errorf("Save = %+v", cfg.Save)
	}
	if cfg.Permission.Message != "Allow saving sketches?" {
		t.Errorf("Permission = %+v", cfg.Permission)
	}
	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad bool", "[notify]\nsave = maybe\n"},
		{"bad width", "[width]\nmin = wide\n"},
		{"bad color", "[palette]\ncolors = #000000, nope\n"},
		{"bad image type", "[save]\nimage_type = gif\n"},
		{"bad border", "[shape]\nborder_style = dotted\n"},
		{"bad root bool", "touch_enabled = sometimes\n"},
	}
	for _, tt := range tests {
		if _, err := Parse(strings.NewReader(tt.input)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/sketches

[palette]
colors = #000000, #FFFFFF
default_index = 1

[save]
folder = out
image_type = png
transparent = true
include_text = false

[permission]
title = "Photos"
message = "Needs access = yes"

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if !reflect.DeepEqual(cfg.Palette, cfg2.Palette) || cfg.ColorIndex != cfg2.ColorIndex {
		t.Errorf("Palette mismatch: %v/%d vs %v/%d", cfg.Palette, cfg.ColorIndex, cfg2.Palette, cfg2.ColorIndex)
	}
	if !reflect.DeepEqual(cfg.Save, cfg2.Save) {
		t.Errorf("Save mismatch: %+v vs %+v", cfg.Save, cfg2.Save)
	}
	if cfg.Permission != cfg2.Permission {
		t.Errorf("Permission mismatch: %+v vs %+v", cfg.Permission, cfg2.Permission)
	}
	if cfg.Shape != cfg2.Shape || cfg.Widths != cfg2.Widths {
		t.Errorf("Shape/Widths mismatch")
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

type nopCanvas struct{ toolbar.Canvas }

func TestToolbarOptions(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`save_dir = shots
[palette]
colors = #000000, #FF0000
default_index = 1
[width]
default = 4
min = 2
max = 8
step = 2
[permission]
title = T
message = M
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, err := toolbar.New(nopCanvas{}, cfg.ToolbarOptions()...)
	if err != nil {
		t.Fatalf("toolbar.New: %v", err)
	}
	st := c.State()
	if st.Color != "#FF0000" || st.Width != 4 || st.Alpha != "FF" {
		t.Fatalf("State = %+v", st)
	}
	if p := c.PermissionPrompt(); p.Title != "T" || p.Message != "M" {
		t.Fatalf("PermissionPrompt = %+v", p)
	}
}

func TestToolbarOptionsSavePreference(t *testing.T) {
	cfg := New()
	if cfg.PreferenceSource() != nil {
		t.Fatal("expected no preference source without a [save] section")
	}
	cfg.Save = Save{Set: true, ImageType: toolbar.ImagePNG}
	_, err := cfg.PreferenceSource()()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	r := toolbar.SaveResolver{Source: cfg.PreferenceSource()}
	var perr *toolbar.InvalidPreferenceError
	if _, err := r.Resolve(); !errors.As(err, &perr) || perr.Field != "transparent" {
		t.Fatalf("expected missing transparent, got %v", err)
	}
}

func TestToolbarOptionsRejectInvalid(t *testing.T) {
	cfg := New()
	cfg.Widths.Min = 20
	var cfgErr *toolbar.ConfigurationError
	if _, err := toolbar.New(nopCanvas{}, cfg.ToolbarOptions()...); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestLoaderPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	l := NewLoader("1.0.0", "")
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Widths.Max != toolbar.DefaultMaxWidth {
		t.Fatalf("Load defaults = %+v, %v", cfg, err)
	}

	saved := New()
	saved.SaveDir = "/srv/sketches"
	if err := SaveFile(saved, DefaultPath()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := l.GetConfigPath(); got != filepath.Join(home, ".config", "sketchbar", "config.rc") {
		t.Fatalf("GetConfigPath = %q", got)
	}
	cfg, err = l.Load()
	if err != nil || cfg.SaveDir != "/srv/sketches" {
		t.Fatalf("Load = %+v, %v", cfg, err)
	}

	override := filepath.Join(t.TempDir(), "other.rc")
	if err := os.WriteFile(override, []byte("save_dir = elsewhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l.OverridePath = override
	cfg, err = l.Load()
	if err != nil || cfg.SaveDir != "elsewhere" {
		t.Fatalf("Load override = %+v, %v", cfg, err)
	}
}

func TestLoaderReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rc")
	if err := os.WriteFile(path, []byte("[width]\nmax = x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader("dev", path).Load()
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error naming %s, got %v", path, err)
	}
}
