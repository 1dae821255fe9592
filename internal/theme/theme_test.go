package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	input := `
# comment
Name: Mine
background: #102030
SwatchSelected: #FF000080
Unknown: #FFFFFF
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x20, 0x30, 0xFF}) {
		t.Errorf("Background = %+v", th.Background)
	}
	if th.SwatchSelected != (color.RGBA{0xFF, 0, 0, 0x80}) {
		t.Errorf("SwatchSelected = %+v", th.SwatchSelected)
	}
	if th.ButtonText != Default().ButtonText {
		t.Errorf("unset keys should keep defaults")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: 123456")); err == nil {
		t.Fatal("expected error for color without #")
	}
}

func TestLoaderEmbeddedAndFile(t *testing.T) {
	l := &Loader{}
	th, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load(dark): %v", err)
	}
	if th.Name != "Dark" {
		t.Fatalf("Name = %q", th.Name)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.theme")
	if err := os.WriteFile(path, []byte("Name: Custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err = l.Load(path)
	if err != nil || th.Name != "Custom" {
		t.Fatalf("Load(path) = %v, %v", th, err)
	}

	l.ConfigDir = dir
	th, err = l.Load("custom")
	if err != nil || th.Name != "Custom" {
		t.Fatalf("Load(custom) from config dir = %v, %v", th, err)
	}

	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestEmbeddedNames(t *testing.T) {
	names := EmbeddedNames()
	if len(names) != 2 || names[0] != "dark" || names[1] != "high_contrast" {
		t.Fatalf("EmbeddedNames = %v", names)
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, f := range Fields(Default()) {
		col, err := ParseColor(Hex(f.Color))
		if err != nil || col != f.Color {
			t.Fatalf("%s: round trip %v -> %s -> %v (%v)", f.Name, f.Color, Hex(f.Color), col, err)
		}
	}
}
