package notify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/sketchbar/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func captureSends(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	old := send
	send = func(title, body string, opts platform.Options) error {
		got = append(got, sent{title, body, opts})
		return nil
	}
	t.Cleanup(func() { send = old })
	return &got
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("SKETCHBAR_NOTIFY_TITLE", "Doodles")
	t.Setenv("SKETCHBAR_NOTIFY_SAVE_TEXT", "Wrote %s")
	t.Setenv("SKETCHBAR_NOTIFY_COPY_TEXT", "")
	prefs := LoadPreferences()
	if prefs.Title != "Doodles" {
		t.Fatalf("Title = %q", prefs.Title)
	}
	if prefs.Events[EventSave].Template != "Wrote %s" {
		t.Fatalf("save template = %q", prefs.Events[EventSave].Template)
	}
	if prefs.Events[EventCopy].Template != DefaultPreferences().Events[EventCopy].Template {
		t.Fatalf("empty env should keep default copy template")
	}
}

func TestSavedOnlyWhenEnabled(t *testing.T) {
	got := captureSends(t)
	n := New(DefaultPreferences())

	n.Saved(true, "a.png")
	if len(*got) != 0 {
		t.Fatalf("disabled notifier sent %v", *got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n.Enable(EventSave, true)
	n.Saved(true, path)
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	if (*got)[0].body != "Saved "+path || (*got)[0].opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", (*got)[0])
	}
}

func TestSavedFailure(t *testing.T) {
	got := captureSends(t)
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Saved(false, "/tmp/out/sketch.png")
	if len(*got) != 0 {
		t.Fatalf("failure event is toggled separately, got %v", *got)
	}
	n.Enable(EventSaveFailed, true)
	n.Saved(false, "/tmp/out/sketch.png")
	if len(*got) != 1 || (*got)[0].body != "Could not save sketch.png" {
		t.Fatalf("unexpected notifications %+v", *got)
	}
}

func TestCopyDefaultDetail(t *testing.T) {
	got := captureSends(t)
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	n.Copy(" ")
	if len(*got) != 1 || (*got)[0].body != "Copied sketch to the gallery" {
		t.Fatalf("unexpected notifications %+v", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.Copy("x")
	nilNotifier.Saved(true, "x")
}
