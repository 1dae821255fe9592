package toolbar

import (
	"errors"
	"testing"
	"time"
)

type fakeCanvas struct {
	calls    []string
	undoID   int
	saved    []SaveCommand
	paths    []Path
	onUndo   func()
	base64   string
	base64Er error
}

func (f *fakeCanvas) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeCanvas) Clear() { f.record("clear") }
func (f *fakeCanvas) Undo() int {
	f.record("undo")
	if f.onUndo != nil {
		f.onUndo()
	}
	return f.undoID
}
func (f *fakeCanvas) UndoShape() int { f.record("undoShape"); return f.undoID }
func (f *fakeCanvas) DeleteSelectedShape() { f.record("deleteSelectedShape") }
func (f *fakeCanvas) UnselectShape() { f.record("unselectShape") }
func (f *fakeCanvas) AddPath(p Path) { f.record("addPath"); f.paths = append(f.paths, p) }
func (f *fakeCanvas) DeletePath(int) { f.record("deletePath") }
func (f *fakeCanvas) AddShape(AddShapeConfig) { f.record("addShape") }
func (f *fakeCanvas) IncreaseSelectedShapeFontSize() { f.record("increaseFont") }
func (f *fakeCanvas) DecreaseSelectedShapeFontSize() { f.record("decreaseFont") }
func (f *fakeCanvas) ChangeSelectedShapeText(string) { f.record("changeText") }
func (f *fakeCanvas) Save(cmd SaveCommand) { f.record("save"); f.saved = append(f.saved, cmd) }
func (f *fakeCanvas) Paths() []Path { f.record("paths"); return f.paths }
func (f *fakeCanvas) Base64(_ Base64Request, done func(error, string)) {
	f.record("base64")
	done(f.base64Er, f.base64)
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *fakeCanvas) {
	t.Helper()
	fc := &fakeCanvas{}
	c, err := New(fc, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, fc
}

func TestNewInitialState(t *testing.T) {
	c, _ := newTestController(t, WithDefaultColorIndex(1))
	st := c.State()
	if st.Color != "#FF0000" || st.Width != 3 || st.Alpha != "FF" || st.AlphaStep != StepUnset {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if st.ColorJustChanged {
		t.Fatalf("color changed flag should start clear")
	}
	if got := c.Sync().StrokeColor; got != "#FF0000FF" {
		t.Fatalf("StrokeColor = %q", got)
	}
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"index out of range", []Option{WithDefaultColorIndex(18)}},
		{"negative index", []Option{WithDefaultColorIndex(-1)}},
		{"empty palette", []Option{WithPalette(nil)}},
		{"min above max", []Option{WithWidthBounds(10, 2)}},
		{"empty alpha", []Option{WithAlphaLevels(nil)}},
		{"width outside bounds", []Option{WithDefaultWidth(30)}},
	}
	for _, tt := range tests {
		_, err := New(&fakeCanvas{}, tt.opts...)
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected ConfigurationError, got %v", tt.name, err)
		}
	}
	if _, err := New(nil); err == nil {
		t.Errorf("expected error for nil canvas")
	}
}

func TestSwatchTappedChangesColor(t *testing.T) {
	c, fc := newTestController(t)
	if err := c.SwatchTapped("#0000FF"); err != nil {
		t.Fatalf("SwatchTapped: %v", err)
	}
	if len(fc.calls) != 0 {
		t.Fatalf("color change must not command the canvas, got %v", fc.calls)
	}
	st := c.State()
	if st.Color != "#0000FF" || !st.ColorJustChanged || st.AlphaStep != StepUnset {
		t.Fatalf("unexpected state %+v", st)
	}
	p := c.Sync()
	if !p.ColorJustChanged || p.StrokeColor != "#0000FFFF" || p.SelectedIndex != 3 {
		t.Fatalf("unexpected props %+v", p)
	}
	if c.Sync().ColorJustChanged {
		t.Fatalf("color changed signal must be consumed by the first Sync")
	}
}

func TestSwatchRetapCyclesAlpha(t *testing.T) {
	c, _ := newTestController(t)
	want := []AlphaLevel{"AA", "77", "33", "77", "AA", "FF", "AA"}
	for i, w := range want {
		if err := c.SwatchTapped("#000000"); err != nil {
			t.Fatalf("tap %d: %v", i, err)
		}
		st := c.State()
		if st.Alpha != w {
			t.Fatalf("tap %d alpha = %s, want %s", i, st.Alpha, w)
		}
		if st.ColorJustChanged {
			t.Fatalf("tap %d: re-tap must not flag a color change", i)
		}
	}
	if got := c.Sync().StrokeColor; got != "#000000AA" {
		t.Fatalf("StrokeColor = %q", got)
	}
}

func TestSwatchChangeResetsAlphaDirection(t *testing.T) {
	c, _ := newTestController(t)
	_ = c.SwatchTapped("#000000") // FF -> AA, down
	_ = c.SwatchTapped("#000000") // AA -> 77, down
	_ = c.SwatchTapped("#FF0000")
	if st := c.State(); st.AlphaStep != StepUnset || st.Alpha != "77" {
		t.Fatalf("unexpected state after color change %+v", st)
	}
	_ = c.SwatchTapped("#FF0000")
	if st := c.State(); st.Alpha != "33" || st.AlphaStep != StepDown {
		t.Fatalf("unexpected state after re-tap %+v", st)
	}
}

func TestSwatchUnknownColor(t *testing.T) {
	c, _ := newTestController(t)
	before := c.State()
	if err := c.SwatchTapped("#123456"); !errors.Is(err, ErrUnknownColor) {
		t.Fatalf("expected ErrUnknownColor, got %v", err)
	}
	if c.State() != before {
		t.Fatalf("state changed on rejected tap")
	}
	if err := c.SwatchIndexTapped(99); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestEraseSentinelIsOutsideAlphaCycle(t *testing.T) {
	c, _ := newTestController(t)
	c.EraseTapped()
	p := c.Sync()
	if p.StrokeColor != EraseColor {
		t.Fatalf("erase stroke color = %q, want %q", p.StrokeColor, EraseColor)
	}
	if p.SelectedIndex != -1 {
		t.Fatalf("erase should not select a swatch, got %d", p.SelectedIndex)
	}
	before := c.State()
	if err := c.SwatchTapped(EraseColor); err != nil {
		t.Fatalf("SwatchTapped(erase): %v", err)
	}
	c.EraseTapped()
	after := c.State()
	if after != before {
		t.Fatalf("re-tapping erase changed state: %+v -> %+v", before, after)
	}
	if err := c.SwatchTapped("#000000"); err != nil {
		t.Fatalf("SwatchTapped: %v", err)
	}
	if st := c.State(); st.Color != "#000000" || st.Alpha != "FF" || !st.ColorJustChanged {
		t.Fatalf("leaving erase should be a color change, got %+v", st)
	}
}

func TestExplicitAlphaColorIsNotSuffixed(t *testing.T) {
	c, _ := newTestController(t, WithPalette([]Color{"#11223344", "#000000"}))
	if got := c.Sync().StrokeColor; got != "#11223344" {
		t.Fatalf("StrokeColor = %q", got)
	}
}

func TestWidthTapped(t *testing.T) {
	c, fc := newTestController(t, WithDefaultWidth(15))
	if got := c.WidthTapped(); got != 12 {
		t.Fatalf("WidthTapped = %d, want 12", got)
	}
	if c.Sync().StrokeWidth != 12 {
		t.Fatalf("Sync did not reflect width")
	}
	if len(fc.calls) != 0 {
		t.Fatalf("width tap must not command the canvas, got %v", fc.calls)
	}
}

func TestUndoRelaysSentinelWithoutStateChange(t *testing.T) {
	var got []int
	c, fc := newTestController(t, WithHandlers(Handlers{OnUndo: func(id int) { got = append(got, id) }}))
	before := c.State()
	fc.undoID = NothingToUndo
	if id := c.UndoTapped(); id != NothingToUndo {
		t.Fatalf("UndoTapped = %d", id)
	}
	fc.undoID = 7
	c.UndoShapeTapped()
	if len(got) != 2 || got[0] != NothingToUndo || got[1] != 7 {
		t.Fatalf("OnUndo received %v", got)
	}
	if c.State() != before {
		t.Fatalf("undo changed controller state")
	}
}

func TestHandlersMayReenterController(t *testing.T) {
	var c *Controller
	var width int
	c, fc := newTestController(t, WithHandlers(Handlers{OnUndo: func(int) { width = c.State().Width }}))
	fc.onUndo = func() { c.PathsChanged(0) }
	c.UndoTapped()
	if width != 3 {
		t.Fatalf("handler could not read state, got width %d", width)
	}
}

func TestClearNotifiesAfterCanvas(t *testing.T) {
	var order []string
	fc := &fakeCanvas{}
	c, err := New(fc, WithHandlers(Handlers{OnClear: func() { order = append(order, fc.calls...) }}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.ClearTapped()
	if len(order) != 1 || order[0] != "clear" {
		t.Fatalf("OnClear ran before canvas clear: %v", order)
	}
}

func TestDeleteSelectedShapeGating(t *testing.T) {
	c, fc := newTestController(t)
	if c.DeleteSelectedShapeTapped() {
		t.Fatalf("delete must be disabled while touch drawing is enabled")
	}
	if len(fc.calls) != 0 {
		t.Fatalf("unexpected canvas calls %v", fc.calls)
	}
	c.SetTouchEnabled(false)
	if !c.DeleteSelectedShapeTapped() {
		t.Fatalf("delete should be issued when touch drawing is disabled")
	}
	if len(fc.calls) != 1 || fc.calls[0] != "deleteSelectedShape" {
		t.Fatalf("unexpected canvas calls %v", fc.calls)
	}
}

func TestSaveTappedDefault(t *testing.T) {
	ts := time.Date(2022, time.January, 2, 3, 4, 5, 0, time.Local)
	c, fc := newTestController(t, WithClock(func() time.Time { return ts }), WithDefaultFolder("shots"))
	cmd, err := c.SaveTapped()
	if err != nil {
		t.Fatalf("SaveTapped: %v", err)
	}
	if len(fc.saved) != 1 || fc.saved[0] != cmd {
		t.Fatalf("canvas received %v, want %+v", fc.saved, cmd)
	}
	if cmd.Filename != "2022-1-02 03-04-05" || cmd.Folder != "shots" {
		t.Fatalf("unexpected command %+v", cmd)
	}
}

func TestSaveTappedInvalidPreferenceSkipsSave(t *testing.T) {
	c, fc := newTestController(t, WithPreferenceSource(func() (SavePreference, error) {
		return SavePreference{Filename: "x"}, nil
	}))
	_, err := c.SaveTapped()
	var perr *InvalidPreferenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected InvalidPreferenceError, got %v", err)
	}
	if len(fc.saved) != 0 {
		t.Fatalf("save must not be attempted, got %v", fc.saved)
	}
}

func TestCanvasEventsAreRelayed(t *testing.T) {
	var log []string
	var saved struct {
		ok   bool
		path string
	}
	h := Handlers{
		OnStrokeStart:           func() { log = append(log, "start") },
		OnStrokeChanged:         func() { log = append(log, "changed") },
		OnStrokeEnd:             func(p Path, g string) { log = append(log, "end:"+g) },
		OnPathsChange:           func(n int) { log = append(log, "paths") },
		OnShapeSelectionChanged: func(b bool) { log = append(log, "selection") },
		OnDrawingStateChanged:   func(DrawingState) { log = append(log, "state") },
		OnPathIDAssigned:        func() { log = append(log, "id") },
		OnStrokeChangedData:     func(Path) { log = append(log, "data") },
		OnSketchSaved:           func(ok bool, p string) { saved.ok, saved.path = ok, p },
	}
	c, _ := newTestController(t, WithHandlers(h))
	c.StrokeStarted()
	c.StrokeChanged()
	c.StrokeChangedData(Path{})
	c.StrokeEnded(Path{}, "released")
	c.PathIDAssigned()
	c.PathsChanged(1)
	c.ShapeSelectionChanged(true)
	c.DrawingStateChanged(DrawingState{CanUndo: true})
	c.SketchSaved(false, "/nowhere/x.png")

	want := []string{"start", "changed", "data", "end:released", "id", "paths", "selection", "state"}
	if len(log) != len(want) {
		t.Fatalf("events = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("events = %v, want %v", log, want)
		}
	}
	if saved.ok || saved.path != "/nowhere/x.png" {
		t.Fatalf("save failure not relayed verbatim: %+v", saved)
	}
}

func TestNilHandlersAreSkipped(t *testing.T) {
	c, _ := newTestController(t)
	c.StrokeStarted()
	c.SketchSaved(true, "x")
	c.UndoTapped()
	c.ClearTapped()
	c.CloseTapped()
}

func TestPassThroughCommands(t *testing.T) {
	c, fc := newTestController(t)
	fc.base64 = "aGk="
	c.AddPath(Path{Path: PathData{ID: 1}})
	c.DeletePath(1)
	c.AddShape(AddShapeConfig{ShapeType: ShapeCircle})
	c.UnselectShape()
	c.IncreaseSelectedShapeFontSize()
	c.DecreaseSelectedShapeFontSize()
	c.ChangeSelectedShapeText("hello")
	if got := c.Paths(); len(got) != 1 {
		t.Fatalf("Paths = %v", got)
	}
	var result string
	c.Base64(Base64Request{ImageType: ImagePNG}, func(err error, s string) { result = s })
	if result != "aGk=" {
		t.Fatalf("Base64 result = %q", result)
	}
	want := []string{"addPath", "deletePath", "addShape", "unselectShape", "increaseFont", "decreaseFont", "changeText", "paths", "base64"}
	if len(fc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
	for i := range want {
		if fc.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", fc.calls, want)
		}
	}
}

func TestPermissionPromptIsStored(t *testing.T) {
	c, _ := newTestController(t, WithPermissionPrompt("Storage", "Allow saving sketches"))
	if p := c.PermissionPrompt(); p.Title != "Storage" || p.Message != "Allow saving sketches" {
		t.Fatalf("PermissionPrompt = %+v", p)
	}
}
