package sketchui

import (
	"golang.org/x/mobile/event/key"
)

// KeyShortcut identifies a key combination.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

var shortcuts = map[KeyShortcut]Hit{
	{Rune: 'z', Modifiers: key.ModControl}:                {Action: ActionUndo},
	{Rune: 'z', Modifiers: key.ModControl | key.ModShift}: {Action: ActionUndoShape},
	{Rune: 's', Modifiers: key.ModControl}:                {Action: ActionSave},
	{Rune: 'q', Modifiers: key.ModControl}:                {Action: ActionClose},
	{Rune: 'l', Modifiers: key.ModControl}:                {Action: ActionClear},
	{Rune: 'w'}:                                           {Action: ActionWidth},
	{Rune: 'e'}:                                           {Action: ActionErase},
	{Rune: 't'}:                                           {Action: ActionToggleTouch},
	{Rune: '+'}:                                           {Action: ActionFontBigger},
	{Rune: '-'}:                                           {Action: ActionFontSmaller},
	{Code: key.CodeDeleteForward}:                         {Action: ActionDeleteShape},
	{Code: key.CodeEscape}:                                {Action: ActionClose},
}

// KeyAction maps a key press to a toolbar action. Digits 1-9 select the
// matching swatch.
func KeyAction(e key.Event) Hit {
	if e.Direction != key.DirPress {
		return Hit{}
	}
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	r := e.Rune
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	runeMods := mods
	if r < 'a' || r > 'z' {
		// Shift is needed to type some symbols.
		runeMods &^= key.ModShift
	}
	if runeMods == 0 && r >= '1' && r <= '9' {
		return Hit{Action: ActionSwatch, Index: int(r - '1')}
	}
	if r > 0 {
		if hit, ok := shortcuts[KeyShortcut{Rune: r, Modifiers: runeMods}]; ok {
			return hit
		}
	}
	if hit, ok := shortcuts[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
		return hit
	}
	return Hit{}
}
