package viewer

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code identifies the key.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Action names.
const (
	ActionPanLeft  = "pan-left"
	ActionPanRight = "pan-right"
	ActionZoomIn   = "zoom-in"
	ActionZoomOut  = "zoom-out"
	ActionDelete   = "delete"
	ActionCopy     = "copy"
	ActionExport   = "export"
	ActionQuit     = "quit"
)

// DefaultShortcuts returns the built-in key bindings.
func DefaultShortcuts() map[KeyShortcut]string {
	return map[KeyShortcut]string{
		{Code: key.CodeLeftArrow}:                    ActionPanLeft,
		{Code: key.CodeRightArrow}:                   ActionPanRight,
		{Rune: '+'}:                                  ActionZoomIn,
		{Rune: '='}:                                  ActionZoomIn,
		{Code: key.CodeKeypadPlusSign}:               ActionZoomIn,
		{Rune: '-'}:                                  ActionZoomOut,
		{Code: key.CodeKeypadHyphenMinus}:            ActionZoomOut,
		{Code: key.CodeDeleteForward}:                ActionDelete,
		{Code: key.CodeDeleteBackspace}:              ActionDelete,
		{Code: key.CodeC, Modifiers: key.ModControl}: ActionCopy,
		{Code: key.CodeS, Modifiers: key.ModControl}: ActionExport,
		{Rune: 'q'}:                                  ActionQuit,
	}
}

// lookup resolves e against bindings, first by key code and then by rune.
// Shift is ignored so '+' matches on layouts that need it.
func lookup(bindings map[KeyShortcut]string, e key.Event) (string, bool) {
	mods := e.Modifiers &^ key.ModShift
	if e.Code != key.CodeUnknown {
		if action, ok := bindings[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
			return action, true
		}
	}
	if e.Rune > 0 {
		if action, ok := bindings[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
			return action, true
		}
	}
	return "", false
}
