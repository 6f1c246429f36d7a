package editor

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"

	"github.com/C0d3-5t3w/C-textedit/internal/buffer"
	"github.com/C0d3-5t3w/C-textedit/internal/keys"
)

// Action is work a key asks of the surrounding UI.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSavePrompt
	ActionSaved
	ActionReloaded
	ActionBrowser
	ActionShell
	ActionHelp
	ActionDiff
	ActionLineNumbers
)

// ProcessKey applies one key in editing mode. Document keys are handled
// here; keys that open panels or leave the program come back as an Action.
func (e *Editor) ProcessKey(k keys.Key) Action {
	km := keys.Editor
	if !key.Matches(k, km.Quit) {
		defer e.ResetQuit()
	}

	switch {
	case key.Matches(k, km.Quit):
		if e.RequestQuit() {
			return ActionQuit
		}
	case key.Matches(k, km.Newline):
		e.TypeNewline()
	case key.Matches(k, km.Save):
		if err := e.Save(); errors.Is(err, buffer.ErrNoFilename) {
			return ActionSavePrompt
		} else if err == nil {
			return ActionSaved
		}
	case key.Matches(k, km.Reload):
		if e.Reload() == nil {
			return ActionReloaded
		}
	case key.Matches(k, km.Browser):
		return ActionBrowser
	case key.Matches(k, km.Shell):
		return ActionShell
	case key.Matches(k, km.Help):
		return ActionHelp
	case key.Matches(k, km.Diff):
		return ActionDiff
	case key.Matches(k, km.Find):
		e.Find()
	case key.Matches(k, km.LineNumbers):
		e.ToggleLineNumbers()
		return ActionLineNumbers
	case key.Matches(k, km.Undo):
		e.Undo()
	case key.Matches(k, km.Redo):
		e.Redo()
	case key.Matches(k, km.Mark):
		e.ToggleMark()
	case key.Matches(k, km.Copy):
		e.Copy()
	case key.Matches(k, km.Paste):
		e.Paste()
	case key.Matches(k, km.Backspace):
		e.Backspace()
	case key.Matches(k, km.Delete):
		e.ForwardDelete()
	case key.Matches(k, km.Up, km.Down, km.Left, km.Right, km.Home, km.End, km.PageUp, km.PageDown):
		e.MoveCursor(k)
	case key.Matches(k, km.Refresh, km.Escape):
	default:
		if k.Insertable() {
			e.TypeChar(byte(k))
		}
	}
	return ActionNone
}
