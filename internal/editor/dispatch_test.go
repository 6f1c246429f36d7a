package editor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/C0d3-5t3w/C-textedit/internal/keys"
)

func press(e *Editor, ks ...keys.Key) Action {
	var a Action
	for _, k := range ks {
		a = e.ProcessKey(k)
	}
	return a
}

func runes(s string) []keys.Key {
	out := make([]keys.Key, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = keys.Key(s[i])
	}
	return out
}

func TestProcessKey_Typing(t *testing.T) {
	e, _ := newEditor()
	press(e, runes("ab\tc")...)
	press(e, keys.Enter)
	press(e, runes("d")...)
	require.Equal(t, "ab\tc\nd\n", text(e))

	press(e, keys.Backspace, keys.Ctrl('h'))
	require.Equal(t, "ab\tc\n", text(e))

	press(e, keys.Ctrl('z'), keys.Ctrl('z'))
	require.Equal(t, "ab\tc\nd\n", text(e))
	press(e, keys.Ctrl('y'))
	require.Equal(t, "ab\tc\n\n", text(e))
}

func TestProcessKey_IgnoredKeys(t *testing.T) {
	e, _ := newEditor("x")
	for _, k := range []keys.Key{keys.Ctrl('l'), keys.Escape, keys.Ctrl('a'), keys.Null} {
		require.Equal(t, ActionNone, press(e, k))
	}
	require.Equal(t, "x\n", text(e))
	require.Zero(t, e.hist.Len())
}

func TestProcessKey_Actions(t *testing.T) {
	e, _ := newEditor()
	require.Equal(t, ActionBrowser, press(e, keys.Ctrl('b')))
	require.Equal(t, ActionShell, press(e, keys.Ctrl('t')))
	require.Equal(t, ActionHelp, press(e, keys.Ctrl('g')))
	require.Equal(t, ActionDiff, press(e, keys.Ctrl('d')))
	require.Equal(t, ActionLineNumbers, press(e, keys.Ctrl('n')))
	require.Equal(t, ActionSavePrompt, press(e, keys.Ctrl('s')))
	require.Equal(t, ActionNone, press(e, keys.Ctrl('r')))
	require.Equal(t, ActionNone, press(e, keys.Ctrl('f')))
	require.Equal(t, "Search functionality not implemented", e.StatusMessage())
}

func TestProcessKey_SaveNamed(t *testing.T) {
	e, _ := newEditor()
	require.NoError(t, e.Open(filepath.Join(t.TempDir(), "a.txt")))
	press(e, runes("x")...)
	require.Equal(t, ActionSaved, press(e, keys.Ctrl('s')))
	require.Equal(t, ActionReloaded, press(e, keys.Ctrl('r')))
}

func TestProcessKey_QuitCountdownResets(t *testing.T) {
	e, _ := newEditor()
	press(e, runes("x")...)

	require.Equal(t, ActionNone, press(e, keys.Ctrl('q')))
	require.Equal(t, ActionNone, press(e, keys.Ctrl('q')))
	press(e, keys.ArrowLeft)

	for i := 0; i < 3; i++ {
		require.Equal(t, ActionNone, press(e, keys.Ctrl('q')))
	}
	require.Equal(t, ActionQuit, press(e, keys.Ctrl('q')))
}

func TestProcessKey_CopyPasteWithMark(t *testing.T) {
	e, _ := newEditor("hello")
	press(e, keys.Ctrl('k'), keys.End, keys.Ctrl('c'), keys.Enter, keys.Ctrl('v'))
	require.Equal(t, "hello\nhello\n", text(e))
}

func TestProcessKey_Delete(t *testing.T) {
	e, _ := newEditor("abc")
	press(e, keys.Delete)
	require.Equal(t, "bc\n", text(e))
}
