package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C0d3-5t3w/C-textedit/internal/config"
	"github.com/C0d3-5t3w/C-textedit/internal/keys"
	"github.com/C0d3-5t3w/C-textedit/internal/pubsub"
	"github.com/C0d3-5t3w/C-textedit/internal/shell"
	"github.com/C0d3-5t3w/C-textedit/internal/store"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fakeRunner struct {
	output string
	exit   int
	err    error
	calls  []string
}

func (f *fakeRunner) Run(command string, out *shell.Scrollback) (shell.Result, error) {
	f.calls = append(f.calls, command)
	res := shell.Result{RunID: "run-" + command, Command: command, ExitCode: -1}
	if f.err != nil {
		return res, f.err
	}
	out.Reset()
	_, _ = out.Write([]byte(f.output))
	res.ExitCode = f.exit
	res.Bytes = int64(len(f.output))
	return res, nil
}

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.Watch.Enabled = false
	return cfg
}

// createTestModel returns a sized model with no store, watcher or shell.
func createTestModel(t *testing.T, svc Services) Model {
	t.Helper()
	if svc.Runner == nil {
		svc.Runner = &fakeRunner{}
	}
	m := New(testConfig(), svc, "test", false)
	t.Cleanup(func() { _ = m.Close() })
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, ks ...keys.Key) Model {
	t.Helper()
	for _, k := range ks {
		m = update(t, m, keys.KeyEvent{Key: k})
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, b := range []byte(s) {
		m = update(t, m, keys.KeyEvent{Key: keys.Key(b)})
	}
	return m
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApp_WindowSizeSetsScreen(t *testing.T) {
	m := createTestModel(t, Services{})

	assert.Equal(t, 80, m.width)
	assert.Equal(t, 24, m.height)
	assert.Equal(t, 22, m.ed.ScreenRows(), "status and message bars take two rows")
	assert.Equal(t, 80-4, m.ed.TextCols(), "gutter is on by default")
}

func TestApp_EmptyDocumentShowsWelcome(t *testing.T) {
	m := createTestModel(t, Services{})

	view := m.View()
	require.Contains(t, view, "textedit -- version test")
	require.Contains(t, view, "~")
	require.Contains(t, view, "[No Name] - 0 lines")
	require.Contains(t, view, "HELP: Ctrl-S = save")
}

func TestApp_TypingEditsDocument(t *testing.T) {
	m := createTestModel(t, Services{})
	m = typeText(t, m, "hi")
	m = press(t, m, keys.Enter)
	m = typeText(t, m, "there")

	require.Equal(t, []string{"hi", "there"}, m.ed.Buffer().Lines())
	view := m.View()
	require.Contains(t, view, "there")
	require.Contains(t, view, "[No Name] - 2 lines (modified)")
	require.Contains(t, view, "2/2")
	require.NotContains(t, view, "textedit -- version")
}

func TestApp_TeaKeyMessagesAreDecoded(t *testing.T) {
	m := createTestModel(t, Services{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})

	require.Equal(t, []string{"aXb"}, m.ed.Buffer().Lines())
}

func TestApp_SaveAsPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	m := createTestModel(t, Services{})
	m = typeText(t, m, "content")
	m = press(t, m, keys.Ctrl('s'))
	require.Equal(t, modeSaveAs, m.mode)
	require.Contains(t, m.View(), "Save as:  (ESC to cancel)")

	m = typeText(t, m, path)
	require.Contains(t, m.View(), "Save as: "+path)
	m = press(t, m, keys.Enter)

	require.Equal(t, modeEdit, m.mode)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "content\n", string(data))
	require.False(t, m.ed.IsDirty())
	require.Contains(t, m.View(), "8 bytes written to disk")
}

func TestApp_SaveAsPromptCancel(t *testing.T) {
	m := createTestModel(t, Services{})
	m = typeText(t, m, "x")
	m = press(t, m, keys.Ctrl('s'), keys.Escape)

	require.Equal(t, modeEdit, m.mode)
	require.Equal(t, "Save aborted", m.ed.StatusMessage())
	require.True(t, m.ed.IsDirty())
}

func TestApp_QuitCleanBuffer(t *testing.T) {
	m := createTestModel(t, Services{})
	next, cmd := m.Update(keys.KeyEvent{Key: keys.Ctrl('q')})
	m = next.(Model)

	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.View())
}

func TestApp_QuitDirtyBufferWarns(t *testing.T) {
	m := createTestModel(t, Services{})
	m = typeText(t, m, "x")

	for want := 3; want >= 1; want-- {
		next, cmd := m.Update(keys.KeyEvent{Key: keys.Ctrl('q')})
		m = next.(Model)
		require.Nil(t, cmd)
		require.Contains(t, m.ed.StatusMessage(), "Press Ctrl-Q")
	}
	_, cmd := m.Update(keys.KeyEvent{Key: keys.Ctrl('q')})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ShellPaneRunsCommand(t *testing.T) {
	runner := &fakeRunner{output: "hello from shell\n"}
	m := createTestModel(t, Services{Runner: runner})

	m = press(t, m, keys.Ctrl('t'))
	require.Equal(t, modeShell, m.mode)
	require.True(t, m.shell.visible)
	require.Less(t, m.ed.ScreenRows(), 22, "pane takes part of the screen")

	m = typeText(t, m, "echo hi")
	next, cmd := m.Update(keys.KeyEvent{Key: keys.Enter})
	m = next.(Model)
	require.NotNil(t, cmd)
	require.True(t, m.shell.running)

	m = press(t, m, keys.Key('x'), keys.Escape)
	require.Equal(t, modeShell, m.mode, "keys are ignored while a command runs")
	require.Empty(t, m.shell.input.Value())

	m = update(t, m, cmd())
	require.False(t, m.shell.running)
	require.Equal(t, []string{"echo hi"}, runner.calls)
	require.Equal(t, "Command exited with status 0", m.ed.StatusMessage())

	view := m.View()
	require.Contains(t, view, "hello from shell")
	require.Contains(t, view, "Shell: echo hi (exit 0")

	m = press(t, m, keys.Escape)
	require.Equal(t, modeEdit, m.mode)
	require.Equal(t, 22, m.ed.ScreenRows())
}

func TestApp_ShellSpawnFailureKeepsOutput(t *testing.T) {
	runner := &fakeRunner{output: "first\n"}
	m := createTestModel(t, Services{Runner: runner})
	m = press(t, m, keys.Ctrl('t'))
	m = typeText(t, m, "one")
	_, cmd := m.Update(keys.KeyEvent{Key: keys.Enter})
	m = update(t, m, cmd())

	runner.err = shell.ErrSpawn
	m = typeText(t, m, "two")
	next, cmd := m.Update(keys.KeyEvent{Key: keys.Enter})
	m = next.(Model)
	m = update(t, m, cmd())

	require.Contains(t, m.ed.StatusMessage(), "Shell error")
	require.Equal(t, "first\n", m.shell.out.String())
}

func TestApp_ShellOutputStripsANSI(t *testing.T) {
	runner := &fakeRunner{output: "\x1b[31mred\x1b[0m\r\n"}
	m := createTestModel(t, Services{Runner: runner})
	m = press(t, m, keys.Ctrl('t'))
	m = typeText(t, m, "color")
	_, cmd := m.Update(keys.KeyEvent{Key: keys.Enter})
	m = update(t, m, cmd())

	require.Contains(t, m.shell.output.View(), "red")
	require.NotContains(t, m.shell.output.View(), "\x1b[31m")
}

func TestApp_ShellHistoryFromStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	runner := &fakeRunner{output: "ok\n"}
	m := createTestModel(t, Services{Runner: runner, Store: st})
	m = press(t, m, keys.Ctrl('t'))
	for _, c := range []string{"make", "ls"} {
		m = typeText(t, m, c)
		_, cmd := m.Update(keys.KeyEvent{Key: keys.Enter})
		m = update(t, m, cmd())
	}
	m = press(t, m, keys.Escape)

	// A fresh pane reads the history back from the store.
	m2 := createTestModel(t, Services{Runner: runner, Store: st})
	m2 = press(t, m2, keys.Ctrl('t'))
	m2 = press(t, m2, keys.ArrowUp)
	require.Equal(t, "ls", m2.shell.input.Value())
	m2 = press(t, m2, keys.ArrowUp)
	require.Equal(t, "make", m2.shell.input.Value())
	m2 = press(t, m2, keys.ArrowUp)
	require.Equal(t, "make", m2.shell.input.Value(), "stops at the oldest")
	m2 = press(t, m2, keys.ArrowDown, keys.ArrowDown)
	require.Empty(t, m2.shell.input.Value())
}

func TestApp_HelpOverlay(t *testing.T) {
	m := createTestModel(t, Services{})
	m = press(t, m, keys.Ctrl('g'))
	require.Equal(t, modeHelp, m.mode)

	view := m.View()
	require.Contains(t, view, "Navigation")
	require.Contains(t, view, "esc: close")

	m = press(t, m, keys.Escape)
	require.Equal(t, modeEdit, m.mode)
}

func TestApp_DiffView(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "one\ntwo\n")
	m := createTestModel(t, Services{})
	require.NoError(t, m.Open(path))

	m = press(t, m, keys.Ctrl('d'))
	require.Equal(t, modeEdit, m.mode, "no changes, no diff page")
	require.Equal(t, "No changes", m.ed.StatusMessage())

	m = typeText(t, m, "zero")
	m = press(t, m, keys.Ctrl('d'))
	require.Equal(t, modeDiff, m.mode)
	view := m.View()
	require.Contains(t, view, "-one")
	require.Contains(t, view, "+zeroone")

	m = press(t, m, keys.Escape)
	require.Equal(t, modeEdit, m.mode)
}

func TestApp_BrowserOpensFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "from browser\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	m := createTestModel(t, Services{WorkDir: dir})
	m = press(t, m, keys.Ctrl('b'))
	require.Equal(t, modeBrowser, m.mode)
	require.Less(t, m.ed.TextCols(), 80-4)

	view := m.View()
	require.Contains(t, view, "[sub]")
	require.Contains(t, view, "a.txt")

	// ".", "..", "sub", "a.txt"
	m = press(t, m, keys.ArrowDown, keys.ArrowDown, keys.ArrowDown, keys.Enter)
	require.Equal(t, modeEdit, m.mode)
	require.Equal(t, filepath.Join(dir, "a.txt"), m.ed.Filename())
	require.Equal(t, []string{"from browser"}, m.ed.Buffer().Lines())
	require.Equal(t, 80-4, m.ed.TextCols())
}

func TestApp_BrowserRefusesDirtyDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x\n")

	m := createTestModel(t, Services{WorkDir: dir})
	m = typeText(t, m, "unsaved")
	m = press(t, m, keys.Ctrl('b'), keys.ArrowDown, keys.ArrowDown, keys.Enter)

	require.Equal(t, modeBrowser, m.mode)
	require.Equal(t, "WARNING!!! File has unsaved changes. Save first!", m.ed.StatusMessage())
	require.Empty(t, m.ed.Filename())
}

func TestApp_FileChangedNotice(t *testing.T) {
	path := writeFile(t, t.TempDir(), "watched.txt", "a\n")
	m := createTestModel(t, Services{})
	require.NoError(t, m.Open(path))

	m = update(t, m, pubsub.Event[string]{Type: pubsub.FileChanged, Payload: "/somewhere/else"})
	require.NotEqual(t, "File changed on disk (Ctrl-R to reload)", m.ed.StatusMessage())

	m = update(t, m, pubsub.Event[string]{Type: pubsub.FileChanged, Payload: path})
	require.Equal(t, "File changed on disk (Ctrl-R to reload)", m.ed.StatusMessage())
}

func TestApp_WatcherReportsExternalWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "watched.txt", "a\n")
	cfg := testConfig()
	cfg.Watch.Enabled = true
	cfg.Watch.Debounce = 20 * time.Millisecond

	m := New(cfg, Services{Runner: &fakeRunner{}}, "test", false)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Open(path))

	sub := m.Events().Subscribe(t.Context())
	require.NoError(t, os.WriteFile(path, []byte("b\n"), 0o644))

	require.Eventually(t, func() bool {
		select {
		case ev := <-sub:
			return ev.Type == pubsub.FileChanged && ev.Payload == path
		default:
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)
}

func TestApp_CursorRestoredFromStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	path := writeFile(t, t.TempDir(), "long.txt", "line one\nline two\nline three\n")

	m := createTestModel(t, Services{Store: st})
	require.NoError(t, m.Open(path))
	m = press(t, m, keys.ArrowDown, keys.ArrowDown, keys.ArrowRight, keys.ArrowRight)
	require.NoError(t, m.Close())

	m2 := createTestModel(t, Services{Store: st})
	require.NoError(t, m2.Open(path))
	pos := m2.ed.Cursor()
	require.Equal(t, 2, pos.Cy)
	require.Equal(t, 2, pos.Cx)
}

func TestApp_LineNumbersPersisted(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(cfgPath))

	m := createTestModel(t, Services{ConfigPath: cfgPath})
	m = press(t, m, keys.Ctrl('n'))
	require.False(t, m.ed.LineNumbers())

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "line_numbers: false")
}

func TestApp_InputErrorQuits(t *testing.T) {
	m := createTestModel(t, Services{})
	next, cmd := m.Update(InputErrMsg{Err: os.ErrClosed})
	m = next.(Model)

	require.ErrorIs(t, m.Err(), os.ErrClosed)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ClickMovesCursor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "click.txt", "first\nsecond\n")
	m := createTestModel(t, Services{})
	require.NoError(t, m.Open(path))

	// Zone registration is asynchronous in bubblezone.
	var z *zone.ZoneInfo
	for range 50 {
		_ = m.View()
		z = zone.Get(zoneText)
		if z != nil && !z.IsZero() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m = update(t, m, tea.MouseMsg{X: 4 + 3, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	pos := m.ed.Cursor()
	require.Equal(t, 1, pos.Cy)
	require.Equal(t, 3, pos.Cx)
}

func TestApp_SelectionAndCursorRender(t *testing.T) {
	m := createTestModel(t, Services{})
	m = typeText(t, m, "select me")
	m = press(t, m, keys.Home, keys.Ctrl('k'), keys.End)

	from, to := m.selection(0, len("select me"))
	assert.Equal(t, 0, from)
	assert.Equal(t, 9, to)

	view := m.View()
	require.True(t, strings.Contains(view, "select me"), "selected text is still drawn")
}
