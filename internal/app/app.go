// Package app contains the root application model.
package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/trace"

	"github.com/C0d3-5t3w/C-textedit/internal/browser"
	"github.com/C0d3-5t3w/C-textedit/internal/cachemanager"
	"github.com/C0d3-5t3w/C-textedit/internal/clipboard"
	"github.com/C0d3-5t3w/C-textedit/internal/config"
	"github.com/C0d3-5t3w/C-textedit/internal/editor"
	"github.com/C0d3-5t3w/C-textedit/internal/keys"
	"github.com/C0d3-5t3w/C-textedit/internal/log"
	"github.com/C0d3-5t3w/C-textedit/internal/pubsub"
	"github.com/C0d3-5t3w/C-textedit/internal/shell"
	"github.com/C0d3-5t3w/C-textedit/internal/store"
	"github.com/C0d3-5t3w/C-textedit/internal/syntax"
	"github.com/C0d3-5t3w/C-textedit/internal/watcher"
)

// saveMute hides the watcher notice caused by our own writes.
const saveMute = time.Second

// statusTick re-renders so expired status messages disappear.
const statusTick = time.Second

type mode int

const (
	modeEdit mode = iota
	modeBrowser
	modeShell
	modeSaveAs
	modeHelp
	modeDiff
)

// Services are the collaborators the model does not own outright.
// Every field is optional.
type Services struct {
	Store      *store.Store
	Runner     shell.Runner
	Cache      cachemanager.CacheManager[[]browser.Entry]
	Sink       clipboard.Sink
	Clock      editor.Clock
	Tracer     trace.Tracer
	ConfigPath string
	WorkDir    string
}

// InputErrMsg reports that the terminal input stream failed.
type InputErrMsg struct{ Err error }

type tickMsg time.Time

// Model is the root application state.
type Model struct {
	cfg      config.Config
	services Services
	version  string

	ed      *editor.Editor
	browser *browser.Browser
	shell   *shellPane
	hl      *syntax.Highlighter
	theme   theme

	mode     mode
	prompt   textinput.Model
	help     help.Model
	pager    viewport.Model

	width  int
	height int

	debugMode   bool
	lastLog     string
	logListener *log.LogListener

	events        *pubsub.Broker[string]
	eventsCtx     context.Context
	eventsCancel  context.CancelFunc
	eventListener *pubsub.ContinuousListener[string]
	watcherHandle *watcher.Watcher

	quitting bool
	err      error
}

// New creates the application model. Open a file with Open before the
// program starts.
func New(cfg config.Config, svc Services, version string, debugMode bool) Model {
	if svc.Runner == nil {
		svc.Runner = shell.NewBridge(cfg.Shell.Path, shell.WithDir(svc.WorkDir), shell.WithTracer(svc.Tracer))
	}
	if svc.Sink == nil {
		svc.Sink = clipboard.NopSink{}
		if cfg.Clipboard.System {
			svc.Sink = clipboard.SystemSink{}
		}
	}

	ed := editor.New(editor.Config{
		TabSize:       cfg.Editor.TabSize,
		QuitTimes:     cfg.Editor.QuitTimes,
		StatusTimeout: cfg.Editor.StatusTimeout,
		LineNumbers:   cfg.Editor.LineNumbers,
		ClipboardSize: cfg.Limits.ClipboardSize,
		UndoCapacity:  cfg.Limits.UndoCapacity,
		UndoPayload:   cfg.Limits.UndoPayload,
		Sink:          svc.Sink,
		Clock:         svc.Clock,
		Tracer:        svc.Tracer,
	})
	ed.SetStatus("HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find | Ctrl-G = help")

	var bopts []browser.Option
	if svc.Cache != nil {
		bopts = append(bopts, browser.WithCache(svc.Cache))
	}
	if svc.WorkDir != "" {
		wd := svc.WorkDir
		bopts = append(bopts, browser.WithWorkDir(func() (string, error) { return wd, nil }))
	}

	prompt := textinput.New()
	prompt.Prompt = ""

	m := Model{
		cfg:       cfg,
		services:  svc,
		version:   version,
		ed:        ed,
		browser:   browser.New(bopts...),
		shell:     newShellPane(svc.Runner, max(cfg.Shell.ScrollbackSize, 1)),
		theme:     newTheme(cfg.Theme),
		prompt:    prompt,
		help:      help.New(),
		pager:     viewport.New(0, 0),
		debugMode: debugMode,
		events:    pubsub.NewBroker[string](),
	}
	m.eventsCtx, m.eventsCancel = context.WithCancel(context.Background())
	m.eventListener = pubsub.NewContinuousListener(m.eventsCtx, m.events)

	if cfg.Watch.Enabled {
		m.startWatcher()
	}
	if debugMode {
		m.logListener = log.NewListener(m.eventsCtx)
	}
	return m
}

// startWatcher forwards on-disk changes of the open file onto the event
// broker. The editor works fine without it, so failures are only logged.
func (m *Model) startWatcher() {
	w, err := watcher.New(watcher.Config{Debounce: m.cfg.Watch.Debounce})
	if err != nil {
		log.Warn(log.CatWatcher, "watcher unavailable", "error", err)
		return
	}
	ch, err := w.Start()
	if err != nil {
		log.Warn(log.CatWatcher, "watcher start failed", "error", err)
		_ = w.Stop()
		return
	}
	m.watcherHandle = w

	ctx, events := m.eventsCtx, m.events
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-ch:
				if !ok {
					return
				}
				events.Publish(pubsub.FileChanged, path)
			}
		}
	}()
}

// Editor exposes the editing session.
func (m Model) Editor() *editor.Editor { return m.ed }

// Events is the broker carrying file and shell events.
func (m Model) Events() *pubsub.Broker[string] { return m.events }

// Err is the input failure that ended the program, if any.
func (m Model) Err() error { return m.err }

// Open loads path into the editor. Cursor positions remembered in the
// store are restored, and the watcher follows the new file.
func (m *Model) Open(path string) error {
	if err := m.ed.Open(path); err != nil {
		return err
	}
	m.afterLoad()
	return nil
}

func (m *Model) afterLoad() {
	name := m.ed.Filename()
	m.refreshHighlighter()
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Retarget(name); err != nil {
			log.Warn(log.CatWatcher, "retarget failed", "path", name, "error", err)
		}
	}
	if st := m.services.Store; st != nil {
		key := absPath(name)
		if rf, err := st.RecentFile(context.Background(), key); err == nil {
			m.ed.SetCursor(rf.Cx, rf.Cy)
		}
		m.rememberCursor()
	}
	m.events.Publish(pubsub.FileLoaded, name)
}

func (m *Model) afterSave() {
	name := m.ed.Filename()
	m.refreshHighlighter()
	if m.watcherHandle != nil {
		m.watcherHandle.Mute(saveMute)
		if err := m.watcherHandle.Retarget(name); err != nil {
			log.Warn(log.CatWatcher, "retarget failed", "path", name, "error", err)
		}
	}
	m.rememberCursor()
	m.events.Publish(pubsub.FileSaved, name)
}

// rememberCursor stores the cursor for the open file.
func (m *Model) rememberCursor() {
	st, name := m.services.Store, m.ed.Filename()
	if st == nil || name == "" {
		return
	}
	pos := m.ed.Cursor()
	if err := st.TouchFile(context.Background(), absPath(name), pos.Cx, pos.Cy); err != nil {
		log.Warn(log.CatStore, "recording recent file failed", "path", name, "error", err)
	}
}

func (m *Model) refreshHighlighter() {
	m.hl = nil
	if m.cfg.Syntax.Enabled {
		m.hl = syntax.New(m.ed.Filename(), m.cfg.Syntax.Style, m.theme.palette)
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.eventListener.Listen(), tick()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(statusTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tick()

	case InputErrMsg:
		log.ErrorErr(log.CatInput, "input failed", msg.Err)
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit

	case keys.KeyEvent:
		return m.handleKey(msg.Key)

	case tea.KeyMsg:
		var cmds []tea.Cmd
		for _, k := range keys.FromTea(msg) {
			next, cmd := m.handleKey(k)
			m = next.(Model)
			cmds = append(cmds, cmd)
			if m.quitting {
				break
			}
		}
		return m, tea.Batch(cmds...)

	case keys.MouseEvent:
		if msg.LeftPress() {
			m.handleClick(msg.Col, msg.Row)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			m.handleClick(msg.X, msg.Y)
		}
		return m, nil

	case shellDoneMsg:
		return m.handleShellDone(msg), nil

	case pubsub.Event[string]:
		if msg.Type == pubsub.LogEvent {
			m.lastLog = msg.Payload
			if m.logListener == nil {
				return m, nil
			}
			return m, m.logListener.Listen()
		}
		if msg.Type == pubsub.FileChanged && msg.Payload == absPath(m.ed.Filename()) {
			m.ed.SetStatus("File changed on disk (Ctrl-R to reload)")
		}
		return m, m.eventListener.Listen()
	}
	return m, nil
}

// layout sizes every region from the window size.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	textRows := max(m.height-2, 1)
	editorRows, editorCols := textRows, m.width

	if m.shell.visible {
		paneRows := max(textRows/2, 3)
		editorRows = max(textRows-paneRows, 1)
		m.shell.setSize(m.width, paneRows)
	}
	if m.cfg.Shell.ScrollbackSize == 0 {
		m.shell.resize(m.width * (textRows / 2))
	}
	if m.browser.Visible() {
		editorCols = max(m.width-browser.Width(m.width), 1)
		m.browser.SetHeight(editorRows)
	}
	m.ed.SetScreen(editorRows, editorCols)

	m.help.Width = m.width
	m.pager.Width = m.width
	m.pager.Height = textRows
	m.prompt.Width = m.width
}

// handleKey routes one key to the focused region.
func (m Model) handleKey(k keys.Key) (tea.Model, tea.Cmd) {
	// The editor waits for a running command, as if it were run inline.
	if m.shell.running {
		return m, nil
	}
	switch m.mode {
	case modeBrowser:
		res := m.browser.HandleKey(k, opener{&m})
		if res.Status != "" {
			m.ed.SetStatus("%s", res.Status)
		}
		if res.Close {
			m.mode = modeEdit
			m.layout()
		}
		return m, nil

	case modeShell:
		cmd, closed := m.shell.handleKey(k)
		if closed {
			m.mode = modeEdit
			m.layout()
		}
		return m, cmd

	case modeSaveAs:
		return m.handlePromptKey(k)

	case modeHelp, modeDiff:
		if pageKey(&m.pager, k) {
			m.mode = modeEdit
		}
		return m, nil
	}

	switch m.ed.ProcessKey(k) {
	case editor.ActionQuit:
		m.rememberCursor()
		m.quitting = true
		return m, tea.Quit
	case editor.ActionSavePrompt:
		m.mode = modeSaveAs
		m.prompt.SetValue("")
		cmd := m.prompt.Focus()
		return m, cmd
	case editor.ActionSaved:
		m.afterSave()
	case editor.ActionReloaded:
		m.events.Publish(pubsub.FileLoaded, m.ed.Filename())
	case editor.ActionBrowser:
		res := m.browser.Toggle()
		if res.Status != "" {
			m.ed.SetStatus("%s", res.Status)
		}
		if m.browser.Visible() {
			m.mode = modeBrowser
		}
		m.layout()
	case editor.ActionShell:
		m.mode = modeShell
		cmd := m.shell.open(m.services.Store)
		m.layout()
		return m, cmd
	case editor.ActionHelp:
		m.mode = modeHelp
		m.pager.SetContent(renderHelp(m.version, m.width))
		m.pager.GotoTop()
	case editor.ActionDiff:
		if diff, err := m.ed.Diff(); err == nil && diff != "" {
			m.mode = modeDiff
			m.pager.SetContent(m.colorDiff(diff))
			m.pager.GotoTop()
		}
	case editor.ActionLineNumbers:
		if path := m.services.ConfigPath; path != "" {
			if err := config.SaveLineNumbers(path, m.ed.LineNumbers()); err != nil {
				log.Warn(log.CatConfig, "saving line numbers failed", "path", path, "error", err)
			}
		}
	}
	return m, nil
}

func (m Model) handlePromptKey(k keys.Key) (tea.Model, tea.Cmd) {
	switch {
	case k == keys.Escape || k == keys.Ctrl('q'):
		m.mode = modeEdit
		m.prompt.Blur()
		m.ed.SetStatus("Save aborted")
		return m, nil
	case k == keys.Enter:
		name := m.prompt.Value()
		if name == "" {
			return m, nil
		}
		m.mode = modeEdit
		m.prompt.Blur()
		if err := m.ed.SaveAs(name); err == nil {
			m.afterSave()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(k.Tea())
	m.ed.SetStatus("Save as: %s (ESC to cancel)", m.prompt.Value())
	return m, cmd
}

func (m Model) handleShellDone(msg shellDoneMsg) Model {
	m.shell.finish(msg)
	res := msg.result
	if msg.err != nil {
		m.ed.SetStatus("Shell error: %s", msg.err)
		return m
	}
	m.ed.SetStatus("Command exited with status %d", res.ExitCode)
	m.events.Publish(pubsub.ShellFinished, res.Command)
	if st := m.services.Store; st != nil {
		err := st.AddCommand(context.Background(), store.Command{
			RunID:    res.RunID,
			Command:  res.Command,
			ExitCode: res.ExitCode,
			Bytes:    int(res.Bytes),
			RanAt:    time.Now(),
		})
		if err != nil {
			log.Warn(log.CatStore, "recording command failed", "error", err)
		}
	}
	return m
}

// opener lets the browser open files through the model so the store and
// the watcher follow along.
type opener struct{ m *Model }

func (o opener) IsDirty() bool { return o.m.ed.IsDirty() }

func (o opener) Open(path string) error { return o.m.Open(path) }

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.rememberCursor()
	if m.eventsCancel != nil {
		m.eventsCancel()
	}
	m.events.Close()
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
