package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/C0d3-5t3w/C-textedit/internal/keys"
	"github.com/C0d3-5t3w/C-textedit/internal/log"
	"github.com/C0d3-5t3w/C-textedit/internal/shell"
	"github.com/C0d3-5t3w/C-textedit/internal/store"
)

// commandHistoryLimit is how many past commands Up/Down can recall.
const commandHistoryLimit = 100

// shellDoneMsg carries a finished command back to Update.
type shellDoneMsg struct {
	result shell.Result
	out    *shell.Scrollback
	err    error
}

// shellPane is the command prompt and its output window.
type shellPane struct {
	runner   shell.Runner
	out      *shell.Scrollback
	capacity int

	input  textinput.Model
	output viewport.Model

	visible bool
	running bool
	last    *shell.Result

	history []string // most recent first
	histIdx int      // -1 while typing a new command
}

func newShellPane(runner shell.Runner, capacity int) *shellPane {
	ti := textinput.New()
	ti.Prompt = "$ "
	ti.Placeholder = "command"
	return &shellPane{
		runner:   runner,
		out:      shell.NewScrollback(capacity),
		capacity: capacity,
		input:    ti,
		output:   viewport.New(0, 0),
		histIdx:  -1,
	}
}

// setSize lays the pane out in width x height cells: a title row, the
// output window and the prompt row.
func (p *shellPane) setSize(width, height int) {
	p.output.Width = width
	p.output.Height = max(height-2, 1)
	p.input.Width = max(width-len(p.input.Prompt)-1, 1)
}

// resize changes the retained output size when the screen changes.
func (p *shellPane) resize(capacity int) {
	if capacity == p.capacity || capacity < 1 {
		return
	}
	p.capacity = capacity
	p.out.Resize(capacity)
	p.refresh()
}

// open shows the pane and loads the command history.
func (p *shellPane) open(st *store.Store) tea.Cmd {
	p.visible = true
	p.histIdx = -1
	p.history = nil
	if st != nil {
		cmds, err := st.Commands(context.Background(), commandHistoryLimit)
		if err != nil {
			log.Warn(log.CatStore, "loading command history failed", "error", err)
		}
		p.history = cmds
	}
	return p.input.Focus()
}

func (p *shellPane) close() {
	p.visible = false
	p.input.Blur()
}

// handleKey applies k; it returns a command when a run starts.
func (p *shellPane) handleKey(k keys.Key) (tea.Cmd, bool) {
	km := keys.Shell
	switch {
	case key.Matches(k, km.Close):
		p.close()
		return nil, true
	case key.Matches(k, km.Run):
		return p.run(), false
	case key.Matches(k, km.PrevCmd):
		p.recall(1)
	case key.Matches(k, km.NextCmd):
		p.recall(-1)
	case key.Matches(k, km.ScrollUp):
		p.output.PageUp()
	case key.Matches(k, km.ScrollDown):
		p.output.PageDown()
	default:
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(k.Tea())
		return cmd, false
	}
	return nil, false
}

func (p *shellPane) recall(step int) {
	if len(p.history) == 0 {
		return
	}
	i := p.histIdx + step
	switch {
	case i < -1:
		i = -1
	case i >= len(p.history):
		i = len(p.history) - 1
	}
	p.histIdx = i
	if i == -1 {
		p.input.SetValue("")
		return
	}
	p.input.SetValue(p.history[i])
	p.input.CursorEnd()
}

// run starts the typed command. Output goes into a fresh scrollback that
// replaces the shown one when the command finishes.
func (p *shellPane) run() tea.Cmd {
	command := strings.TrimSpace(p.input.Value())
	if command == "" || p.running {
		return nil
	}
	p.running = true
	p.input.SetValue("")
	p.histIdx = -1

	runner, capacity := p.runner, p.capacity
	return func() tea.Msg {
		out := shell.NewScrollback(capacity)
		res, err := runner.Run(command, out)
		return shellDoneMsg{result: res, out: out, err: err}
	}
}

// finish installs a finished run. A failed spawn keeps the previous output.
func (p *shellPane) finish(msg shellDoneMsg) {
	p.running = false
	if errors.Is(msg.err, shell.ErrSpawn) || errors.Is(msg.err, shell.ErrPipe) {
		return
	}
	p.out = msg.out
	res := msg.result
	p.last = &res
	if len(p.history) == 0 || p.history[0] != res.Command {
		p.history = append([]string{res.Command}, p.history...)
	}
	p.refresh()
}

func (p *shellPane) refresh() {
	text := strings.ReplaceAll(p.out.String(), "\r\n", "\n")
	p.output.SetContent(ansi.Strip(text))
	p.output.GotoBottom()
}

func (p *shellPane) title() string {
	switch {
	case p.running:
		return " Shell (running...)"
	case p.last != nil:
		return fmt.Sprintf(" Shell: %s (exit %d, %s)", p.last.Command, p.last.ExitCode, p.last.Duration.Round(time.Millisecond))
	}
	return " Shell"
}
