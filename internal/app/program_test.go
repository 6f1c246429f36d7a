package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"
)

func newProgram(t *testing.T) *teatest.TestModel {
	t.Helper()
	m := New(testConfig(), Services{Runner: &fakeRunner{output: "pane output\n"}}, "test", false)
	t.Cleanup(func() { _ = m.Close() })
	return teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
}

// waitFor blocks until one stretch of output holds every string.
func waitFor(t *testing.T, tm *teatest.TestModel, want ...string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		for _, s := range want {
			if !bytes.Contains(out, []byte(s)) {
				return false
			}
		}
		return true
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(10*time.Millisecond))
}

func TestProgram_TypeAndQuitWithConfirmation(t *testing.T) {
	tm := newProgram(t)

	waitFor(t, tm, "textedit -- version test")
	tm.Type("hello")
	waitFor(t, tm, "hello")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlQ})
	waitFor(t, tm, "Press Ctrl-Q 3 more times")
	for range 3 {
		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlQ})
	}

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	m, ok := fm.(Model)
	require.True(t, ok)
	require.Equal(t, []string{"hello"}, m.Editor().Buffer().Lines())
	require.True(t, m.Editor().IsDirty())
}

func TestProgram_ShellPane(t *testing.T) {
	tm := newProgram(t)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlT})
	waitFor(t, tm, "Shell")
	tm.Type("ls")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitFor(t, tm, "pane output", "Command exited with status 0")

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlQ})

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	m := fm.(Model)
	require.Equal(t, modeEdit, m.mode)
	require.False(t, m.shell.visible)
}
