package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"

	"github.com/C0d3-5t3w/C-textedit/internal/browser"
	"github.com/C0d3-5t3w/C-textedit/internal/editor"
	"github.com/C0d3-5t3w/C-textedit/internal/keys"
)

// Zone IDs for mouse hit testing.
const (
	zoneText    = "textedit-text"
	zoneBrowser = "textedit-browser"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}
	m.ed.Scroll()

	var body string
	switch m.mode {
	case modeHelp, modeDiff:
		body = m.pager.View()
	default:
		body = m.textArea()
		if m.browser.Visible() {
			body = lipgloss.JoinHorizontal(lipgloss.Top, m.browserPanel(), body)
		}
		if m.shell.visible {
			body = lipgloss.JoinVertical(lipgloss.Left, body, m.shellPanel())
		}
	}

	view := lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar(), m.messageBar())
	return zone.Scan(view)
}

func (m Model) textArea() string {
	rows := m.ed.ScreenRows()
	lines := make([]string, rows)
	for y := range rows {
		lines[y] = m.drawRow(y)
	}
	return zone.Mark(zoneText, strings.Join(lines, "\n"))
}

// drawRow renders screen row y of the text area: gutter, then either the
// document row or the filler past the end.
func (m Model) drawRow(y int) string {
	rowoff, _ := m.ed.Offsets()
	filerow := rowoff + y
	numRows := m.ed.NumRows()
	cur := m.ed.Cursor()

	var sb strings.Builder
	if m.ed.LineNumbers() {
		if filerow < numRows {
			sb.WriteString(m.theme.lineNumber.Render(fmt.Sprintf("%3d ", filerow+1)))
		} else {
			sb.WriteString(strings.Repeat(" ", editor.GutterWidth))
		}
	}

	if filerow < numRows {
		sb.WriteString(m.drawText(filerow))
		return sb.String()
	}

	tilde := m.theme.tilde.Render("~")
	if filerow == cur.Cy {
		tilde = m.theme.cursor.Render("~")
	}
	if numRows == 0 && y == m.ed.ScreenRows()/3 {
		sb.WriteString(tilde)
		sb.WriteString(m.welcome(m.ed.TextCols() - 1))
		return sb.String()
	}
	sb.WriteString(tilde)
	return sb.String()
}

// welcome centres the version banner in width columns.
func (m Model) welcome(width int) string {
	msg := truncate.String(fmt.Sprintf("textedit -- version %s", m.version), uint(max(width, 0)))
	padding := max((width-uniseg.StringWidth(msg))/2, 0)
	return strings.Repeat(" ", padding) + m.theme.text.Render(msg)
}

// drawText renders the visible part of a document row with syntax colors,
// the selection and the cursor.
func (m Model) drawText(filerow int) string {
	render := string(m.ed.Buffer().Row(filerow).Render())
	cells := make([]cell, len(render))
	pos := 0
	for _, tok := range m.hl.Tokens(render) {
		for i := 0; i < len(tok.Text) && pos < len(cells); i++ {
			cells[pos].color = tok.Color
			pos++
		}
	}
	if from, to := m.selection(filerow, len(render)); to > from {
		for i := from; i < min(to, len(cells)); i++ {
			cells[i].selected = true
		}
	}

	_, coloff := m.ed.Offsets()
	cols := m.ed.TextCols()
	rx := m.ed.Rx()
	onRow := m.ed.Cursor().Cy == filerow
	if onRow && rx < len(cells) {
		cells[rx].cursor = true
	}

	var sb strings.Builder
	end := min(len(cells), coloff+cols)
	for i := coloff; i < end; {
		j := i + 1
		for j < end && cells[j] == cells[i] {
			j++
		}
		sb.WriteString(m.theme.style(cells[i]).Render(render[i:j]))
		i = j
	}
	if onRow && rx >= len(cells) && rx >= coloff && rx < coloff+cols {
		sb.WriteString(strings.Repeat(" ", rx-max(len(cells), coloff)))
		sb.WriteString(m.theme.cursor.Render(" "))
	}
	return sb.String()
}

// selection returns the render columns [from, to) of filerow that lie
// between the mark and the cursor.
func (m Model) selection(filerow, rowLen int) (from, to int) {
	mark, ok := m.ed.Mark()
	if !ok {
		return 0, 0
	}
	start, end := mark, m.ed.Cursor()
	if end.Cy < start.Cy || (end.Cy == start.Cy && end.Cx < start.Cx) {
		start, end = end, start
	}
	if filerow < start.Cy || filerow > end.Cy {
		return 0, 0
	}
	buf := m.ed.Buffer()
	from, to = 0, rowLen
	if filerow == start.Cy {
		from = buf.CxToRx(filerow, start.Cx)
	}
	if filerow == end.Cy {
		to = buf.CxToRx(filerow, end.Cx)
	}
	return from, to
}

func (m Model) browserPanel() string {
	w := browser.Width(m.width)
	h := m.ed.ScreenRows()

	lines := make([]string, 0, h)
	lines = append(lines, m.theme.browserTitle.Render(runewidth.Truncate(" "+m.browser.Dir(), w-1, "...")))
	for i, l := range m.browser.Lines(w) {
		if m.browser.Scroll()+i == m.browser.Selected() {
			l = m.theme.browserSelected.Render(l)
		}
		lines = append(lines, l)
	}
	if len(lines) > h {
		lines = lines[:h]
	}

	panel := lipgloss.NewStyle().
		Width(w-1).
		Height(h).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(m.theme.browserBorder.GetForeground()).
		Render(strings.Join(lines, "\n"))
	return zone.Mark(zoneBrowser, panel)
}

func (m Model) shellPanel() string {
	title := m.theme.paneTitle.Width(m.width).Render(truncate.String(m.shell.title(), uint(m.width)))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.shell.output.View(), m.shell.input.View())
}

// statusBar shows the file name, size and modified flag on the left and
// the cursor line on the right.
func (m Model) statusBar() string {
	name := m.ed.Filename()
	if name == "" {
		name = "[No Name]"
	}
	modified := ""
	if m.ed.IsDirty() {
		modified = "(modified)"
	}
	left := truncate.String(fmt.Sprintf("%.20s - %d lines %s", name, m.ed.NumRows(), modified), uint(m.width))
	right := fmt.Sprintf("%d/%d", m.ed.Cursor().Cy+1, m.ed.NumRows())
	if lang := m.hl.Language(); lang != "" {
		right = lang + " | " + right
	}

	line := left
	if gap := m.width - uniseg.StringWidth(left) - uniseg.StringWidth(right); gap >= 0 {
		line += strings.Repeat(" ", gap) + right
	} else {
		line += strings.Repeat(" ", max(m.width-uniseg.StringWidth(left), 0))
	}
	return m.theme.status.Render(line)
}

func (m Model) messageBar() string {
	msg := m.ed.StatusMessage()
	switch m.mode {
	case modeSaveAs:
		msg = fmt.Sprintf("Save as: %s (ESC to cancel)", m.prompt.Value())
	case modeBrowser:
		if msg == "" {
			msg = m.help.ShortHelpView(keys.Browser.ShortHelp())
		}
	case modeShell:
		if msg == "" {
			msg = m.help.ShortHelpView(keys.Shell.ShortHelp())
		}
	case modeHelp, modeDiff:
		msg = "esc: close | ↑/↓ pgup/pgdn: scroll"
	}
	if msg == "" && m.debugMode {
		msg = strings.TrimSpace(m.lastLog)
	}
	return m.theme.message.Render(truncate.String(msg, uint(max(m.width, 0))))
}

// handleClick moves the cursor or the browser selection to the clicked
// cell.
func (m *Model) handleClick(x, y int) {
	mm := tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	if m.browser.Visible() {
		if z := zone.Get(zoneBrowser); z != nil && z.InBounds(mm) {
			_, row := z.Pos(mm)
			if m.browser.ClickRow(row) {
				m.mode = modeBrowser
			}
			return
		}
	}
	if m.mode == modeHelp || m.mode == modeDiff {
		return
	}
	if z := zone.Get(zoneText); z != nil && z.InBounds(mm) {
		col, row := z.Pos(mm)
		m.ed.ClickAt(row, col)
	}
}
