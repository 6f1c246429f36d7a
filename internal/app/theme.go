package app

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/C0d3-5t3w/C-textedit/internal/config"
	"github.com/C0d3-5t3w/C-textedit/internal/syntax"
)

// theme holds the styles built from the configured 256-color palette.
type theme struct {
	text       lipgloss.Style
	tilde      lipgloss.Style
	lineNumber lipgloss.Style
	selection  lipgloss.Color
	cursor     lipgloss.Style
	status     lipgloss.Style
	message    lipgloss.Style

	browserTitle    lipgloss.Style
	browserSelected lipgloss.Style
	browserBorder   lipgloss.Style

	paneTitle lipgloss.Style
	added     lipgloss.Style
	removed   lipgloss.Style

	palette syntax.Palette
}

func color(i int) lipgloss.Color { return lipgloss.Color(strconv.Itoa(i)) }

func newTheme(t config.ThemeConfig) theme {
	fg := color(t.Foreground)
	return theme{
		text:       lipgloss.NewStyle().Foreground(fg),
		tilde:      lipgloss.NewStyle().Foreground(color(t.LineNumber)),
		lineNumber: lipgloss.NewStyle().Foreground(color(t.LineNumber)),
		selection:  color(t.Selection),
		cursor:     lipgloss.NewStyle().Reverse(true).Foreground(color(t.Cursor)),
		status: lipgloss.NewStyle().
			Background(color(t.StatusBg)).
			Foreground(color(t.StatusFg)),
		message: lipgloss.NewStyle().Foreground(fg),

		browserTitle:    lipgloss.NewStyle().Bold(true).Foreground(color(t.Keyword)),
		browserSelected: lipgloss.NewStyle().Reverse(true),
		browserBorder:   lipgloss.NewStyle().Foreground(color(t.LineNumber)),

		paneTitle: lipgloss.NewStyle().
			Background(color(t.StatusBg)).
			Foreground(color(t.StatusFg)).
			Bold(true),
		added:   lipgloss.NewStyle().Foreground(color(t.String)),
		removed: lipgloss.NewStyle().Foreground(color(t.Keyword)),

		palette: syntax.Palette{
			syntax.Keyword: t.Keyword,
			syntax.Number:  t.Number,
			syntax.String:  t.String,
			syntax.Comment: t.Comment,
		},
	}
}

// cell is the look of one text cell.
type cell struct {
	color    string
	selected bool
	cursor   bool
}

func (t theme) style(c cell) lipgloss.Style {
	if c.cursor {
		return t.cursor
	}
	s := t.text
	if c.color != "" {
		s = s.Foreground(lipgloss.Color(c.color))
	}
	if c.selected {
		s = s.Background(t.selection)
	}
	return s
}
