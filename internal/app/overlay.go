package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/C0d3-5t3w/C-textedit/internal/keys"
	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// helpSections titles the columns of keys.Editor.FullHelp.
var helpSections = []string{"Navigation", "Editing", "Files and panels"}

// noMarginStyle removes glamour's document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// helpMarkdown lists every editor binding as markdown tables.
func helpMarkdown(version string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# textedit %s\n\n", version)
	for i, group := range keys.Editor.FullHelp() {
		title := "Keys"
		if i < len(helpSections) {
			title = helpSections[i]
		}
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n|---|---|\n", title)
		for _, b := range group {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Press `esc` to close this page.\n")
	return sb.String()
}

// renderHelp renders the help page for width columns. Without a working
// renderer the raw markdown is shown.
func renderHelp(version string, width int) string {
	md := helpMarkdown(version)
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(max(width-2, 20)),
	)
	if err != nil {
		log.Warn(log.CatUI, "help renderer unavailable", "error", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Warn(log.CatUI, "help render failed", "error", err)
		return md
	}
	return out
}

// pagerKeys scroll the help and diff pages.
var pagerKeys = struct {
	Up, Down, PageUp, PageDown, Close key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("up")),
	Down:     key.NewBinding(key.WithKeys("down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	Close:    key.NewBinding(key.WithKeys("esc", "ctrl+q", "ctrl+g", "ctrl+d", "q")),
}

// pageKey scrolls v and reports whether k closes the page.
func pageKey(v *viewport.Model, k keys.Key) bool {
	switch {
	case key.Matches(k, pagerKeys.Close):
		return true
	case key.Matches(k, pagerKeys.Up):
		v.ScrollUp(1)
	case key.Matches(k, pagerKeys.Down):
		v.ScrollDown(1)
	case key.Matches(k, pagerKeys.PageUp):
		v.PageUp()
	case key.Matches(k, pagerKeys.PageDown):
		v.PageDown()
	}
	return false
}

// colorDiff styles the lines of an editor diff.
func (m Model) colorDiff(diff string) string {
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = m.theme.added.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = m.theme.removed.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
