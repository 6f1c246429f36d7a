package keys

import "github.com/charmbracelet/bubbles/key"

// EditorKeyMap holds the bindings active while editing the document.
type EditorKeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Editing
	Newline   key.Binding
	Backspace key.Binding
	Delete    key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Mark      key.Binding
	Copy      key.Binding
	Paste     key.Binding

	// Files
	Save   key.Binding
	Reload key.Binding
	Diff   key.Binding

	// Panels
	Browser     key.Binding
	Shell       key.Binding
	LineNumbers key.Binding
	Find        key.Binding
	Help        key.Binding

	// Ignored
	Refresh key.Binding
	Escape  key.Binding

	Quit key.Binding
}

// Editor is the editing keymap.
var Editor = EditorKeyMap{
	Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
	Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
	Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "line start")),
	End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "line end")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),

	Newline:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new line")),
	Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("bksp", "delete back")),
	Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete forward")),
	Undo:      key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
	Redo:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
	Mark:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "set/clear mark")),
	Copy:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy line/selection")),
	Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),

	Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Diff:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "diff vs disk")),

	Browser:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "file browser")),
	Shell:       key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "shell")),
	LineNumbers: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "line numbers")),
	Find:        key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "find")),
	Help:        key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "help")),

	Refresh: key.NewBinding(key.WithKeys("ctrl+l")),
	Escape:  key.NewBinding(key.WithKeys("esc")),

	Quit: key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
}

// ShortHelp returns keybindings for the one-line help.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Quit, k.Find, k.Help}
}

// FullHelp returns keybindings for the full help view.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End, k.PageUp, k.PageDown},
		{k.Newline, k.Backspace, k.Delete, k.Undo, k.Redo, k.Mark, k.Copy, k.Paste},
		{k.Save, k.Reload, k.Diff, k.Browser, k.Shell, k.LineNumbers, k.Find, k.Help, k.Quit},
	}
}

// BrowserKeyMap holds the directory browser bindings.
type BrowserKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Home  key.Binding
	Close key.Binding
}

// Browser is the directory browser keymap.
var Browser = BrowserKeyMap{
	Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
	Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
	Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Home:  key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("ctrl+h", "home dir")),
	Close: key.NewBinding(key.WithKeys("ctrl+b", "esc", "ctrl+q"), key.WithHelp("ctrl+b/esc", "close")),
}

// ShortHelp returns keybindings for the browser footer.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Home, k.Close}
}

// FullHelp returns keybindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ShellKeyMap holds the shell pane bindings.
type ShellKeyMap struct {
	Run        key.Binding
	PrevCmd    key.Binding
	NextCmd    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Close      key.Binding
}

// Shell is the shell pane keymap.
var Shell = ShellKeyMap{
	Run:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	PrevCmd:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous command")),
	NextCmd:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next command")),
	ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	Close:      key.NewBinding(key.WithKeys("ctrl+t", "esc"), key.WithHelp("ctrl+t/esc", "close")),
}

// ShortHelp returns keybindings for the shell footer.
func (k ShellKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.PrevCmd, k.NextCmd, k.ScrollUp, k.ScrollDown, k.Close}
}

// FullHelp returns keybindings for the full help view.
func (k ShellKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// PromptKeyMap holds bindings for one-line prompts such as Save as.
type PromptKeyMap struct {
	Accept key.Binding
	Cancel key.Binding
}

// Prompt is the prompt keymap.
var Prompt = PromptKeyMap{
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+q"), key.WithHelp("esc", "cancel")),
}
