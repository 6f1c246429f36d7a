package keys

import tea "github.com/charmbracelet/bubbletea"

var fromTeaSpecial = map[tea.KeyType]Key{
	tea.KeyUp:       ArrowUp,
	tea.KeyDown:     ArrowDown,
	tea.KeyLeft:     ArrowLeft,
	tea.KeyRight:    ArrowRight,
	tea.KeyHome:     Home,
	tea.KeyEnd:      End,
	tea.KeyPgUp:     PageUp,
	tea.KeyPgDown:   PageDown,
	tea.KeyDelete:   Delete,
	tea.KeyCtrlHome: Home,
	tea.KeyCtrlEnd:  End,
}

// FromTea converts a Bubble Tea key message into editor keys. Rune input
// expands to its UTF-8 bytes; an Alt modifier is delivered as a leading ESC.
func FromTea(msg tea.KeyMsg) []Key {
	var out []Key
	if msg.Alt {
		out = append(out, Escape)
	}

	switch {
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace && len(runes) == 0 {
			runes = []rune{' '}
		}
		for _, b := range []byte(string(runes)) {
			out = append(out, Key(b))
		}
	case msg.Type >= 0 && msg.Type < 32, msg.Type == tea.KeyBackspace:
		out = append(out, Key(msg.Type))
	default:
		k, ok := fromTeaSpecial[msg.Type]
		if !ok {
			return nil
		}
		out = append(out, k)
	}
	return out
}

var toTeaSpecial = map[Key]tea.KeyType{
	ArrowUp:    tea.KeyUp,
	ArrowDown:  tea.KeyDown,
	ArrowLeft:  tea.KeyLeft,
	ArrowRight: tea.KeyRight,
	Home:       tea.KeyHome,
	End:        tea.KeyEnd,
	PageUp:     tea.KeyPgUp,
	PageDown:   tea.KeyPgDown,
	Delete:     tea.KeyDelete,
}

// Tea converts k into the message a bubbles widget expects.
func (k Key) Tea() tea.KeyMsg {
	if t, ok := toTeaSpecial[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	switch {
	case k == Space:
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case k.IsControl():
		return tea.KeyMsg{Type: tea.KeyType(k)}
	case k.IsByte():
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune(k)}}
	}
	return tea.KeyMsg{}
}
