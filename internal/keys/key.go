// Package keys decodes raw terminal bytes into editor keys and defines the
// editor's keybindings.
package keys

import "fmt"

// Key is a logical key. Plain bytes keep their value; special keys start
// at 1000 so they never collide with a byte.
type Key int

const (
	Null      Key = 0
	Tab       Key = '\t'
	Enter     Key = '\r'
	Escape    Key = 0x1b
	Space     Key = ' '
	Backspace Key = 127
)

const (
	ArrowLeft Key = iota + 1000
	ArrowRight
	ArrowUp
	ArrowDown
	PageUp
	PageDown
	Home
	End
	Delete
)

// Ctrl returns the control code for k, e.g. Ctrl('q') == 17.
func Ctrl(k byte) Key {
	return Key(k & 0x1f)
}

var specialNames = map[Key]string{
	ArrowLeft:  "left",
	ArrowRight: "right",
	ArrowUp:    "up",
	ArrowDown:  "down",
	PageUp:     "pgup",
	PageDown:   "pgdown",
	Home:       "home",
	End:        "end",
	Delete:     "delete",
}

// String names the key the way bubbles key bindings spell it.
func (k Key) String() string {
	if name, ok := specialNames[k]; ok {
		return name
	}
	switch {
	case k == Tab:
		return "tab"
	case k == Enter:
		return "enter"
	case k == Escape:
		return "esc"
	case k == Backspace:
		return "backspace"
	case k == Null:
		return "ctrl+@"
	case k > 0 && k < 27:
		return "ctrl+" + string(rune('a'+k-1))
	case k >= 28 && k < 32:
		return "ctrl+" + string(rune('@'+k))
	case k >= 0 && k < 256:
		return string([]byte{byte(k)})
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// IsByte reports whether k is a plain byte.
func (k Key) IsByte() bool {
	return k >= 0 && k < 256
}

// IsControl reports whether k is an ASCII control code or DEL.
func (k Key) IsControl() bool {
	return (k >= 0 && k < 32) || k == Backspace
}

// Insertable reports whether typing k should insert it into the document.
// Tabs are inserted; other control codes are commands or ignored.
func (k Key) Insertable() bool {
	return k.IsByte() && (!k.IsControl() || k == Tab)
}
