package keys

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// DefaultEscapeTimeout is how long the decoder waits for each byte after ESC.
const DefaultEscapeTimeout = 100 * time.Millisecond

// maxMouseSeqLen bounds the SGR mouse parameter bytes.
const maxMouseSeqLen = 16

// ErrTimeout is returned by a ByteReader when the wait expires.
var ErrTimeout = errors.New("timed out")

// ByteReader yields one byte at a time. A negative timeout blocks forever.
type ByteReader interface {
	ReadByte(timeout time.Duration) (byte, error)
}

// Event is one decoded input: a KeyEvent or a MouseEvent.
type Event interface{ isEvent() }

// KeyEvent is a decoded key.
type KeyEvent struct{ Key Key }

// MouseEvent is an SGR-encoded mouse report. Row and Col are 0-based.
type MouseEvent struct {
	Button int
	Row    int
	Col    int
	Press  bool
}

func (KeyEvent) isEvent()   {}
func (MouseEvent) isEvent() {}

// LeftPress reports a left-button press that is not a drag.
func (m MouseEvent) LeftPress() bool {
	return m.Press && m.Button == 0
}

// Decoder turns bytes from a ByteReader into events.
type Decoder struct {
	r       ByteReader
	timeout time.Duration
}

// NewDecoder returns a decoder that waits at most timeout for each byte
// following ESC.
func NewDecoder(r ByteReader, timeout time.Duration) *Decoder {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	return &Decoder{r: r, timeout: timeout}
}

var csiLetter = map[byte]Key{
	'A': ArrowUp,
	'B': ArrowDown,
	'C': ArrowRight,
	'D': ArrowLeft,
	'H': Home,
	'F': End,
}

var csiTilde = map[byte]Key{
	'1': Home,
	'3': Delete,
	'4': End,
	'5': PageUp,
	'6': PageDown,
	'7': Home,
	'8': End,
}

var ss3Letter = map[byte]Key{
	'H': Home,
	'F': End,
}

// ReadKey blocks until a key is decoded, skipping mouse reports.
func (d *Decoder) ReadKey() (Key, error) {
	for {
		ev, err := d.ReadEvent()
		if err != nil {
			return Null, err
		}
		if k, ok := ev.(KeyEvent); ok {
			return k.Key, nil
		}
	}
}

// ReadEvent blocks for the first byte, then decodes exactly one event.
// Unrecognised or incomplete escape sequences decode as Escape.
func (d *Decoder) ReadEvent() (Event, error) {
	b, err := d.r.ReadByte(-1)
	if err != nil {
		return nil, err
	}
	if Key(b) != Escape {
		return KeyEvent{Key(b)}, nil
	}

	esc := KeyEvent{Escape}
	b1, err := d.r.ReadByte(d.timeout)
	if err != nil {
		return esc, nil
	}
	b2, err := d.r.ReadByte(d.timeout)
	if err != nil {
		return esc, nil
	}

	switch b1 {
	case '[':
		if b2 >= '0' && b2 <= '9' {
			b3, err := d.r.ReadByte(d.timeout)
			if err != nil || b3 != '~' {
				return esc, nil
			}
			if k, ok := csiTilde[b2]; ok {
				return KeyEvent{k}, nil
			}
			return esc, nil
		}
		if b2 == '<' {
			return d.readMouse()
		}
		if k, ok := csiLetter[b2]; ok {
			return KeyEvent{k}, nil
		}
	case 'O':
		if k, ok := ss3Letter[b2]; ok {
			return KeyEvent{k}, nil
		}
	}
	log.Debug(log.CatInput, "unknown escape sequence", "b1", b1, "b2", b2)
	return esc, nil
}

// readMouse parses the remainder of ESC [ < b ; x ; y (M|m).
func (d *Decoder) readMouse() (Event, error) {
	esc := KeyEvent{Escape}
	var sb strings.Builder
	for i := 0; i < maxMouseSeqLen; i++ {
		b, err := d.r.ReadByte(d.timeout)
		if err != nil {
			return esc, nil
		}
		if b == 'M' || b == 'm' {
			return parseMouse(sb.String(), b == 'M'), nil
		}
		sb.WriteByte(b)
	}
	return esc, nil
}

func parseMouse(params string, press bool) Event {
	parts := strings.Split(params, ";")
	if len(parts) != 3 {
		return KeyEvent{Escape}
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return KeyEvent{Escape}
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[2] < 1 {
		return KeyEvent{Escape}
	}
	return MouseEvent{Button: nums[0], Col: nums[1] - 1, Row: nums[2] - 1, Press: press}
}
