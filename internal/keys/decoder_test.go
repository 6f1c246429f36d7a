package keys

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptReader replays input; once it runs dry, timed reads time out and
// blocking reads report EOF.
type scriptReader struct {
	input    []byte
	timeouts []time.Duration
}

func (r *scriptReader) ReadByte(timeout time.Duration) (byte, error) {
	r.timeouts = append(r.timeouts, timeout)
	if len(r.input) == 0 {
		if timeout < 0 {
			return 0, io.EOF
		}
		return 0, ErrTimeout
	}
	b := r.input[0]
	r.input = r.input[1:]
	return b, nil
}

var readEventTests = []struct {
	input string
	want  Event
}{
	// Plain bytes and control codes pass through.
	{"a", KeyEvent{'a'}},
	{"\t", KeyEvent{Tab}},
	{"\r", KeyEvent{Enter}},
	{"\x7f", KeyEvent{Backspace}},
	{"\x11", KeyEvent{Ctrl('q')}},
	{"\xc3", KeyEvent{Key(0xc3)}},

	// CSI letters.
	{"\x1b[A", KeyEvent{ArrowUp}},
	{"\x1b[B", KeyEvent{ArrowDown}},
	{"\x1b[C", KeyEvent{ArrowRight}},
	{"\x1b[D", KeyEvent{ArrowLeft}},
	{"\x1b[H", KeyEvent{Home}},
	{"\x1b[F", KeyEvent{End}},

	// CSI numbered keys.
	{"\x1b[1~", KeyEvent{Home}},
	{"\x1b[3~", KeyEvent{Delete}},
	{"\x1b[4~", KeyEvent{End}},
	{"\x1b[5~", KeyEvent{PageUp}},
	{"\x1b[6~", KeyEvent{PageDown}},
	{"\x1b[7~", KeyEvent{Home}},
	{"\x1b[8~", KeyEvent{End}},

	// SS3.
	{"\x1bOH", KeyEvent{Home}},
	{"\x1bOF", KeyEvent{End}},

	// Everything else is a bare Escape.
	{"\x1b", KeyEvent{Escape}},
	{"\x1b[", KeyEvent{Escape}},
	{"\x1b[2~", KeyEvent{Escape}},
	{"\x1b[9~", KeyEvent{Escape}},
	{"\x1b[5", KeyEvent{Escape}},
	{"\x1b[5x", KeyEvent{Escape}},
	{"\x1b[Z", KeyEvent{Escape}},
	{"\x1bOA", KeyEvent{Escape}},
	{"\x1bxy", KeyEvent{Escape}},

	// SGR mouse.
	{"\x1b[<0;10;5M", MouseEvent{Button: 0, Col: 9, Row: 4, Press: true}},
	{"\x1b[<0;1;1m", MouseEvent{Button: 0, Col: 0, Row: 0, Press: false}},
	{"\x1b[<32;3;4M", MouseEvent{Button: 32, Col: 2, Row: 3, Press: true}},
	{"\x1b[<0;10", KeyEvent{Escape}},
	{"\x1b[<0;0;1M", KeyEvent{Escape}},
	{"\x1b[<a;1;1M", KeyEvent{Escape}},
	{"\x1b[<1;2M", KeyEvent{Escape}},
}

func TestReadEvent(t *testing.T) {
	for _, tt := range readEventTests {
		t.Run(tt.input, func(t *testing.T) {
			d := NewDecoder(&scriptReader{input: []byte(tt.input)}, 10*time.Millisecond)
			got, err := d.ReadEvent()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReadEvent_LookaheadIsBounded(t *testing.T) {
	r := &scriptReader{input: []byte("\x1b")}
	d := NewDecoder(r, 25*time.Millisecond)

	got, err := d.ReadEvent()
	require.NoError(t, err)
	require.Equal(t, KeyEvent{Escape}, got)

	// One blocking read for ESC, then a single bounded wait that expires.
	require.Equal(t, []time.Duration{-1, 25 * time.Millisecond}, r.timeouts)
}

func TestReadEvent_OneEventPerCall(t *testing.T) {
	d := NewDecoder(&scriptReader{input: []byte("x\x1b[Ay")}, 10*time.Millisecond)

	var got []Key
	for {
		k, err := d.ReadKey()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		got = append(got, k)
	}
	require.Equal(t, []Key{'x', ArrowUp, 'y'}, got)
}

func TestReadKey_SkipsMouse(t *testing.T) {
	d := NewDecoder(&scriptReader{input: []byte("\x1b[<0;1;1Mq")}, 10*time.Millisecond)

	k, err := d.ReadKey()
	require.NoError(t, err)
	require.Equal(t, Key('q'), k)
}

func TestNewDecoder_DefaultTimeout(t *testing.T) {
	d := NewDecoder(&scriptReader{}, 0)
	require.Equal(t, DefaultEscapeTimeout, d.timeout)
}

func TestMouseEvent_LeftPress(t *testing.T) {
	require.True(t, MouseEvent{Button: 0, Press: true}.LeftPress())
	require.False(t, MouseEvent{Button: 0, Press: false}.LeftPress())
	require.False(t, MouseEvent{Button: 2, Press: true}.LeftPress())
}
