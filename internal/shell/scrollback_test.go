package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestScrollback_KeepsTail verifies 3000 bytes into a 1000-byte scrollback
// leave exactly the last 1000.
func TestScrollback_KeepsTail(t *testing.T) {
	var in bytes.Buffer
	for i := 0; i < 3000; i++ {
		in.WriteByte(byte('a' + i%26))
	}

	s := NewScrollback(1000)
	data := in.Bytes()
	for len(data) > 0 {
		n := min(chunkSize, len(data))
		_, err := s.Write(data[:n])
		require.NoError(t, err)
		data = data[n:]
	}

	require.Equal(t, 1000, s.Len())
	require.Equal(t, in.Bytes()[2000:], s.Bytes())
	require.Equal(t, int64(2000), s.Dropped())
}

func TestScrollback_SmallWritesAccumulate(t *testing.T) {
	s := NewScrollback(8)
	_, _ = s.Write([]byte("abc"))
	_, _ = s.Write([]byte("def"))
	require.Equal(t, "abcdef", s.String())

	_, _ = s.Write([]byte("ghij"))
	require.Equal(t, "cdefghij", s.String())
}

func TestScrollback_OversizedWrite(t *testing.T) {
	s := NewScrollback(4)
	_, _ = s.Write([]byte("xy"))
	n, err := s.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.Equal(t, 10, n)
	require.Equal(t, "6789", s.String())
	require.Equal(t, int64(8), s.Dropped())
}

func TestScrollback_ResetAndResize(t *testing.T) {
	s := NewScrollback(10)
	_, _ = s.Write([]byte("0123456789"))

	s.Resize(4)
	require.Equal(t, "6789", s.String())
	require.Equal(t, 4, s.Cap())

	s.Reset()
	require.Zero(t, s.Len())
	require.Zero(t, s.Dropped())
}

// TestScrollback_TailProperty verifies the contents always equal the tail
// of everything written.
func TestScrollback_TailProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(t, "cap")
		writes := rapid.SliceOf(rapid.StringMatching(`[a-z]{0,100}`)).Draw(t, "writes")

		s := NewScrollback(capacity)
		all := strings.Join(writes, "")
		for _, w := range writes {
			_, _ = s.Write([]byte(w))
		}

		want := all
		if len(want) > capacity {
			want = want[len(want)-capacity:]
		}
		if s.String() != want {
			t.Fatalf("got %q, want %q", s.String(), want)
		}
		if int(s.Dropped())+s.Len() != len(all) {
			t.Fatalf("dropped %d + len %d != written %d", s.Dropped(), s.Len(), len(all))
		}
	})
}
