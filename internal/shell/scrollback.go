package shell

// Scrollback is a fixed-capacity byte log that keeps the most recent output.
// Writes never fail; when a write would overflow, the oldest bytes go first.
type Scrollback struct {
	buf      []byte
	capacity int
	dropped  int64
}

// NewScrollback returns an empty scrollback. capacity < 1 is treated as 1.
func NewScrollback(capacity int) *Scrollback {
	capacity = max(capacity, 1)
	return &Scrollback{buf: make([]byte, 0, capacity), capacity: capacity}
}

// Write appends p, sliding older bytes out to stay within capacity.
func (s *Scrollback) Write(p []byte) (int, error) {
	n := len(p)
	if n >= s.capacity {
		s.dropped += int64(len(s.buf) + n - s.capacity)
		s.buf = append(s.buf[:0], p[n-s.capacity:]...)
		return n, nil
	}
	if over := len(s.buf) + n - s.capacity; over > 0 {
		copy(s.buf, s.buf[over:])
		s.buf = s.buf[:len(s.buf)-over]
		s.dropped += int64(over)
	}
	s.buf = append(s.buf, p...)
	return n, nil
}

// Bytes returns the retained output. The slice must not be modified.
func (s *Scrollback) Bytes() []byte { return s.buf }

// String returns the retained output.
func (s *Scrollback) String() string { return string(s.buf) }

// Len returns the number of bytes retained.
func (s *Scrollback) Len() int { return len(s.buf) }

// Cap returns the capacity.
func (s *Scrollback) Cap() int { return s.capacity }

// Dropped returns how many bytes slid out since the last Reset.
func (s *Scrollback) Dropped() int64 { return s.dropped }

// Reset empties the scrollback.
func (s *Scrollback) Reset() {
	s.buf = s.buf[:0]
	s.dropped = 0
}

// Resize changes the capacity, keeping the newest bytes.
func (s *Scrollback) Resize(capacity int) {
	capacity = max(capacity, 1)
	if capacity == s.capacity {
		return
	}
	old := s.buf
	s.capacity = capacity
	s.buf = make([]byte, 0, capacity)
	s.dropped = 0
	_, _ = s.Write(old)
}
