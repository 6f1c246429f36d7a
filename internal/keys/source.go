package keys

import (
	"io"
	"sync"
	"time"
)

// Source adapts a blocking io.Reader (the terminal) into a ByteReader with
// per-read timeouts. A goroutine pumps bytes into a channel; the goroutine
// exits when the reader fails or Close is called and the next read returns.
type Source struct {
	ch   chan byte
	done chan struct{}
	once sync.Once
	err  error
}

var _ ByteReader = (*Source)(nil)

// NewSource starts pumping r.
func NewSource(r io.Reader) *Source {
	s := &Source{
		ch:   make(chan byte, 256),
		done: make(chan struct{}),
	}
	go s.pump(r)
	return s
}

func (s *Source) pump(r io.Reader) {
	defer close(s.ch)
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.ch <- b:
			case <-s.done:
				s.err = io.EOF
				return
			}
		}
		if err != nil {
			s.err = err
			return
		}
	}
}

// ReadByte returns the next byte, waiting at most timeout (forever if negative).
// After the underlying reader fails, it returns that error.
func (s *Source) ReadByte(timeout time.Duration) (byte, error) {
	if timeout < 0 {
		b, ok := <-s.ch
		if !ok {
			return 0, s.err
		}
		return b, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case b, ok := <-s.ch:
		if !ok {
			return 0, s.err
		}
		return b, nil
	case <-timer.C:
		return 0, ErrTimeout
	}
}

// Close stops delivery. Bytes already buffered remain readable.
func (s *Source) Close() {
	s.once.Do(func() { close(s.done) })
}
