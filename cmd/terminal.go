package cmd

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

var errNotTerminal = errors.New("stdin and stdout must be a terminal")

// terminal holds the saved state of a tty switched to raw mode.
type terminal struct {
	fd    int
	state *term.State
}

// openTerminal puts in into raw mode. Both ends must be terminals.
func openTerminal(in, out *os.File) (*terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) || !term.IsTerminal(int(out.Fd())) {
		return nil, errNotTerminal
	}
	if _, _, err := term.GetSize(int(out.Fd())); err != nil {
		return nil, fmt.Errorf("getting window size: %w", err)
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	log.Debug(log.CatInput, "raw mode enabled", "fd", fd)
	return &terminal{fd: fd, state: state}, nil
}

// Restore returns the terminal to the mode it had before openTerminal.
func (t *terminal) Restore() {
	if t == nil || t.state == nil {
		return
	}
	if err := term.Restore(t.fd, t.state); err != nil {
		log.Warn(log.CatInput, "restoring terminal failed", "error", err)
	}
	t.state = nil
}
