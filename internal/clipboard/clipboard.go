// Package clipboard is the editor's single-slot, size-bounded copy buffer.
package clipboard

import (
	"bytes"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// DefaultCapacity is the most bytes a copy keeps.
const DefaultCapacity = 1024

// RowSource is the read side of a document.
type RowSource interface {
	NumRows() int
	RowChars(row int) []byte
}

// Clipboard holds the last copied text.
type Clipboard struct {
	data     []byte
	capacity int
	sink     Sink
}

// New returns an empty clipboard. A nil sink mirrors nowhere.
func New(capacity int, sink Sink) *Clipboard {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Clipboard{capacity: capacity, sink: sink}
}

// Bytes returns the clipboard contents. The slice must not be modified.
func (c *Clipboard) Bytes() []byte { return c.data }

// Len returns the number of bytes held.
func (c *Clipboard) Len() int { return len(c.data) }

// Empty reports whether nothing has been copied.
func (c *Clipboard) Empty() bool { return len(c.data) == 0 }

// Capacity returns the byte limit.
func (c *Clipboard) Capacity() int { return c.capacity }

// Set replaces the contents with data, keeping at most Capacity bytes.
func (c *Clipboard) Set(data []byte) (n int, truncated bool) {
	if len(data) > c.capacity {
		data = data[:c.capacity]
		truncated = true
	}
	c.data = bytes.Clone(data)
	if c.data == nil {
		c.data = []byte{}
	}
	if err := c.sink.Copy(string(c.data)); err != nil {
		log.ErrorErr(log.CatClipboard, "system clipboard copy failed", err)
	}
	log.Debug(log.CatClipboard, "copied", "bytes", len(c.data), "truncated", truncated)
	return len(c.data), truncated
}

// CopyRange copies the text from (sy, sx) up to, not including, (ey, ex).
// The endpoints may come in either order. Rows are joined with '\n',
// columns are clamped to their row, and rows past the document end are
// skipped. The result is truncated to Capacity.
func (c *Clipboard) CopyRange(src RowSource, sy, sx, ey, ex int) (n int, truncated bool) {
	if sy > ey || (sy == ey && sx > ex) {
		sy, sx, ey, ex = ey, ex, sy, sx
	}

	var out []byte
	for y := max(sy, 0); y <= ey && y < src.NumRows(); y++ {
		chars := src.RowChars(y)
		start, end := 0, len(chars)
		if y == sy {
			start = min(max(sx, 0), len(chars))
		}
		if y == ey {
			end = min(max(ex, 0), len(chars))
		}
		if y > max(sy, 0) {
			out = append(out, '\n')
		}
		if start < end {
			out = append(out, chars[start:end]...)
		}
		if len(out) > c.capacity {
			break
		}
	}
	return c.Set(out)
}

// CopyLine copies row y without its line terminator.
func (c *Clipboard) CopyLine(src RowSource, y int) (n int, truncated bool) {
	if y < 0 || y >= src.NumRows() {
		return c.Set(nil)
	}
	return c.Set(src.RowChars(y))
}
