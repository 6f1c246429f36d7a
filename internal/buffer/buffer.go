// Package buffer holds the document as an ordered list of rows and the
// primitive mutations on it. Every mutation re-renders the touched row and
// bumps the dirty counter.
package buffer

import (
	"bytes"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// DefaultTabSize is the tab stop width.
const DefaultTabSize = 4

// Buffer is the document.
type Buffer struct {
	rows     []*Row
	dirty    int
	filename string
	tabSize  int
}

// New returns an empty buffer. tabSize < 1 uses DefaultTabSize.
func New(tabSize int) *Buffer {
	if tabSize < 1 {
		tabSize = DefaultTabSize
	}
	return &Buffer{tabSize: tabSize}
}

// TabSize returns the tab stop width.
func (b *Buffer) TabSize() int { return b.tabSize }

// NumRows returns the number of rows.
func (b *Buffer) NumRows() int { return len(b.rows) }

// Row returns row i, or nil when out of range.
func (b *Buffer) Row(i int) *Row {
	if i < 0 || i >= len(b.rows) {
		return nil
	}
	return b.rows[i]
}

// RowSize returns the raw length of row i, or 0 when out of range.
func (b *Buffer) RowSize(i int) int {
	if r := b.Row(i); r != nil {
		return r.Size()
	}
	return 0
}

// RowChars returns the raw bytes of row i, or nil when out of range.
func (b *Buffer) RowChars(i int) []byte {
	if r := b.Row(i); r != nil {
		return r.chars
	}
	return nil
}

// Dirty returns the number of mutations since the last load or save.
func (b *Buffer) Dirty() int { return b.dirty }

// IsDirty reports unsaved changes.
func (b *Buffer) IsDirty() bool { return b.dirty > 0 }

// ClearDirty marks the buffer clean.
func (b *Buffer) ClearDirty() { b.dirty = 0 }

// Filename returns the associated path, or "".
func (b *Buffer) Filename() string { return b.filename }

// SetFilename associates the buffer with path.
func (b *Buffer) SetFilename(path string) { b.filename = path }

// InsertRow inserts a new row holding a copy of s before index at.
// at may equal NumRows to append. Out-of-range indexes are ignored.
func (b *Buffer) InsertRow(at int, s []byte) bool {
	if at < 0 || at > len(b.rows) {
		log.Debug(log.CatBuffer, "insert row out of range", "at", at, "rows", len(b.rows))
		return false
	}
	r := &Row{chars: bytes.Clone(s)}
	if r.chars == nil {
		r.chars = []byte{}
	}
	r.update(b.tabSize)

	b.rows = append(b.rows, nil)
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = r
	b.dirty++
	return true
}

// DeleteRow removes row at. Out-of-range indexes are ignored.
func (b *Buffer) DeleteRow(at int) bool {
	if at < 0 || at >= len(b.rows) {
		return false
	}
	copy(b.rows[at:], b.rows[at+1:])
	b.rows[len(b.rows)-1] = nil
	b.rows = b.rows[:len(b.rows)-1]
	b.dirty++
	return true
}

// RowInsertChar inserts c into row before column at, clamping at to [0, size].
func (b *Buffer) RowInsertChar(row, at int, c byte) bool {
	r := b.Row(row)
	if r == nil {
		return false
	}
	at = min(max(at, 0), len(r.chars))
	r.chars = append(r.chars, 0)
	copy(r.chars[at+1:], r.chars[at:])
	r.chars[at] = c
	r.update(b.tabSize)
	b.dirty++
	return true
}

// RowDeleteChar removes the byte at column at. Out-of-range columns are ignored.
func (b *Buffer) RowDeleteChar(row, at int) bool {
	r := b.Row(row)
	if r == nil || at < 0 || at >= len(r.chars) {
		return false
	}
	r.chars = append(r.chars[:at], r.chars[at+1:]...)
	r.update(b.tabSize)
	b.dirty++
	return true
}

// RowAppend appends s to the end of row.
func (b *Buffer) RowAppend(row int, s []byte) bool {
	r := b.Row(row)
	if r == nil {
		return false
	}
	r.chars = append(r.chars, s...)
	r.update(b.tabSize)
	b.dirty++
	return true
}

// RowTruncate cuts row at column at, clamped to [0, size].
func (b *Buffer) RowTruncate(row, at int) bool {
	r := b.Row(row)
	if r == nil {
		return false
	}
	at = min(max(at, 0), len(r.chars))
	r.chars = r.chars[:at:at]
	r.update(b.tabSize)
	b.dirty++
	return true
}

// CxToRx maps a raw column of row to its render column.
func (b *Buffer) CxToRx(row, cx int) int {
	r := b.Row(row)
	if r == nil {
		return 0
	}
	return CxToRx(r.chars, cx, b.tabSize)
}

// RxToCx maps a render column of row to its raw column.
func (b *Buffer) RxToCx(row, rx int) int {
	r := b.Row(row)
	if r == nil {
		return 0
	}
	return RxToCx(r.chars, rx, b.tabSize)
}

// FlatText serialises the document with every row terminated by '\n'.
func (b *Buffer) FlatText() []byte {
	n := 0
	for _, r := range b.rows {
		n += len(r.chars) + 1
	}
	out := make([]byte, 0, n)
	for _, r := range b.rows {
		out = append(out, r.chars...)
		out = append(out, '\n')
	}
	return out
}

// Lines returns a copy of each row's raw text.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.rows))
	for i, r := range b.rows {
		out[i] = string(r.chars)
	}
	return out
}

// SetText replaces the whole document with data split at newlines.
// A trailing newline does not produce an extra empty row, and a '\r'
// before each newline is dropped. The buffer is left clean.
func (b *Buffer) SetText(data []byte) {
	b.rows = b.rows[:0]
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		b.InsertRow(len(b.rows), line)
	}
	b.dirty = 0
}
