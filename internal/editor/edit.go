package editor

import (
	"bytes"
	"errors"

	"github.com/C0d3-5t3w/C-textedit/internal/buffer"
	"github.com/C0d3-5t3w/C-textedit/internal/history"
	"github.com/C0d3-5t3w/C-textedit/internal/keys"
	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// target lets the history replay ops on the buffer and move this cursor.
type target struct {
	*buffer.Buffer
	e *Editor
}

func (t target) SetCursor(cx, cy int) { t.e.cx, t.e.cy = cx, cy }

func (e *Editor) target() history.Target { return target{Buffer: e.buf, e: e} }

// InsertChar inserts c at the cursor without recording it. On the line
// past the end a new row is appended first.
func (e *Editor) InsertChar(c byte) {
	if e.cy == e.buf.NumRows() {
		e.buf.InsertRow(e.buf.NumRows(), nil)
	}
	e.buf.RowInsertChar(e.cy, e.cx, c)
	e.cx++
}

// InsertNewline splits the row at the cursor without recording it.
func (e *Editor) InsertNewline() {
	if e.cx == 0 {
		e.buf.InsertRow(e.cy, nil)
	} else {
		chars := e.buf.RowChars(e.cy)
		e.buf.InsertRow(e.cy+1, chars[min(e.cx, len(chars)):])
		e.buf.RowTruncate(e.cy, e.cx)
	}
	e.cy++
	e.cx = 0
}

// DeleteChar removes the byte before the cursor, joining with the row
// above at column 0. It does nothing at the very start and on the line
// past the end, and reports whether anything changed.
func (e *Editor) DeleteChar() bool {
	if e.cy == e.buf.NumRows() || (e.cx == 0 && e.cy == 0) {
		return false
	}
	if e.cx > 0 {
		e.buf.RowDeleteChar(e.cy, e.cx-1)
		e.cx--
		return true
	}
	e.cx = e.buf.RowSize(e.cy - 1)
	e.buf.RowAppend(e.cy-1, e.buf.RowChars(e.cy))
	e.buf.DeleteRow(e.cy)
	e.cy--
	return true
}

// TypeChar inserts c and records it.
func (e *Editor) TypeChar(c byte) {
	op := history.Op{
		Kind:   history.InsertChar,
		Cx:     e.cx,
		Cy:     e.cy,
		Data:   []byte{c},
		NewRow: e.cy == e.buf.NumRows(),
	}
	e.InsertChar(c)
	e.hist.Record(op)
}

// TypeNewline splits the row at the cursor and records it.
func (e *Editor) TypeNewline() {
	op := history.Op{Kind: history.InsertLine, Cx: e.cx, Cy: e.cy}
	if e.cx > 0 {
		chars := e.buf.RowChars(e.cy)
		op.Data = bytes.Clone(chars[min(e.cx, len(chars)):])
	}
	e.InsertNewline()
	e.hist.Record(op)
}

// Backspace deletes before the cursor and records it when something was
// deleted.
func (e *Editor) Backspace() bool {
	if e.cy == e.buf.NumRows() || (e.cx == 0 && e.cy == 0) {
		return false
	}
	var op history.Op
	if e.cx > 0 {
		op = history.Op{
			Kind: history.DeleteChar,
			Cx:   e.cx,
			Cy:   e.cy,
			Data: []byte{e.buf.RowChars(e.cy)[e.cx-1]},
		}
	} else {
		op = history.Op{
			Kind: history.DeleteLine,
			Cx:   e.buf.RowSize(e.cy - 1),
			Cy:   e.cy,
			Data: bytes.Clone(e.buf.RowChars(e.cy)),
		}
	}
	e.DeleteChar()
	e.hist.Record(op)
	return true
}

// ForwardDelete deletes the byte under the cursor: step right, then
// backspace. At the end of a row this joins the next row.
func (e *Editor) ForwardDelete() bool {
	e.MoveCursor(keys.ArrowRight)
	return e.Backspace()
}

// MoveCursor applies an arrow, Home or End key.
func (e *Editor) MoveCursor(k keys.Key) {
	rows := e.buf.NumRows()
	switch k {
	case keys.ArrowLeft:
		if e.cx != 0 {
			e.cx--
		} else if e.cy > 0 {
			e.cy--
			e.cx = e.buf.RowSize(e.cy)
		}
	case keys.ArrowRight:
		if e.cy < rows {
			if e.cx < e.buf.RowSize(e.cy) {
				e.cx++
			} else {
				e.cy++
				e.cx = 0
			}
		}
	case keys.ArrowUp:
		if e.cy != 0 {
			e.cy--
		}
	case keys.ArrowDown:
		if e.cy < rows {
			e.cy++
		}
	case keys.Home:
		e.cx = 0
	case keys.End:
		if e.cy < rows {
			e.cx = e.buf.RowSize(e.cy)
		}
	case keys.PageUp, keys.PageDown:
		e.page(k)
		return
	}
	e.cx = min(e.cx, e.buf.RowSize(e.cy))
}

// page jumps to the top or bottom of the window, then moves a screenful.
func (e *Editor) page(k keys.Key) {
	dir := keys.ArrowUp
	if k == keys.PageUp {
		e.cy = e.rowoff
	} else {
		dir = keys.ArrowDown
		e.cy = min(e.rowoff+e.screenRows-1, e.buf.NumRows())
	}
	for i := 0; i < e.screenRows; i++ {
		e.MoveCursor(dir)
	}
}

// Undo reverts the last recorded edit.
func (e *Editor) Undo() bool {
	if _, err := e.hist.Undo(e.target()); err != nil {
		if errors.Is(err, history.ErrNothingToUndo) {
			e.SetStatus("Nothing to undo")
		}
		return false
	}
	e.SetCursor(e.cx, e.cy)
	e.SetStatus("Undo successful")
	return true
}

// Redo re-applies the last undone edit.
func (e *Editor) Redo() bool {
	if _, err := e.hist.Redo(e.target()); err != nil {
		if errors.Is(err, history.ErrNothingToRedo) {
			e.SetStatus("Nothing to redo")
		}
		return false
	}
	e.SetCursor(e.cx, e.cy)
	e.SetStatus("Redo successful")
	return true
}

// Copy copies mark..cursor when a mark is set, otherwise the cursor row.
// The mark is cleared.
func (e *Editor) Copy() {
	if e.mark != nil {
		m := *e.mark
		e.mark = nil
		n, truncated := e.clip.CopyRange(e.buf, m.Cy, m.Cx, e.cy, e.cx)
		if truncated {
			e.SetStatus("Copied %d bytes to clipboard (truncated)", n)
		} else {
			e.SetStatus("Copied %d bytes to clipboard", n)
		}
		return
	}
	if e.cy >= e.buf.NumRows() {
		return
	}
	if _, truncated := e.clip.CopyLine(e.buf, e.cy); truncated {
		e.SetStatus("Copied line to clipboard (truncated)")
		return
	}
	e.SetStatus("Copied line to clipboard")
}

// Paste types the clipboard at the cursor, one recorded edit per byte.
func (e *Editor) Paste() {
	data := e.clip.Bytes()
	if len(data) == 0 {
		return
	}
	for _, c := range data {
		if c == '\n' {
			e.TypeNewline()
		} else {
			e.TypeChar(c)
		}
	}
	log.Debug(log.CatClipboard, "pasted", "bytes", len(data))
	e.SetStatus("Pasted %d bytes from clipboard", len(data))
}
