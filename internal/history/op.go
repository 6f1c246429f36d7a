package history

import "bytes"

// Kind identifies an edit.
type Kind int

const (
	InsertChar Kind = iota // typed one byte
	DeleteChar             // backspace removed one byte within a row
	InsertLine             // Enter split a row or opened an empty one
	DeleteLine             // backspace at column 0 merged a row into the one above
)

func (k Kind) String() string {
	switch k {
	case InsertChar:
		return "insert-char"
	case DeleteChar:
		return "delete-char"
	case InsertLine:
		return "insert-line"
	case DeleteLine:
		return "delete-line"
	default:
		return "unknown"
	}
}

// Op is one recorded edit. Cx and Cy are the cursor before the edit.
//
//   - InsertChar: Data is the typed byte; NewRow is set when typing on the
//     line past the end appended a row first.
//   - DeleteChar: Data is the removed byte, which sat at Cx-1.
//   - InsertLine: Data is the text moved to the new row.
//   - DeleteLine: Cy is the row that was merged away, Cx is the join
//     column in row Cy-1 and Data is the merged text.
type Op struct {
	Kind   Kind
	Cx, Cy int
	Data   []byte
	NewRow bool
}

// Target is the document surface an Op replays against. The methods must
// not record history themselves.
type Target interface {
	NumRows() int
	RowChars(row int) []byte
	InsertRow(at int, s []byte) bool
	DeleteRow(at int) bool
	RowInsertChar(row, at int, c byte) bool
	RowDeleteChar(row, at int) bool
	RowAppend(row int, s []byte) bool
	RowTruncate(row, at int) bool
	SetCursor(cx, cy int)
}

func (op Op) byteAt0() byte {
	if len(op.Data) == 0 {
		return 0
	}
	return op.Data[0]
}

// apply performs the edit again and leaves the cursor where the edit did.
func (op Op) apply(t Target) {
	switch op.Kind {
	case InsertChar:
		if op.NewRow {
			t.InsertRow(t.NumRows(), nil)
		}
		t.RowInsertChar(op.Cy, op.Cx, op.byteAt0())
		t.SetCursor(op.Cx+1, op.Cy)
	case DeleteChar:
		t.RowDeleteChar(op.Cy, op.Cx-1)
		t.SetCursor(op.Cx-1, op.Cy)
	case InsertLine:
		if op.Cx == 0 {
			t.InsertRow(op.Cy, nil)
		} else {
			chars := t.RowChars(op.Cy)
			t.InsertRow(op.Cy+1, bytes.Clone(chars[min(op.Cx, len(chars)):]))
			t.RowTruncate(op.Cy, op.Cx)
		}
		t.SetCursor(0, op.Cy+1)
	case DeleteLine:
		t.RowAppend(op.Cy-1, bytes.Clone(t.RowChars(op.Cy)))
		t.DeleteRow(op.Cy)
		t.SetCursor(op.Cx, op.Cy-1)
	}
}

// invert reverses the edit and restores the cursor to where it started.
// Line edits are undone from the live rows, so a capped payload loses nothing.
func (op Op) invert(t Target) {
	switch op.Kind {
	case InsertChar:
		t.RowDeleteChar(op.Cy, op.Cx)
		if op.NewRow {
			t.DeleteRow(op.Cy)
		}
	case DeleteChar:
		t.RowInsertChar(op.Cy, op.Cx-1, op.byteAt0())
	case InsertLine:
		if op.Cx == 0 {
			t.DeleteRow(op.Cy)
		} else {
			t.RowAppend(op.Cy, bytes.Clone(t.RowChars(op.Cy+1)))
			t.DeleteRow(op.Cy + 1)
		}
	case DeleteLine:
		above := t.RowChars(op.Cy - 1)
		at := min(op.Cx, len(above))
		t.InsertRow(op.Cy, above[at:])
		t.RowTruncate(op.Cy-1, at)
		t.SetCursor(0, op.Cy)
		return
	}
	t.SetCursor(op.Cx, op.Cy)
}
