// Package editor is the editing session: one document buffer together with
// its cursor, viewport, undo history, clipboard and status line. Every
// user-level edit goes through here so it is recorded exactly once.
package editor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/C0d3-5t3w/C-textedit/internal/buffer"
	"github.com/C0d3-5t3w/C-textedit/internal/clipboard"
	"github.com/C0d3-5t3w/C-textedit/internal/history"
	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

const (
	DefaultQuitTimes     = 3
	DefaultStatusTimeout = 5 * time.Second

	// GutterWidth is the line-number column, "%3d ".
	GutterWidth = 4
)

// Config sizes a session. Zero values take the defaults.
type Config struct {
	TabSize       int
	QuitTimes     int
	StatusTimeout time.Duration
	LineNumbers   bool

	ClipboardSize int
	UndoCapacity  int
	UndoPayload   int

	Sink   clipboard.Sink
	Clock  Clock
	Tracer trace.Tracer
}

// Position is a cursor location in raw columns.
type Position struct {
	Cx, Cy int
}

// Editor is the session aggregate.
type Editor struct {
	buf  *buffer.Buffer
	hist *history.History
	clip *clipboard.Clipboard

	cx, cy int
	rx     int
	rowoff int
	coloff int

	screenRows int
	screenCols int

	lineNumbers bool
	mark        *Position

	status        string
	statusTime    time.Time
	statusTimeout time.Duration

	quitTimes int
	quitLeft  int

	clock     Clock
	tracer    trace.Tracer
	sessionID string
}

// New returns an empty, unnamed session.
func New(cfg Config) *Editor {
	if cfg.QuitTimes < 0 {
		cfg.QuitTimes = 0
	}
	if cfg.QuitTimes == 0 {
		cfg.QuitTimes = DefaultQuitTimes
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = DefaultStatusTimeout
	}
	if cfg.UndoCapacity < 1 {
		cfg.UndoCapacity = history.DefaultCapacity
	}
	if cfg.UndoPayload < 1 {
		cfg.UndoPayload = history.DefaultPayloadCap
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Editor{
		buf:           buffer.New(cfg.TabSize),
		hist:          history.New(cfg.UndoCapacity, cfg.UndoPayload),
		clip:          clipboard.New(cfg.ClipboardSize, cfg.Sink),
		lineNumbers:   cfg.LineNumbers,
		statusTimeout: cfg.StatusTimeout,
		quitTimes:     cfg.QuitTimes,
		quitLeft:      cfg.QuitTimes,
		clock:         cfg.Clock,
		tracer:        cfg.Tracer,
		sessionID:     uuid.NewString(),
		screenRows:    1,
		screenCols:    1,
	}
}

func (e *Editor) Buffer() *buffer.Buffer          { return e.buf }
func (e *Editor) History() *history.History       { return e.hist }
func (e *Editor) Clipboard() *clipboard.Clipboard { return e.clip }
func (e *Editor) SessionID() string               { return e.sessionID }
func (e *Editor) Filename() string                { return e.buf.Filename() }
func (e *Editor) IsDirty() bool                   { return e.buf.IsDirty() }
func (e *Editor) NumRows() int                    { return e.buf.NumRows() }

// Cursor returns the raw cursor.
func (e *Editor) Cursor() Position { return Position{Cx: e.cx, Cy: e.cy} }

// Rx is the render column of the cursor as of the last Scroll.
func (e *Editor) Rx() int { return e.rx }

// Offsets returns the first visible row and render column.
func (e *Editor) Offsets() (rowoff, coloff int) { return e.rowoff, e.coloff }

// Mark returns the selection anchor, if set.
func (e *Editor) Mark() (Position, bool) {
	if e.mark == nil {
		return Position{}, false
	}
	return *e.mark, true
}

// SetScreen sets the text area size: rows exclude the status and message
// bars, cols include the gutter.
func (e *Editor) SetScreen(rows, cols int) {
	e.screenRows = max(rows, 1)
	e.screenCols = max(cols, 1)
}

// ScreenRows is the number of document rows on screen.
func (e *Editor) ScreenRows() int { return e.screenRows }

// Gutter is the width of the line-number column, 0 when hidden.
func (e *Editor) Gutter() int {
	if e.lineNumbers {
		return GutterWidth
	}
	return 0
}

// TextCols is the width left for document text.
func (e *Editor) TextCols() int { return max(e.screenCols-e.Gutter(), 1) }

// LineNumbers reports whether the gutter is shown.
func (e *Editor) LineNumbers() bool { return e.lineNumbers }

// ToggleLineNumbers flips the gutter.
func (e *Editor) ToggleLineNumbers() bool {
	e.lineNumbers = !e.lineNumbers
	if e.lineNumbers {
		e.SetStatus("Line numbers enabled")
	} else {
		e.SetStatus("Line numbers disabled")
	}
	return e.lineNumbers
}

// SetCursor places the cursor, clamped to the document.
func (e *Editor) SetCursor(cx, cy int) {
	e.cy = min(max(cy, 0), e.buf.NumRows())
	e.cx = min(max(cx, 0), e.buf.RowSize(e.cy))
}

// SetStatus sets the message bar text and restarts its timer.
func (e *Editor) SetStatus(format string, args ...any) {
	e.status = fmt.Sprintf(format, args...)
	e.statusTime = e.clock.Now()
	log.Debug(log.CatUI, "status", "msg", e.status)
}

// StatusMessage returns the message bar text, or "" once it has expired.
func (e *Editor) StatusMessage() string {
	if e.status == "" || e.clock.Now().Sub(e.statusTime) >= e.statusTimeout {
		return ""
	}
	return e.status
}

// Find reports that search is not available.
func (e *Editor) Find() {
	e.SetStatus("Search functionality not implemented")
}

// ToggleMark sets the selection anchor at the cursor, or clears it.
func (e *Editor) ToggleMark() {
	if e.mark != nil {
		e.mark = nil
		e.SetStatus("Mark cleared")
		return
	}
	e.mark = &Position{Cx: e.cx, Cy: e.cy}
	e.SetStatus("Mark set")
}

// RequestQuit counts a quit request. A clean buffer quits at once; a dirty
// one warns QuitTimes times first. It reports whether to exit.
func (e *Editor) RequestQuit() bool {
	if e.buf.IsDirty() && e.quitLeft > 0 {
		e.SetStatus("WARNING!!! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitLeft)
		e.quitLeft--
		return false
	}
	return true
}

// ResetQuit restarts the quit countdown; any other key does this.
func (e *Editor) ResetQuit() { e.quitLeft = e.quitTimes }

// Scroll recomputes rx and moves the window so the cursor is visible.
func (e *Editor) Scroll() {
	e.rx = 0
	if e.cy < e.buf.NumRows() {
		e.rx = e.buf.CxToRx(e.cy, e.cx)
	}

	if e.cy < e.rowoff {
		e.rowoff = e.cy
	}
	if e.cy >= e.rowoff+e.screenRows {
		e.rowoff = e.cy - e.screenRows + 1
	}
	cols := e.TextCols()
	if e.rx < e.coloff {
		e.coloff = e.rx
	}
	if e.rx >= e.coloff+cols {
		e.coloff = e.rx - cols + 1
	}
}

// ClickAt moves the cursor to a cell of the text area.
func (e *Editor) ClickAt(row, col int) {
	if row < 0 || row >= e.screenRows {
		return
	}
	cy := min(e.rowoff+row, e.buf.NumRows())
	rx := e.coloff + max(col-e.Gutter(), 0)
	cx := 0
	if cy < e.buf.NumRows() {
		cx = e.buf.RxToCx(cy, rx)
	}
	e.cx, e.cy = cx, cy
}

// VisibleRender returns the on-screen part of a document row's render.
func (e *Editor) VisibleRender(filerow int) []byte {
	row := e.buf.Row(filerow)
	if row == nil {
		return nil
	}
	r := row.Render()
	if e.coloff >= len(r) {
		return nil
	}
	r = r[e.coloff:]
	if len(r) > e.TextCols() {
		r = r[:e.TextCols()]
	}
	return r
}
