package editor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/C0d3-5t3w/C-textedit/internal/buffer"
	"github.com/C0d3-5t3w/C-textedit/internal/tracing"
)

// Open loads path into the session, replacing the document. A missing file
// gives an empty buffer under that name; any other read error leaves the
// session untouched and is returned.
func (e *Editor) Open(path string) error {
	_, span := e.tracer.Start(context.Background(), tracing.SpanFileLoad)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrFilePath, path), attribute.String(tracing.AttrSessionID, e.sessionID))

	err := e.buf.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.buf.SetText(nil)
		e.buf.SetFilename(path)
		e.SetStatus("New file: %s", path)
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.SetStatus("Can't open! I/O error: %s", errText(err))
		return err
	default:
		e.SetStatus("Opened %s", path)
	}
	span.SetAttributes(attribute.Int(tracing.AttrFileRows, e.buf.NumRows()))

	e.resetView()
	return nil
}

// Reload re-reads the file, discarding unsaved changes and history.
func (e *Editor) Reload() error {
	if e.buf.Filename() == "" {
		e.SetStatus("No file to reload")
		return buffer.ErrNoFilename
	}
	_, span := e.tracer.Start(context.Background(), tracing.SpanFileLoad)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrFilePath, e.buf.Filename()))

	if err := e.buf.Reload(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.SetStatus("Can't reload! I/O error: %s", errText(err))
		return err
	}
	e.hist.Clear()
	e.mark = nil
	e.SetCursor(e.cx, e.cy)
	e.SetStatus("File reloaded successfully")
	return nil
}

// Save writes the document to its file. An unnamed buffer returns
// buffer.ErrNoFilename so the caller can prompt for a name.
func (e *Editor) Save() error {
	if e.buf.Filename() == "" {
		e.SetStatus("Save as: %s (ESC to cancel)", "")
		return buffer.ErrNoFilename
	}
	return e.save(func() (int, error) { return e.buf.Save() })
}

// SaveAs names the buffer and saves it.
func (e *Editor) SaveAs(path string) error {
	return e.save(func() (int, error) { return e.buf.SaveAs(path) })
}

func (e *Editor) save(write func() (int, error)) error {
	_, span := e.tracer.Start(context.Background(), tracing.SpanFileSave)
	defer span.End()

	n, err := write()
	span.SetAttributes(attribute.String(tracing.AttrFilePath, e.buf.Filename()), attribute.Int(tracing.AttrFileBytes, n))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.SetStatus("Can't save! I/O error: %s", errText(err))
		return err
	}
	e.ResetQuit()
	e.SetStatus("%d bytes written to disk", n)
	return nil
}

// Diff compares the file on disk with the buffer, line by line. Lines are
// prefixed "-" (only on disk), "+" (only in the buffer) or " " (both).
// It returns "" when they match.
func (e *Editor) Diff() (string, error) {
	var disk string
	if name := e.buf.Filename(); name != "" {
		data, err := os.ReadFile(name) //nolint:gosec // G304: the open document
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.SetStatus("Can't diff! I/O error: %s", errText(err))
			return "", err
		}
		disk = string(data)
	}
	current := string(e.buf.FlatText())
	if disk == current {
		e.SetStatus("No changes")
		return "", nil
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(disk, current)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	added, removed := 0, 0
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			switch prefix {
			case "+":
				added++
			case "-":
				removed++
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	e.SetStatus("Diff: +%d -%d lines", added, removed)
	return sb.String(), nil
}

func (e *Editor) resetView() {
	e.hist.Clear()
	e.mark = nil
	e.cx, e.cy, e.rx = 0, 0, 0
	e.rowoff, e.coloff = 0, 0
	e.ResetQuit()
}

// errText is the OS error text without the operation and path prefix.
func errText(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
