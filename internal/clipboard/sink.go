package clipboard

import "github.com/atotto/clipboard"

// Sink mirrors copies somewhere outside the editor.
type Sink interface {
	Copy(text string) error
}

// SystemSink writes to the OS clipboard.
type SystemSink struct{}

// Copy copies text to the system clipboard.
func (SystemSink) Copy(text string) error {
	if clipboard.Unsupported {
		return nil
	}
	return clipboard.WriteAll(text)
}

// NopSink discards copies.
type NopSink struct{}

// Copy is a no-op that always succeeds.
func (NopSink) Copy(string) error { return nil }

// RecordingSink remembers the last copy. Used by tests.
type RecordingSink struct {
	Last  string
	Calls int
	Err   error
}

// Copy records text.
func (r *RecordingSink) Copy(text string) error {
	r.Last = text
	r.Calls++
	return r.Err
}
