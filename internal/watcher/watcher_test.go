package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C0d3-5t3w/C-textedit/internal/watcher"
)

func newStarted(t *testing.T, path string) (*watcher.Watcher, <-chan string) {
	t.Helper()
	w, err := watcher.New(watcher.Config{Path: path, Debounce: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return w, onChange
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	_, onChange := newStarted(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("test%d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case got := <-onChange:
		assert.Equal(t, filepath.Base(path), filepath.Base(got))
	case <-time.After(300 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0o644))

	_, onChange := newStarted(t, path)

	require.NoError(t, os.WriteFile(other, []byte("other content"), 0o644))

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

// Atomic saves by other editors replace the file with a rename.
func TestWatcher_RenameOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	_, onChange := newStarted(t, path)

	tmp := filepath.Join(dir, ".notes.txt.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("b"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
	case <-time.After(300 * time.Millisecond):
		t.Fatal("expected notification for rename over the file")
	}
}

func TestWatcher_Mute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, onChange := newStarted(t, path)
	w.Mute(time.Second)

	require.NoError(t, os.WriteFile(path, []byte("saved by us"), 0o644))

	select {
	case <-onChange:
		t.Fatal("muted watcher should not notify")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_Retarget(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	a := filepath.Join(first, "a.txt")
	b := filepath.Join(second, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	w, onChange := newStarted(t, a)
	require.NoError(t, w.Retarget(b))
	assert.Equal(t, "b.txt", filepath.Base(w.Path()))

	require.NoError(t, os.WriteFile(a, []byte("ignored"), 0o644))
	select {
	case <-onChange:
		t.Fatal("old target should no longer notify")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(b, []byte("changed"), 0o644))
	select {
	case <-onChange:
	case <-time.After(300 * time.Millisecond):
		t.Fatal("expected notification for new target")
	}
}

func TestWatcher_EmptyPath(t *testing.T) {
	_, onChange := newStarted(t, "")
	select {
	case <-onChange:
		t.Fatal("unnamed buffer should never notify")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	w, err := watcher.New(watcher.Config{Path: path, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop(), "Stop returned error")
		assert.NoError(t, w.Stop(), "second Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/tmp/notes.txt")
	assert.Equal(t, "/tmp/notes.txt", cfg.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
}
