// Package watcher notices when the file open in the editor changes on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// Watcher watches the directory of one file and signals, debounced, when
// that file is written, created or renamed over.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	onChange  chan string
	done      chan struct{}
	stopOnce  sync.Once

	mu      sync.Mutex
	path    string
	dir     string
	muted   time.Time
	started bool
}

// Config holds watcher configuration options.
type Config struct {
	Path     string
	Debounce time.Duration
}

// DefaultConfig returns the default debounce for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Debounce: 500 * time.Millisecond,
	}
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	path := cfg.Path
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return &Watcher{
		fsWatcher: fsw,
		debounce:  cfg.Debounce,
		onChange:  make(chan string, 1),
		done:      make(chan struct{}),
		path:      path,
	}, nil
}

// Start begins watching. The returned channel receives the watched path
// after each burst of changes.
func (w *Watcher) Start() (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return w.onChange, nil
	}
	if w.path != "" {
		if err := w.addDirLocked(filepath.Dir(w.path)); err != nil {
			return nil, err
		}
	}
	w.started = true
	go w.loop()
	return w.onChange, nil
}

// Retarget switches to a different file, e.g. after Save As or opening from
// the browser. An empty path stops notifications without stopping the loop.
func (w *Watcher) Retarget(path string) error {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.path = path
	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.fsWatcher.Remove(w.dir)
		w.dir = ""
	}
	if dir == "" || !w.started {
		return nil
	}
	return w.addDirLocked(dir)
}

// Mute suppresses notifications for d, used around the editor's own saves.
func (w *Watcher) Mute(d time.Duration) {
	w.mu.Lock()
	w.muted = time.Now().Add(d)
	w.mu.Unlock()
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

func (w *Watcher) addDirLocked(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	w.dir = dir
	log.Debug(log.CatWatcher, "watching", "dir", dir, "file", filepath.Base(w.path))
	return nil
}

// Stop terminates the watcher and releases resources. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.mu.Lock()
			path, muted := w.path, time.Now().Before(w.muted)
			w.mu.Unlock()
			if muted || path == "" {
				continue
			}
			log.Debug(log.CatWatcher, "file changed on disk", "path", path)
			select {
			case w.onChange <- path:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	w.mu.Lock()
	path := w.path
	w.mu.Unlock()
	if path == "" {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(path)
}
