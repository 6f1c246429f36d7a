// Package browser is the side-panel directory browser toggled with Ctrl-B.
// It never edits the document itself; opening a file goes through Opener.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/mattn/go-runewidth"

	"github.com/C0d3-5t3w/C-textedit/internal/cachemanager"
	"github.com/C0d3-5t3w/C-textedit/internal/keys"
	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

const (
	MinWidth = 20
	MaxWidth = 40

	// ListingTTL is how long a directory listing is reused.
	ListingTTL = 5 * time.Second
)

// Entry is one line of the listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Label renders the entry the way the panel shows it.
func (e Entry) Label() string {
	if e.IsDir {
		return " [" + e.Name + "]"
	}
	return " " + e.Name
}

// Opener is the document side of the browser.
type Opener interface {
	IsDirty() bool
	Open(path string) error
}

// Result tells the caller what a key did.
type Result struct {
	Status string
	Opened string
	Close  bool
}

// Browser holds the panel state.
type Browser struct {
	dir      string
	entries  []Entry
	selected int
	scroll   int
	height   int
	visible  bool

	listings *cachemanager.ReadThroughCache[[]Entry]
	homeDir  func() (string, error)
	workDir  func() (string, error)
}

// Option configures a Browser.
type Option func(*Browser)

// WithCache lists directories through cache instead of a fresh read each time.
func WithCache(cache cachemanager.CacheManager[[]Entry]) Option {
	return func(b *Browser) {
		b.listings = cachemanager.NewReadThroughCache[[]Entry](cache, readDir, ListingTTL, false)
	}
}

// WithHomeDir overrides how Ctrl-H finds the home directory.
func WithHomeDir(fn func() (string, error)) Option {
	return func(b *Browser) { b.homeDir = fn }
}

// WithWorkDir overrides the starting directory lookup.
func WithWorkDir(fn func() (string, error)) Option {
	return func(b *Browser) { b.workDir = fn }
}

// New returns a hidden browser.
func New(opts ...Option) *Browser {
	b := &Browser{
		homeDir: os.UserHomeDir,
		workDir: os.Getwd,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.listings == nil {
		b.listings = cachemanager.NewReadThroughCache[[]Entry](nil, readDir, 0, true)
	}
	return b
}

func (b *Browser) Visible() bool    { return b.visible }
func (b *Browser) Dir() string      { return b.dir }
func (b *Browser) Entries() []Entry { return b.entries }
func (b *Browser) Selected() int    { return b.selected }
func (b *Browser) Scroll() int      { return b.scroll }

// SetHeight sets the number of text rows the panel spans, title included.
func (b *Browser) SetHeight(h int) { b.height = h }

// VisibleRows is how many entries fit under the title.
func (b *Browser) VisibleRows() int {
	if n := b.height - 2; n > 0 {
		return n
	}
	return 1
}

// Width is a quarter of the screen, clamped to [MinWidth, MaxWidth].
func Width(screenCols int) int {
	w := screenCols / 4
	if w < MinWidth {
		w = MinWidth
	}
	if w > MaxWidth {
		w = MaxWidth
	}
	return w
}

// Toggle shows or hides the panel. Showing it starts in the working
// directory the first time and always re-reads the listing.
func (b *Browser) Toggle() Result {
	b.visible = !b.visible
	if !b.visible {
		return Result{}
	}
	if b.dir == "" {
		wd, err := b.workDir()
		if err != nil {
			wd = "/"
		}
		b.dir = wd
	}
	b.listings.Invalidate(context.Background(), b.dir)
	return Result{Status: b.update()}
}

// Hide closes the panel.
func (b *Browser) Hide() { b.visible = false }

func (b *Browser) update() string {
	entries, err := b.listings.Get(context.Background(), b.dir)
	if err != nil {
		log.ErrorErr(log.CatBrowser, "read dir failed", err, "dir", b.dir)
		b.entries = nil
		return fmt.Sprintf("Cannot open directory: %s", b.dir)
	}
	b.entries = entries
	log.Debug(log.CatBrowser, "listing", "dir", b.dir, "entries", len(entries))
	return fmt.Sprintf("File browser updated: %s", b.dir)
}

func (b *Browser) chdir(dir string) string {
	b.dir = dir
	b.selected = 0
	b.scroll = 0
	return b.update()
}

// HandleKey applies one key while the panel has focus.
func (b *Browser) HandleKey(k keys.Key, doc Opener) Result {
	switch {
	case key.Matches(k, keys.Browser.Close):
		b.visible = false
		return Result{Close: true}
	case key.Matches(k, keys.Browser.Up):
		b.MoveUp()
	case key.Matches(k, keys.Browser.Down):
		b.MoveDown()
	case key.Matches(k, keys.Browser.Open):
		return b.Activate(doc)
	case key.Matches(k, keys.Browser.Home):
		home, err := b.homeDir()
		if err != nil || home == "" {
			return Result{Status: "Cannot open directory: $HOME"}
		}
		return Result{Status: b.chdir(home)}
	}
	return Result{}
}

// MoveUp selects the previous entry.
func (b *Browser) MoveUp() {
	if b.selected > 0 {
		b.selected--
		if b.selected < b.scroll {
			b.scroll = b.selected
		}
	}
}

// MoveDown selects the next entry.
func (b *Browser) MoveDown() {
	if b.selected < len(b.entries)-1 {
		b.selected++
		if b.selected >= b.scroll+b.VisibleRows() {
			b.scroll = b.selected - b.VisibleRows() + 1
		}
	}
}

// Activate opens the selected entry: directories are entered, files are
// opened into the document unless it has unsaved changes.
func (b *Browser) Activate(doc Opener) Result {
	if b.selected < 0 || b.selected >= len(b.entries) {
		return Result{}
	}
	e := b.entries[b.selected]
	if e.IsDir {
		switch e.Name {
		case "..":
			return Result{Status: b.chdir(filepath.Dir(b.dir))}
		case ".":
			b.listings.Invalidate(context.Background(), b.dir)
			return Result{Status: b.chdir(b.dir)}
		default:
			return Result{Status: b.chdir(filepath.Join(b.dir, e.Name))}
		}
	}

	path := filepath.Join(b.dir, e.Name)
	if doc.IsDirty() {
		return Result{Status: "WARNING!!! File has unsaved changes. Save first!"}
	}
	if err := doc.Open(path); err != nil {
		return Result{Status: err.Error()}
	}
	b.visible = false
	return Result{Opened: path, Close: true}
}

// ClickRow selects the entry drawn on panel row y (row 0 is the title).
func (b *Browser) ClickRow(y int) bool {
	i := b.scroll + y - 1
	if y < 1 || i >= len(b.entries) {
		return false
	}
	b.selected = i
	return true
}

// Lines renders the visible entries, each cut to width-1 cells.
func (b *Browser) Lines(width int) []string {
	end := b.scroll + b.VisibleRows()
	if end > len(b.entries) {
		end = len(b.entries)
	}
	out := make([]string, 0, end-b.scroll)
	for i := b.scroll; i < end; i++ {
		out = append(out, runewidth.Truncate(b.entries[i].Label(), width-1, "..."))
	}
	return out
}

// readDir lists dir with "." and ".." first, then directories, then files.
func readDir(_ context.Context, dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(des)+2)
	entries = append(entries, Entry{Name: ".", IsDir: true}, Entry{Name: "..", IsDir: true})
	rest := make([]Entry, 0, len(des))
	for _, de := range des {
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			if fi, err := os.Stat(filepath.Join(dir, de.Name())); err == nil {
				isDir = fi.IsDir()
			}
		}
		rest = append(rest, Entry{Name: de.Name(), IsDir: isDir})
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].IsDir != rest[j].IsDir {
			return rest[i].IsDir
		}
		return rest[i].Name < rest[j].Name
	})
	return append(entries, rest...), nil
}
