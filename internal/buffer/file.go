package buffer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// ErrNoFilename is returned when saving or reloading an unnamed buffer.
var ErrNoFilename = errors.New("no filename")

const defaultFileMode fs.FileMode = 0o644

// Load replaces the document with the contents of path and names the buffer
// after it. On error the buffer is unchanged.
func (b *Buffer) Load(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: the user chose the file
	if err != nil {
		log.ErrorErr(log.CatFile, "load failed", err, "path", path)
		return err
	}
	b.SetText(data)
	b.filename = path
	log.Info(log.CatFile, "loaded", "path", path, "rows", len(b.rows), "bytes", len(data))
	return nil
}

// Reload re-reads the named file, discarding unsaved changes.
func (b *Buffer) Reload() error {
	if b.filename == "" {
		return ErrNoFilename
	}
	return b.Load(b.filename)
}

// Save writes the document to its file and returns the byte count.
// The dirty counter is reset only when the write fully succeeds.
func (b *Buffer) Save() (int, error) {
	if b.filename == "" {
		return 0, ErrNoFilename
	}
	data := b.FlatText()
	if err := writeFile(b.filename, data); err != nil {
		log.ErrorErr(log.CatFile, "save failed", err, "path", b.filename)
		return 0, err
	}
	b.dirty = 0
	log.Info(log.CatFile, "saved", "path", b.filename, "bytes", len(data))
	return len(data), nil
}

// SaveAs names the buffer path and saves it. The name sticks even if the
// write fails, so a retry goes to the same place.
func (b *Buffer) SaveAs(path string) (int, error) {
	b.filename = path
	return b.Save()
}

// writeFile replaces path atomically: write a temp file beside it, then
// rename over the original. An existing file's permissions are kept.
func writeFile(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := temp.Chmod(mode); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
