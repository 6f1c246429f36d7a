// Package store keeps editor state that outlives a session in a small
// SQLite database: recently opened files with their cursor position, and
// the commands run in the shell pane.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// RecentFile is a previously opened file.
type RecentFile struct {
	Path     string
	Cx, Cy   int
	OpenedAt time.Time
}

// Command is one shell pane run.
type Command struct {
	RunID    string
	Command  string
	ExitCode int
	Bytes    int
	RanAt    time.Time
}

// Store wraps the state database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	log.Debug(log.CatStore, "opening database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		log.ErrorErr(log.CatStore, "failed to open database", err, "path", path)
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatStore, "failed to ping database", err, "path", path)
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info(log.CatStore, "connected to database", "path", path)
	return &Store{db: db, path: path, now: time.Now}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}
	// m.Close would close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating state database: %w", err)
	}
	return nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// TouchFile records that path is open with the cursor at (cx, cy).
func (s *Store) TouchFile(ctx context.Context, path string, cx, cy int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recent_files (path, cx, cy, opened_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET cx = excluded.cx, cy = excluded.cy, opened_at = excluded.opened_at`,
		path, cx, cy, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("touch %s: %w", path, err)
	}
	return nil
}

// RecentFile looks up path.
func (s *Store) RecentFile(ctx context.Context, path string) (RecentFile, error) {
	var rf RecentFile
	var at int64
	err := s.db.QueryRowContext(ctx,
		`SELECT path, cx, cy, opened_at FROM recent_files WHERE path = ?`, path,
	).Scan(&rf.Path, &rf.Cx, &rf.Cy, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return rf, fmt.Errorf("recent file %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return rf, fmt.Errorf("recent file %s: %w", path, err)
	}
	rf.OpenedAt = time.Unix(0, at)
	return rf, nil
}

// RecentFiles lists files, most recently opened first.
func (s *Store) RecentFiles(ctx context.Context, limit int) ([]RecentFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, cx, cy, opened_at FROM recent_files ORDER BY opened_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RecentFile
	for rows.Next() {
		var rf RecentFile
		var at int64
		if err := rows.Scan(&rf.Path, &rf.Cx, &rf.Cy, &at); err != nil {
			return nil, err
		}
		rf.OpenedAt = time.Unix(0, at)
		out = append(out, rf)
	}
	return out, rows.Err()
}

// AddCommand appends a shell run.
func (s *Store) AddCommand(ctx context.Context, c Command) error {
	if c.RanAt.IsZero() {
		c.RanAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shell_history (run_id, command, exit_code, bytes, ran_at) VALUES (?, ?, ?, ?, ?)`,
		c.RunID, c.Command, c.ExitCode, c.Bytes, c.RanAt.UnixNano())
	if err != nil {
		return fmt.Errorf("recording command: %w", err)
	}
	return nil
}

// Commands returns distinct commands, most recent first.
func (s *Store) Commands(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT command FROM shell_history
		GROUP BY command
		ORDER BY MAX(ran_at) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing commands: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, rows.Err()
}
