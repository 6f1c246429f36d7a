// Package config provides configuration types and defaults for textedit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

// Config holds all configuration options for textedit.
type Config struct {
	Editor    EditorConfig    `mapstructure:"editor"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Shell     ShellConfig     `mapstructure:"shell"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
	Watch     WatchConfig     `mapstructure:"watch"`
	History   HistoryConfig   `mapstructure:"history"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Syntax    SyntaxConfig    `mapstructure:"syntax"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// EditorConfig holds editing and display behaviour.
type EditorConfig struct {
	TabSize       int           `mapstructure:"tab_size"`
	QuitTimes     int           `mapstructure:"quit_times"`     // Ctrl-Q presses needed to abandon unsaved changes
	LineNumbers   bool          `mapstructure:"line_numbers"`   // gutter visible at startup
	StatusTimeout time.Duration `mapstructure:"status_timeout"` // lifetime of a status message
	EscapeTimeout time.Duration `mapstructure:"escape_timeout"` // wait for bytes after ESC
}

// LimitsConfig bounds the clipboard and the undo history.
type LimitsConfig struct {
	ClipboardSize int `mapstructure:"clipboard_size"`
	UndoCapacity  int `mapstructure:"undo_capacity"`
	UndoPayload   int `mapstructure:"undo_payload"`
}

// ShellConfig configures the embedded command runner.
type ShellConfig struct {
	Path string `mapstructure:"path"`
	// ScrollbackSize is the retained output in bytes.
	// 0 sizes it from the screen: columns * (rows / 2).
	ScrollbackSize int `mapstructure:"scrollback_size"`
}

// ClipboardConfig controls mirroring copies to the OS clipboard.
type ClipboardConfig struct {
	System bool `mapstructure:"system"`
}

// WatchConfig controls the on-disk change notice for the open file.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// HistoryConfig controls the sqlite state store (recent files, shell history).
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"` // default: ~/.config/textedit/state.db
}

// ThemeConfig holds 256-color palette indexes.
type ThemeConfig struct {
	Background int `mapstructure:"background"`
	Foreground int `mapstructure:"foreground"`
	Selection  int `mapstructure:"selection"`
	Comment    int `mapstructure:"comment"`
	Keyword    int `mapstructure:"keyword"`
	Number     int `mapstructure:"number"`
	String     int `mapstructure:"string"`
	StatusBg   int `mapstructure:"status_bg"`
	StatusFg   int `mapstructure:"status_fg"`
	LineNumber int `mapstructure:"line_number"`
	Cursor     int `mapstructure:"cursor"`
}

// SyntaxConfig controls highlighting.
type SyntaxConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Style   string `mapstructure:"style"` // chroma style name
}

// TracingConfig holds OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/textedit/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Dir returns ~/.config/textedit, or "" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "textedit")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultDBPath returns the default state database path.
func DefaultDBPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "state.db")
}

// Defaults returns a Config with the stock editor behaviour.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			TabSize:       4,
			QuitTimes:     3,
			LineNumbers:   true,
			StatusTimeout: 5 * time.Second,
			EscapeTimeout: 100 * time.Millisecond,
		},
		Limits: LimitsConfig{
			ClipboardSize: 1024,
			UndoCapacity:  100,
			UndoPayload:   1024,
		},
		Shell: ShellConfig{
			Path: "/bin/sh",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 500 * time.Millisecond,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Theme: ThemeConfig{
			Background: 16,
			Foreground: 250,
			Selection:  59,
			Comment:    102,
			Keyword:    175,
			Number:     175,
			String:     108,
			StatusBg:   238,
			StatusFg:   250,
			LineNumber: 242,
			Cursor:     250,
		},
		Syntax: SyntaxConfig{
			Enabled: true,
			Style:   "monokai",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateLimits(c.Limits); err != nil {
		return err
	}
	if c.Shell.Path == "" {
		return fmt.Errorf("shell.path is required")
	}
	if c.Shell.ScrollbackSize < 0 {
		return fmt.Errorf("shell.scrollback_size must be >= 0, got %d", c.Shell.ScrollbackSize)
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateEditor checks editor settings.
func ValidateEditor(e EditorConfig) error {
	if e.TabSize < 1 || e.TabSize > 16 {
		return fmt.Errorf("editor.tab_size must be between 1 and 16, got %d", e.TabSize)
	}
	if e.QuitTimes < 1 {
		return fmt.Errorf("editor.quit_times must be at least 1, got %d", e.QuitTimes)
	}
	if e.StatusTimeout <= 0 {
		return fmt.Errorf("editor.status_timeout must be positive, got %s", e.StatusTimeout)
	}
	if e.EscapeTimeout <= 0 {
		return fmt.Errorf("editor.escape_timeout must be positive, got %s", e.EscapeTimeout)
	}
	return nil
}

// ValidateLimits checks clipboard and history bounds.
func ValidateLimits(l LimitsConfig) error {
	if l.ClipboardSize < 1 {
		return fmt.Errorf("limits.clipboard_size must be positive, got %d", l.ClipboardSize)
	}
	if l.UndoCapacity < 1 {
		return fmt.Errorf("limits.undo_capacity must be positive, got %d", l.UndoCapacity)
	}
	if l.UndoPayload < 1 {
		return fmt.Errorf("limits.undo_payload must be positive, got %d", l.UndoPayload)
	}
	return nil
}

// ValidateTheme checks that every color is a 256-color index.
func ValidateTheme(t ThemeConfig) error {
	colors := map[string]int{
		"background":  t.Background,
		"foreground":  t.Foreground,
		"selection":   t.Selection,
		"comment":     t.Comment,
		"keyword":     t.Keyword,
		"number":      t.Number,
		"string":      t.String,
		"status_bg":   t.StatusBg,
		"status_fg":   t.StatusFg,
		"line_number": t.LineNumber,
		"cursor":      t.Cursor,
	}
	for name, v := range colors {
		if v < 0 || v > 255 {
			return fmt.Errorf("theme.%s must be a 256-color index (0-255), got %d", name, v)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# textedit configuration

editor:
  tab_size: 4           # tabs render to the next multiple of this column
  quit_times: 3         # Ctrl-Q presses needed to quit with unsaved changes
  line_numbers: true    # toggle at runtime with Ctrl-N
  status_timeout: 5s    # how long status messages stay visible
  escape_timeout: 100ms # wait for the rest of an escape sequence

limits:
  clipboard_size: 1024  # bytes kept by copy
  undo_capacity: 100    # operations kept in the undo history
  undo_payload: 1024    # bytes kept per undo operation

shell:
  path: /bin/sh         # runs commands as: <path> -c "<command>"
  scrollback_size: 0    # 0 = screen columns * (rows / 2)

clipboard:
  system: false         # also copy to the OS clipboard

watch:
  enabled: true         # warn when the open file changes on disk
  debounce: 500ms

history:
  enabled: true         # remember cursor positions and shell commands
  # db_path: ~/.config/textedit/state.db

# 256-color palette indexes
theme:
  background: 16
  foreground: 250
  selection: 59
  comment: 102
  keyword: 175
  number: 175
  string: 108
  status_bg: 238
  status_fg: 250
  line_number: 242
  cursor: 250

syntax:
  enabled: true
  style: monokai        # any chroma style name

# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/textedit/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
