package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, 4, cfg.Editor.TabSize)
	require.Equal(t, 3, cfg.Editor.QuitTimes)
	require.Equal(t, 5*time.Second, cfg.Editor.StatusTimeout)
	require.Equal(t, 1024, cfg.Limits.ClipboardSize)
	require.Equal(t, 100, cfg.Limits.UndoCapacity)
	require.Equal(t, 1024, cfg.Limits.UndoPayload)
	require.Equal(t, "/bin/sh", cfg.Shell.Path)
	require.NoError(t, cfg.Validate())
}

func TestValidateEditor(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*EditorConfig)
		wantErr string
	}{
		{"zero tab", func(e *EditorConfig) { e.TabSize = 0 }, "editor.tab_size"},
		{"huge tab", func(e *EditorConfig) { e.TabSize = 40 }, "editor.tab_size"},
		{"no quit confirmations", func(e *EditorConfig) { e.QuitTimes = 0 }, "editor.quit_times"},
		{"zero status timeout", func(e *EditorConfig) { e.StatusTimeout = 0 }, "editor.status_timeout"},
		{"zero escape timeout", func(e *EditorConfig) { e.EscapeTimeout = 0 }, "editor.escape_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Defaults().Editor
			tt.mutate(&e)
			err := ValidateEditor(e)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateLimits(t *testing.T) {
	l := Defaults().Limits
	l.UndoCapacity = 0
	require.ErrorContains(t, ValidateLimits(l), "limits.undo_capacity")

	l = Defaults().Limits
	l.ClipboardSize = -1
	require.ErrorContains(t, ValidateLimits(l), "limits.clipboard_size")
}

func TestValidateTheme(t *testing.T) {
	th := Defaults().Theme
	th.Keyword = 256
	require.ErrorContains(t, ValidateTheme(th), "theme.keyword")
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(TracingConfig{}))
	require.ErrorContains(t, ValidateTracing(TracingConfig{SampleRate: 1.5}), "sample_rate")
	require.ErrorContains(t, ValidateTracing(TracingConfig{Exporter: "jaeger"}), "tracing.exporter")
	require.ErrorContains(t, ValidateTracing(TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1}), "otlp_endpoint")
}

func TestValidate_ShellPath(t *testing.T) {
	cfg := Defaults()
	cfg.Shell.Path = ""
	require.ErrorContains(t, cfg.Validate(), "shell.path")
}

// TestDefaultConfigTemplate_MatchesDefaults verifies the written template
// decodes to the same values as Defaults().
func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	require.Equal(t, want.Editor, cfg.Editor)
	require.Equal(t, want.Limits, cfg.Limits)
	require.Equal(t, want.Shell, cfg.Shell)
	require.Equal(t, want.Theme, cfg.Theme)
	require.Equal(t, want.Watch, cfg.Watch)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
