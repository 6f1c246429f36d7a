package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/C0d3-5t3w/C-textedit/internal/app"
	"github.com/C0d3-5t3w/C-textedit/internal/browser"
	"github.com/C0d3-5t3w/C-textedit/internal/cachemanager"
	"github.com/C0d3-5t3w/C-textedit/internal/config"
	"github.com/C0d3-5t3w/C-textedit/internal/keys"
	"github.com/C0d3-5t3w/C-textedit/internal/log"
	"github.com/C0d3-5t3w/C-textedit/internal/store"
	"github.com/C0d3-5t3w/C-textedit/internal/tracing"
)

const (
	localConfigPath = ".textedit/config.yaml"
	envLogPath      = "TEXTEDIT_LOG"
)

var (
	version       = "dev"
	cfgFile       string
	debugFlag     bool
	cfg           config.Config
	configMissing bool
)

var rootCmd = &cobra.Command{
	Use:   "textedit [file]",
	Short: "A small terminal text editor",
	Long: `A small terminal text editor with undo/redo, a clipboard, a file
browser and an embedded shell pane.

Opening a file that does not exist starts an empty buffer with that name.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/textedit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log (also enabled by "+log.EnvDebug+"=1)")
	rootCmd.Flags().Bool("no-line-numbers", false,
		"start with the line number gutter hidden")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("editor.tab_size", defaults.Editor.TabSize)
	viper.SetDefault("editor.quit_times", defaults.Editor.QuitTimes)
	viper.SetDefault("editor.line_numbers", defaults.Editor.LineNumbers)
	viper.SetDefault("editor.status_timeout", defaults.Editor.StatusTimeout)
	viper.SetDefault("editor.escape_timeout", defaults.Editor.EscapeTimeout)
	viper.SetDefault("limits.clipboard_size", defaults.Limits.ClipboardSize)
	viper.SetDefault("limits.undo_capacity", defaults.Limits.UndoCapacity)
	viper.SetDefault("limits.undo_payload", defaults.Limits.UndoPayload)
	viper.SetDefault("shell.path", defaults.Shell.Path)
	viper.SetDefault("shell.scrollback_size", defaults.Shell.ScrollbackSize)
	viper.SetDefault("clipboard.system", defaults.Clipboard.System)
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.db_path", defaults.History.DBPath)
	viper.SetDefault("theme.background", defaults.Theme.Background)
	viper.SetDefault("theme.foreground", defaults.Theme.Foreground)
	viper.SetDefault("theme.selection", defaults.Theme.Selection)
	viper.SetDefault("theme.comment", defaults.Theme.Comment)
	viper.SetDefault("theme.keyword", defaults.Theme.Keyword)
	viper.SetDefault("theme.number", defaults.Theme.Number)
	viper.SetDefault("theme.string", defaults.Theme.String)
	viper.SetDefault("theme.status_bg", defaults.Theme.StatusBg)
	viper.SetDefault("theme.status_fg", defaults.Theme.StatusFg)
	viper.SetDefault("theme.line_number", defaults.Theme.LineNumber)
	viper.SetDefault("theme.cursor", defaults.Theme.Cursor)
	viper.SetDefault("syntax.enabled", defaults.Syntax.Enabled)
	viper.SetDefault("syntax.style", defaults.Syntax.Style)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	configMissing = false
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .textedit/config.yaml (current directory)
		// 2. ~/.config/textedit/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(config.Dir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			configMissing = true
		}
	}

	cfg = config.Defaults()
	_ = viper.Unmarshal(&cfg)
}

// configPath is where the config was read from, or where a default one
// goes when none exists.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return localConfigPath
}

// setupLogging enables the debug log when asked for by flag or environment.
// The returned func closes it.
func setupLogging(prefix string) (bool, func(), error) {
	if !debugFlag && !log.DebugRequested() {
		return false, func() {}, nil
	}
	logPath := os.Getenv(envLogPath)
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return false, nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "textedit starting", "version", version, "debug", true, "logPath", logPath)
	return true, cleanup, nil
}

// newTracing builds the tracing provider from the config.
func newTracing() (*tracing.Provider, error) {
	tc := tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	}
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	return tracing.NewProvider(tc)
}

func shutdownTracing(p *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		log.Warn(log.CatTrace, "tracing shutdown failed", "error", err)
	}
}

// openStore opens the state database, or returns nil when history is off
// or the database is unusable.
func openStore() *store.Store {
	if !cfg.History.Enabled {
		return nil
	}
	path := cfg.History.DBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	if path == "" {
		return nil
	}
	st, err := store.Open(path)
	if err != nil {
		log.Warn(log.CatStore, "state database unavailable", "path", path, "error", err)
		return nil
	}
	return st
}

func runApp(cmd *cobra.Command, args []string) error {
	if noLineNumbers, _ := cmd.Flags().GetBool("no-line-numbers"); noLineNumbers {
		cfg.Editor.LineNumbers = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	debug, cleanup, err := setupLogging("textedit")
	if err != nil {
		return err
	}
	defer cleanup()

	cfgPath := configPath()
	if configMissing {
		if err := config.WriteDefaultConfig(cfgPath); err != nil {
			log.Warn(log.CatConfig, "could not write default config", "path", cfgPath, "error", err)
		}
	}

	tp, err := newTracing()
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(tp)

	st := openStore()
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	tty, err := openTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer tty.Restore()

	lipgloss.SetColorProfile(termenv.ANSI256)

	model := app.New(cfg, app.Services{
		Store:      st,
		Cache:      cachemanager.NewInMemoryCacheManager[[]browser.Entry]("browser", browser.ListingTTL, cachemanager.DefaultCleanupInterval),
		Tracer:     tp.Tracer(),
		ConfigPath: cfgPath,
		WorkDir:    workDir,
	}, version, debug)
	if len(args) == 1 {
		if err := model.Open(args[0]); err != nil {
			log.ErrorErr(log.CatFile, "open failed", err, "path", args[0])
		}
	}

	zone.NewGlobal()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(nil),
	)

	src := keys.NewSource(os.Stdin)
	defer src.Close()
	go pumpInput(p, keys.NewDecoder(src, cfg.Editor.EscapeTimeout))

	final, runErr := p.Run()

	m, ok := final.(app.Model)
	if !ok {
		m = model
	}
	if closeErr := m.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	if err := m.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// sender is the part of tea.Program the input pump needs.
type sender interface {
	Send(msg tea.Msg)
}

// pumpInput decodes terminal input and hands each event to the program.
// A read failure is delivered once and ends the pump.
func pumpInput(p sender, dec *keys.Decoder) {
	for {
		ev, err := dec.ReadEvent()
		if err != nil {
			p.Send(app.InputErrMsg{Err: err})
			return
		}
		p.Send(ev)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
