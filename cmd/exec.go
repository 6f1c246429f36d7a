package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
	"github.com/C0d3-5t3w/C-textedit/internal/shell"
	"github.com/C0d3-5t3w/C-textedit/internal/store"
)

// defaultExecScrollback is the retained output of `exec` when
// shell.scrollback_size is 0 and no terminal size is known.
const defaultExecScrollback = 64 * 1024

var execDir string

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

var execCmd = &cobra.Command{
	Use:   "exec <command...>",
	Short: "Run a command the way the shell pane does",
	Long: `Run a command through the configured shell, exactly as the editor's
shell pane would, and print the retained tail of its combined output.

The arguments are joined with spaces and passed to "<shell> -c".
Only the last shell.scrollback_size bytes of output are kept.

Examples:
  textedit exec ls -la
  textedit exec --dir /tmp -- 'echo $PWD'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVarP(&execDir, "dir", "d", "", "Working directory for the command")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	tp, err := newTracing()
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(tp)

	dir := execDir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
	}

	capacity := cfg.Shell.ScrollbackSize
	if capacity <= 0 {
		capacity = defaultExecScrollback
	}

	command := strings.Join(args, " ")
	bridge := shell.NewBridge(cfg.Shell.Path, shell.WithDir(dir), shell.WithTracer(tp.Tracer()))
	out := shell.NewScrollback(capacity)
	res, err := bridge.Run(command, out)
	if err != nil {
		return fmt.Errorf("running %q: %w", command, err)
	}

	if _, err := cmd.OutOrStdout().Write(out.Bytes()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if dropped := out.Dropped(); dropped > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "(%d earlier bytes not shown)\n", dropped)
	}

	recordCommand(res)

	if res.ExitCode != 0 {
		return &ExitError{Command: command, Code: res.ExitCode}
	}
	return nil
}

// recordCommand adds a finished run to the shell history when the state
// store is available.
func recordCommand(res shell.Result) {
	st := openStore()
	if st == nil {
		return
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := st.AddCommand(ctx, store.Command{
		RunID:    res.RunID,
		Command:  res.Command,
		ExitCode: res.ExitCode,
		Bytes:    int(res.Bytes),
		RanAt:    time.Now(),
	})
	if err != nil {
		log.Warn(log.CatStore, "recording command failed", "command", res.Command, "error", err)
	}
}
