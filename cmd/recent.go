package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/C0d3-5t3w/C-textedit/internal/editor"
)

var (
	recentLimit    int
	recentCommands bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened files",
	Long: `List the files most recently opened in the editor, newest first,
with the cursor position that will be restored when they are reopened.

With --commands, list shell pane commands instead.

Examples:
  textedit recent
  textedit recent --limit 5
  textedit recent --commands`,
	Args: cobra.NoArgs,
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "Maximum entries to show")
	recentCmd.Flags().BoolVar(&recentCommands, "commands", false, "List shell commands instead of files")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	if !cfg.History.Enabled {
		return errors.New("history is disabled (history.enabled: false)")
	}
	if recentLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", recentLimit)
	}
	st := openStore()
	if st == nil {
		return errors.New("state database unavailable")
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	if recentCommands {
		cmds, err := st.Commands(ctx, recentLimit)
		if err != nil {
			return err
		}
		for _, c := range cmds {
			_, _ = fmt.Fprintln(out, c)
		}
		return nil
	}

	files, err := st.RecentFiles(ctx, recentLimit)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(out, "No recent files")
		return nil
	}
	now := time.Now()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range files {
		_, _ = fmt.Fprintf(w, "%s\t%d:%d\t%s\n", f.Path, f.Cy+1, f.Cx+1, editor.FormatRelative(f.OpenedAt, now))
	}
	return w.Flush()
}
