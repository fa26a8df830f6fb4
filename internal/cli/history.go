package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/nfagrep/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// HistoryResult holds the listed runs.
type HistoryResult struct {
	Runs  []store.Run `json:"runs"`
	Total int         `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with --db, oldest first.

Examples:
  nfagrep history --db ./runs.db
  nfagrep history --db ./runs.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "show at most this many recent runs (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Database == "" {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "--db is required", nil)
	}
	// Open would create an empty database; history only reads.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
	}
	total, err := st.Count(ctx)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to count runs", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(HistoryResult{Runs: runs, Total: total})
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		verdict := "no match"
		switch {
		case r.Error != "":
			verdict = "aborted"
		case r.Accepted:
			verdict = "match"
		}
		fmt.Fprintf(w, "%4d  %s  %-8s %-8s %q %q (%d steps)\n",
			r.Seq, r.RecordedAt.Format(time.RFC3339), r.SourceKind, verdict, r.Source, r.Input, r.Steps)
	}
	fmt.Fprintf(w, "\n%d of %d run(s)\n", len(runs), total)
	return nil
}
