package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nfagrep/internal/store"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <graph-file> <input>...",
		Short: "Decide inputs against a declarative graph",
		Long: `Load a YAML, JSON or CUE graph file and decide each input against it.

Exit codes:
  0 - Every input was accepted
  1 - At least one input was rejected
  2 - Command error (missing or invalid graph file, database error)

Examples:
  nfagrep check graphs/scenario-b.yaml ab a
  nfagrep check graphs/scenario-a.cue ab --format json`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, inputs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	eng, err := opts.loadGraph(path)
	if err != nil {
		code := ErrCodeBadGraph
		if errors.Is(err, os.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return formatter.fail(ExitCommandError, code, "failed to load graph", err)
	}

	return runDecisions(opts, formatter, cmd, eng, store.SourceGraph, path, inputs)
}
