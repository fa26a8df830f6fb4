package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nfagrep/internal/automaton"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Graph bool // first argument is a graph file, not a pattern
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <pattern> <input>",
		Short: "Show the search trace for one input",
		Long: `Run the backtracking search on one input and print every event:
visited states, pushed successors, epsilon edges suppressed by the loop
guard, and the final verdict.

The trace is deterministic: the same graph and input always produce the
same events with the same sequence numbers.

Examples:
  nfagrep trace 'a+b' caab
  nfagrep trace --graph graphs/scenario-b.yaml ab
  nfagrep trace '(a*)*b' aab --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Graph, "graph", false, "treat the first argument as a graph file")

	return cmd
}

func runTrace(opts *TraceOptions, source, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var (
		eng *automaton.Engine
		err error
	)
	if opts.Graph {
		eng, err = opts.loadGraph(source)
		if err != nil {
			code := ErrCodeBadGraph
			if errors.Is(err, os.ErrNotExist) {
				code = ErrCodeNotFound
			}
			return formatter.fail(ExitCommandError, code, "failed to load graph", err)
		}
	} else {
		eng, err = opts.compilePattern(source)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeBadPattern, "invalid pattern", err)
		}
	}

	tr := eng.TraceContext(cmd.Context(), opts.normalize(input))
	formatter.VerboseLog("%d events, %d steps", len(tr.Events), tr.Steps)

	if formatter.IsJSON() {
		return formatter.Success(tr)
	}
	return tr.WriteText(formatter.Writer)
}
