package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/nfagrep/internal/automaton"
	"github.com/roach88/nfagrep/internal/store"
)

// MatchResult holds the decisions for one graph.
type MatchResult struct {
	Source    string     `json:"source"`
	Kind      string     `json:"kind"` // "pattern" | "graph"
	Decisions []Decision `json:"decisions"`
	Matched   int        `json:"matched"`
	Total     int        `json:"total"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <pattern> <input>...",
		Short: "Decide inputs against a pattern",
		Long: `Compile a pattern and decide each input against it.

Exit codes:
  0 - Every input matched
  1 - At least one input did not match
  2 - Command error (bad pattern, database error)

Examples:
  nfagrep match '\d+' abc123
  nfagrep match '^(cat|dog)s' cats dogs cows
  nfagrep match 'a+b' aaab --format json`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runMatch(opts *RootOptions, src string, inputs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	eng, err := opts.compilePattern(src)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeBadPattern, "invalid pattern", err)
	}

	return runDecisions(opts, formatter, cmd, eng, store.SourcePattern, opts.normalize(src), inputs)
}

// runDecisions decides every input and renders the combined result.
func runDecisions(opts *RootOptions, f *OutputFormatter, cmd *cobra.Command, eng *automaton.Engine, kind store.SourceKind, source string, inputs []string) error {
	result := MatchResult{
		Source:    source,
		Kind:      string(kind),
		Decisions: make([]Decision, 0, len(inputs)),
		Total:     len(inputs),
	}

	for _, input := range inputs {
		d, err := opts.decide(cmd.Context(), eng, kind, source, input)
		if err != nil {
			return decisionError(f, err)
		}
		f.VerboseLog("%s: %d steps", input, d.Steps)
		if d.Accepted {
			result.Matched++
		}
		result.Decisions = append(result.Decisions, d)
	}

	failed := result.Total - result.Matched
	if f.IsJSON() {
		if failed > 0 {
			if err := f.Failure(ErrCodeNoMatch, fmt.Sprintf("%d of %d input(s) did not match", failed, result.Total), result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "")
		}
		return f.Success(result)
	}

	for _, d := range result.Decisions {
		fmt.Fprintln(f.Writer, formatDecision(d))
	}
	if failed > 0 {
		return NewExitError(ExitFailure, "")
	}
	return nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
