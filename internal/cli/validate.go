package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nfagrep/internal/graphspec"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                        `json:"valid"`
	Graph       string                      `json:"graph"`
	Digest      string                      `json:"digest,omitempty"`
	States      int                         `json:"states"`
	Transitions int                         `json:"transitions"`
	Errors      []graphspec.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <graph-file>",
		Short: "Validate a graph file without running it",
		Long: `Check a YAML, JSON or CUE graph file against the construction rules:
declared states, a declared initial state, known source states, and
exactly one well-formed guard per transition. All problems are reported,
not just the first.

Exit codes:
  0 - Graph is valid
  1 - Graph has validation errors
  2 - Command error (file missing or unparseable)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	g, err := graphspec.Load(path)
	if err != nil {
		code := ErrCodeBadGraph
		if errors.Is(err, os.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return formatter.fail(ExitCommandError, code, "failed to load graph", err)
	}

	formatter.VerboseLog("Loaded graph %q: %d state(s), %d transition(s)", g.Name, len(g.States), len(g.Transitions))

	result := ValidationResult{
		Graph:       g.Name,
		States:      len(g.States),
		Transitions: len(g.Transitions),
		Errors:      g.Validate(),
	}
	result.Valid = len(result.Errors) == 0

	if result.Valid {
		digest, err := g.Digest()
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeBadGraph, "failed to digest graph", err)
		}
		result.Digest = digest

		if formatter.IsJSON() {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ Graph %s valid (%d states, %d transitions)\n", g.Name, result.States, result.Transitions)
		fmt.Fprintf(formatter.Writer, "  digest %s\n", result.Digest)
		return nil
	}

	return outputValidationErrors(formatter, result)
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.IsJSON() {
		if err := formatter.Failure(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "✗ Graph %s invalid\n", result.Graph)
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
