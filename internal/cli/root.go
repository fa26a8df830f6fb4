package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Pattern  string // -E, grep mode
	Database string // record runs to this SQLite file when set
	NFC      bool   // normalize patterns and inputs to NFC
	MaxSteps int    // search step budget, 0 = unlimited

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the nfagrep CLI.
//
// Invoked with -E and no subcommand, it behaves like grep: one line is
// read from stdin and the exit status reports whether it matched.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nfagrep",
		Short: "nfagrep - backtracking NFA grep",
		Long: `Match text against patterns and hand-built graphs using a
backtracking NFA engine.

Grep mode reads one line from standard input:

  echo <input_text> | nfagrep -E <pattern>

and exits 0 if the line contains a match, 1 otherwise.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				// Grep mode reports every failure as 1
				code := ExitCommandError
				if cmd == cmd.Root() {
					code = ExitFailure
				}
				return NewExitError(code, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.MaxSteps < 0 {
				return NewExitError(ExitCommandError, "--max-steps must be non-negative")
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrep(opts, cmd)
		},
	}

	// Grep mode
	cmd.Flags().StringVarP(&opts.Pattern, "regexp", "E", "", "pattern to match against one line of stdin")

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")
	cmd.PersistentFlags().BoolVar(&opts.NFC, "nfc", false, "normalize patterns and inputs to Unicode NFC")
	cmd.PersistentFlags().IntVar(&opts.MaxSteps, "max-steps", 0, "abort a search after this many steps (0 = unlimited)")

	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// newLogger builds the CLI's structured logger. Engine diagnostics are
// debug level, so they only appear with --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
