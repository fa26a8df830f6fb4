package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/nfagrep/internal/store"
)

// runGrep implements `nfagrep -E <pattern>`.
//
// Exit codes:
//
//	0 - the stdin line contains a match
//	1 - no match, or any error (missing -E, bad pattern, read failure)
func runGrep(opts *RootOptions, cmd *cobra.Command) error {
	if !cmd.Flags().Changed("regexp") {
		return NewExitError(ExitFailure, "expected first argument to be '-E'")
	}

	eng, err := opts.compilePattern(opts.Pattern)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid pattern", err)
	}

	line, err := readLine(cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read input", err)
	}

	d, err := opts.decide(cmd.Context(), eng, store.SourcePattern, opts.normalize(opts.Pattern), line)
	if err != nil {
		if errors.Is(err, errStore) {
			return WrapExitError(ExitFailure, "failed to record run", err)
		}
		return WrapExitError(ExitFailure, "search failed", err)
	}

	opts.Logger().Debug("grep decision",
		"pattern", opts.Pattern,
		"accepted", d.Accepted,
		"steps", d.Steps,
	)

	if d.Error != "" {
		return NewExitError(ExitFailure, fmt.Sprintf("search aborted: %s", d.Error))
	}
	if !d.Accepted {
		return NewExitError(ExitFailure, "")
	}
	return nil
}
