// Command nfagrep matches text against patterns and graphs with a
// backtracking NFA engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/nfagrep/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil && err.Error() != "" {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
