package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/nfagrep/internal/automaton"
	"github.com/roach88/nfagrep/internal/graphspec"
	"github.com/roach88/nfagrep/internal/pattern"
	"github.com/roach88/nfagrep/internal/store"
)

// Decision is the outcome of one input against one graph.
type Decision struct {
	Input    string `json:"input"`
	Accepted bool   `json:"accepted"`
	Steps    int    `json:"steps"`
	Error    string `json:"error,omitempty"`
}

// Logger returns the command logger, discarding output if the root
// pre-run has not configured one.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

func (o *RootOptions) engineOptions() []automaton.Option {
	opts := []automaton.Option{automaton.WithLogger(o.Logger())}
	if o.MaxSteps > 0 {
		opts = append(opts, automaton.WithMaxSteps(o.MaxSteps))
	}
	return opts
}

// normalize applies NFC when --nfc is set. A precomposed rune and its
// decomposed sequence differ in rune count, so pattern and input must be
// normalized the same way to match.
func (o *RootOptions) normalize(s string) string {
	if o.NFC {
		return norm.NFC.String(s)
	}
	return s
}

func (o *RootOptions) compilePattern(src string) (*automaton.Engine, error) {
	return pattern.Compile(o.normalize(src), o.engineOptions()...)
}

func (o *RootOptions) loadGraph(path string) (*automaton.Engine, error) {
	g, err := graphspec.Load(path)
	if err != nil {
		return nil, err
	}
	return g.Build(o.engineOptions()...)
}

// decide runs one input and records it when --db is set.
func (o *RootOptions) decide(ctx context.Context, eng *automaton.Engine, kind store.SourceKind, source, input string) (Decision, error) {
	input = o.normalize(input)
	res, runErr := eng.Run(ctx, input)

	d := Decision{Input: input, Accepted: res.Accepted, Steps: res.Steps}
	if runErr != nil {
		if !automaton.IsStepsExceededError(runErr) {
			return d, runErr
		}
		d.Error = runErr.Error()
	}

	if err := o.record(ctx, kind, source, d); err != nil {
		return d, err
	}
	return d, nil
}

// record appends a decision to the run history if --db is set.
func (o *RootOptions) record(ctx context.Context, kind store.SourceKind, source string, d Decision) error {
	if o.Database == "" {
		return nil
	}

	st, err := store.Open(o.Database)
	if err != nil {
		return fmt.Errorf("%w: %v", errStore, err)
	}
	defer st.Close()

	run, err := st.RecordRun(ctx, store.Run{
		SourceKind: kind,
		Source:     source,
		Input:      d.Input,
		Accepted:   d.Accepted,
		Steps:      d.Steps,
		Error:      d.Error,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errStore, err)
	}
	o.Logger().Debug("run recorded", "id", run.ID, "seq", run.Seq)
	return nil
}

var errStore = errors.New("run history")

// readLine reads one line, without its line terminator.
// An empty stream yields the empty line.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// formatDecision renders a decision as one text line.
func formatDecision(d Decision) string {
	switch {
	case d.Error != "":
		return fmt.Sprintf("! %q aborted: %s", d.Input, d.Error)
	case d.Accepted:
		return fmt.Sprintf("✓ %q (%d steps)", d.Input, d.Steps)
	default:
		return fmt.Sprintf("✗ %q (%d steps)", d.Input, d.Steps)
	}
}

// decisionError maps decide failures to exit errors.
func decisionError(f *OutputFormatter, err error) error {
	if errors.Is(err, errStore) {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to record run", err)
	}
	return f.fail(ExitCommandError, ErrCodeGeneric, "search failed", err)
}
