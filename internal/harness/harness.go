package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/nfagrep/internal/automaton"
	"github.com/roach88/nfagrep/internal/graphspec"
	"github.com/roach88/nfagrep/internal/pattern"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	engine *automaton.Engine
	logger *slog.Logger
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for case progress.
// Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Build the graph from the pattern, inline graph or graph file
// 2. Trace every case in order
// 3. Compare outcomes with expectations
// 4. Evaluate trace assertions
//
// An error is returned only if the graph cannot be built; failing cases
// are reported through Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), scenario, opts...)
}

// RunContext is Run with cancellation.
func RunContext(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	eng, err := buildEngine(scenario, o.logger)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	h := &Harness{engine: eng, logger: o.logger}
	result := NewResult(scenario.Name)

	for i, c := range scenario.Cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cr := h.runCase(ctx, c)
		if !cr.Passed() {
			result.AddError(fmt.Sprintf("cases[%d] %q: expected %s, got %s", i, c.Input, cr.Expect, cr.Got))
		}
		result.Cases = append(result.Cases, cr)

		h.logger.Info("case completed",
			"scenario", scenario.Name,
			"input", c.Input,
			"expect", cr.Expect,
			"got", cr.Got,
			"steps", cr.Steps,
		)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) runCase(ctx context.Context, c Case) CaseResult {
	tr := h.engine.TraceContext(ctx, c.Input)

	got := OutcomeReject
	switch {
	case tr.Error != "":
		got = OutcomeAbort
	case tr.Accepted:
		got = OutcomeAccept
	}

	return CaseResult{
		Input:  c.Input,
		Expect: c.Expect,
		Got:    got,
		Steps:  tr.Steps,
		Trace:  tr,
	}
}

func buildEngine(s *Scenario, logger *slog.Logger) (*automaton.Engine, error) {
	opts := []automaton.Option{automaton.WithLogger(logger)}
	if s.MaxSteps > 0 {
		opts = append(opts, automaton.WithMaxSteps(s.MaxSteps))
	}

	switch {
	case s.Pattern != "":
		return pattern.Compile(s.Pattern, opts...)
	case s.Graph != nil:
		return s.Graph.Build(opts...)
	default:
		g, err := graphspec.Load(s.GraphFile)
		if err != nil {
			return nil, err
		}
		return g.Build(opts...)
	}
}
