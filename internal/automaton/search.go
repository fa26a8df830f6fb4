package automaton

import (
	"context"
)

// ctxCheckInterval is how many pops happen between context checks.
const ctxCheckInterval = 1024

// frame is one pending search state.
type frame struct {
	state  *State
	offset int // rune offset into the input
	eps    *epsilonMemory
}

// Result describes one completed query.
type Result struct {
	// Accepted is true iff an accepting state was reached.
	Accepted bool

	// Steps is the number of search states popped.
	Steps int

	// MaxStack is the peak depth of the explicit stack.
	MaxStack int
}

// Decide reports whether input is accepted.
//
// Decide never fails for a well-formed graph. If the engine was configured
// with WithMaxSteps and the budget runs out, the query is abandoned with a
// warning and Decide reports false.
func (e *Engine) Decide(input string) bool {
	res, err := e.Run(context.Background(), input)
	if err != nil {
		e.logger.Warn("decision abandoned", "error", err, "steps", res.Steps)
		return false
	}
	return res.Accepted
}

// Run performs the acceptance search with cancellation and step budget.
//
// Returns ctx.Err() if the context is done, or *StepsExceededError if the
// engine's step budget is exhausted. The partial Result is returned in both
// cases.
func (e *Engine) Run(ctx context.Context, input string) (Result, error) {
	return e.search(ctx, input, nil)
}

// search is the explicit-stack depth-first backtracking loop shared by
// Run and Trace. record, when non-nil, receives every search event.
func (e *Engine) search(ctx context.Context, input string, record func(TraceEvent)) (Result, error) {
	var res Result

	if e.initial == nil {
		e.logger.Warn("query on engine without initial state")
		return res, nil
	}

	runes := []rune(input)
	quota := newStepQuota(e.maxSteps)
	stack := make([]frame, 1, 16)
	stack[0] = frame{state: e.initial}
	res.MaxStack = 1

	for len(stack) > 0 {
		err := quota.check()
		res.Steps = quota.current
		if err != nil {
			return res, err
		}
		if quota.current%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		top := stack[len(stack)-1]
		stack[len(stack)-1] = frame{}
		stack = stack[:len(stack)-1]

		if record != nil {
			record(TraceEvent{Kind: EventVisit, State: top.state.name, Offset: top.offset})
		}

		if e.isAccept[top.state.id] {
			if record != nil {
				record(TraceEvent{Kind: EventAccept, State: top.state.name, Offset: top.offset})
			}
			e.logger.Debug("input accepted",
				"state", top.state.name,
				"offset", top.offset,
				"steps", res.Steps,
			)
			res.Accepted = true
			return res, nil
		}

		// Reverse priority order: index 0 ends on top of the stack.
		ts := top.state.transitions
		for i := len(ts) - 1; i >= 0; i-- {
			t := ts[i]

			if t.matcher.IsEpsilon() {
				key := edgeKey{from: top.state.id, to: t.target.id}
				if top.eps.wouldLoop(key) {
					if record != nil {
						record(TraceEvent{
							Kind:    EventSkip,
							State:   top.state.name,
							To:      t.target.name,
							Matcher: t.matcher.String(),
							Offset:  top.offset,
						})
					}
					continue
				}
				stack = append(stack, frame{
					state:  t.target,
					offset: top.offset,
					eps:    top.eps.with(key),
				})
			} else {
				if top.offset >= len(runes) || !t.matcher.Matches(runes[top.offset]) {
					continue
				}
				stack = append(stack, frame{
					state:  t.target,
					offset: top.offset + 1,
				})
			}

			if record != nil {
				record(TraceEvent{
					Kind:    EventPush,
					State:   top.state.name,
					To:      t.target.name,
					Matcher: t.matcher.String(),
					Offset:  top.offset,
				})
			}
		}

		if len(stack) > res.MaxStack {
			res.MaxStack = len(stack)
		}
	}

	if record != nil {
		record(TraceEvent{Kind: EventReject})
	}
	e.logger.Debug("input rejected", "steps", res.Steps)
	return res, nil
}
