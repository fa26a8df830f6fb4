package automaton

import (
	"context"
	"fmt"
	"io"
)

// TraceEventKind names a search event.
type TraceEventKind string

const (
	// EventVisit: a search state was popped.
	EventVisit TraceEventKind = "visit"
	// EventPush: a successor was pushed.
	EventPush TraceEventKind = "push"
	// EventSkip: an epsilon successor was suppressed by the loop guard.
	EventSkip TraceEventKind = "skip_epsilon"
	// EventAccept: an accepting state was popped.
	EventAccept TraceEventKind = "accept"
	// EventReject: the stack emptied.
	EventReject TraceEventKind = "reject"
)

// TraceEvent is one step of the search.
type TraceEvent struct {
	Seq     int64          `json:"seq" yaml:"seq"`
	Kind    TraceEventKind `json:"kind" yaml:"kind"`
	State   string         `json:"state,omitempty" yaml:"state,omitempty"`
	To      string         `json:"to,omitempty" yaml:"to,omitempty"`
	Matcher string         `json:"matcher,omitempty" yaml:"matcher,omitempty"`
	Offset  int            `json:"offset" yaml:"offset"`
}

// Trace is the complete event log of one query.
type Trace struct {
	Input    string       `json:"input" yaml:"input"`
	Accepted bool         `json:"accepted" yaml:"accepted"`
	Steps    int          `json:"steps" yaml:"steps"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
	Events   []TraceEvent `json:"events" yaml:"events"`
}

// Trace runs the search on input and records every event.
//
// Sequence numbers come from a per-call logical clock, so the same graph
// and input always produce an identical trace.
func (e *Engine) Trace(input string) *Trace {
	return e.TraceContext(context.Background(), input)
}

// TraceContext is Trace with cancellation.
func (e *Engine) TraceContext(ctx context.Context, input string) *Trace {
	tr := &Trace{Input: input, Events: []TraceEvent{}}
	clk := &clock{}

	res, err := e.search(ctx, input, func(ev TraceEvent) {
		ev.Seq = clk.next()
		tr.Events = append(tr.Events, ev)
	})
	tr.Accepted = res.Accepted
	tr.Steps = res.Steps
	if err != nil {
		tr.Error = err.Error()
	}
	return tr
}

// Count returns how many events of kind k were recorded.
func (t *Trace) Count(k TraceEventKind) int {
	n := 0
	for _, ev := range t.Events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

// WriteText renders the trace one event per line.
func (t *Trace) WriteText(w io.Writer) error {
	for _, ev := range t.Events {
		var err error
		switch ev.Kind {
		case EventPush, EventSkip:
			_, err = fmt.Fprintf(w, "%4d %-12s %s -> %s %s @%d\n",
				ev.Seq, ev.Kind, ev.State, ev.To, ev.Matcher, ev.Offset)
		case EventReject:
			_, err = fmt.Fprintf(w, "%4d %-12s\n", ev.Seq, ev.Kind)
		default:
			_, err = fmt.Fprintf(w, "%4d %-12s %s @%d\n", ev.Seq, ev.Kind, ev.State, ev.Offset)
		}
		if err != nil {
			return err
		}
	}

	verdict := "rejected"
	if t.Accepted {
		verdict = "accepted"
	}
	if t.Error != "" {
		verdict = "aborted: " + t.Error
	}
	_, err := fmt.Fprintf(w, "%s after %d steps\n", verdict, t.Steps)
	return err
}
