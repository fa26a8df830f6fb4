package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/nfagrep/internal/automaton"
)

// AssertionError is returned when an assertion fails.
// It includes the case trace to help debug the failure.
type AssertionError struct {
	Type     string           // Assertion type for categorization
	Input    string           // Case input whose trace was inspected
	Expected string           // Human-readable expected outcome
	Actual   string           // Human-readable actual outcome
	Trace    *automaton.Trace // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (input %q)\n", e.Type, e.Input)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Trace != nil {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		_ = e.Trace.WriteText(&buf)
	}

	return buf.String()
}

// assertTraceContains checks that an event of the given kind occurs,
// restricted to the given state when one is set.
func assertTraceContains(tr *automaton.Trace, a Assertion) error {
	for _, ev := range tr.Events {
		if ev.Kind == a.Kind && (a.State == "" || ev.State == a.State) {
			return nil
		}
	}

	want := string(a.Kind)
	if a.State != "" {
		want += " at " + a.State
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Input:    a.Input,
		Expected: want,
		Actual:   "not found in trace",
		Trace:    tr,
	}
}

// assertTraceOrder checks that the states appear as a subsequence of the
// visit order. Other visits may intervene.
func assertTraceOrder(tr *automaton.Trace, a Assertion) error {
	next := 0
	var visited []string
	for _, ev := range tr.Events {
		if ev.Kind != automaton.EventVisit {
			continue
		}
		visited = append(visited, ev.State)
		if next < len(a.States) && ev.State == a.States[next] {
			next++
		}
	}

	if next == len(a.States) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Input:    a.Input,
		Expected: fmt.Sprintf("visits in order: %v", a.States),
		Actual:   fmt.Sprintf("missing %s after %v; visited %v", a.States[next], a.States[:next], visited),
		Trace:    tr,
	}
}

// assertTraceCount checks that the event kind occurs exactly Count times.
func assertTraceCount(tr *automaton.Trace, a Assertion) error {
	count := tr.Count(a.Kind)
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Input:    a.Input,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    tr,
		}
	}
	return nil
}

// EvaluateAssertions runs all assertions against the result's case traces.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		tr := result.traceFor(a.Input)
		if tr == nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: no case with input %q", i, a.Input))
			continue
		}

		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(tr, a)
		case AssertTraceOrder:
			err = assertTraceOrder(tr, a)
		case AssertTraceCount:
			err = assertTraceCount(tr, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}
