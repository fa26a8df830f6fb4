package harness

import "github.com/roach88/nfagrep/internal/automaton"

// CaseResult is the observed outcome of one case.
type CaseResult struct {
	Input  string           `json:"input"`
	Expect Outcome          `json:"expect"`
	Got    Outcome          `json:"got"`
	Steps  int              `json:"steps"`
	Trace  *automaton.Trace `json:"-"`
}

// Passed reports whether the observed outcome matched the expectation.
func (c CaseResult) Passed() bool {
	return c.Expect == c.Got
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Scenario is the name of the executed scenario.
	Scenario string `json:"scenario"`

	// Pass indicates overall test success.
	// True if every case and assertion matched.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Cases:    []CaseResult{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// traceFor returns the trace of the first case with the given input.
func (r *Result) traceFor(input string) *automaton.Trace {
	for _, c := range r.Cases {
		if c.Input == input {
			return c.Trace
		}
	}
	return nil
}
