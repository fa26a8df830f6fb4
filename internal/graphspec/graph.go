// Package graphspec loads declarative automaton graphs from YAML or CUE.
//
// A graph file lists states, the initial state, accepting states and
// transitions in priority order:
//
//	name: scenario-b
//	states: [q0, q1, q2]
//	initial: q0
//	accepting: [q2]
//	transitions:
//	  - {from: q0, to: q1, char: "a"}
//	  - {from: q1, to: q1, epsilon: true}
//	  - {from: q1, to: q2, class: "[b-d]"}
//
// Exactly one of char, class or epsilon must be set per transition. Class
// accepts the names digit, word, space and any, or a bracket/escape class
// in pattern syntax. unshift: true inserts the edge at highest priority
// instead of appending it.
//
// CUE files use the same field names, either at top level or under a
// graph: field.
package graphspec

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/nfagrep/internal/automaton"
	"github.com/roach88/nfagrep/internal/pattern"
)

// Graph is a declarative automaton definition.
type Graph struct {
	Name        string       `yaml:"name,omitempty" json:"name,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	States      []string     `yaml:"states" json:"states"`
	Initial     string       `yaml:"initial" json:"initial"`
	Accepting   []string     `yaml:"accepting" json:"accepting"`
	Transitions []Transition `yaml:"transitions" json:"transitions"`
}

// Transition is one declared edge.
type Transition struct {
	From    string `yaml:"from" json:"from"`
	To      string `yaml:"to" json:"to"`
	Char    string `yaml:"char,omitempty" json:"char,omitempty"`
	Class   string `yaml:"class,omitempty" json:"class,omitempty"`
	Epsilon bool   `yaml:"epsilon,omitempty" json:"epsilon,omitempty"`
	Unshift bool   `yaml:"unshift,omitempty" json:"unshift,omitempty"`
}

// Validation error codes (E200-E299)
const (
	ErrNoStates          = "E201" // states list is empty
	ErrDuplicateState    = "E202" // state declared twice
	ErrInitialMissing    = "E203" // initial not set
	ErrInitialUndeclared = "E204" // initial not in states
	ErrFromUndeclared    = "E205" // transition source not in states
	ErrMatcherCount      = "E206" // not exactly one of char/class/epsilon
	ErrBadChar           = "E207" // char is not a single rune
	ErrBadClass          = "E208" // class is unknown or malformed
	ErrEmptyTarget       = "E209" // transition target empty
)

// ValidationError represents a graph definition problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the definition against the engine's construction rules.
// Returns all errors found (does not fail-fast).
func (g *Graph) Validate() []ValidationError {
	var errs []ValidationError

	if len(g.States) == 0 {
		errs = append(errs, ValidationError{Field: "states", Message: "at least one state is required", Code: ErrNoStates})
	}

	declared := make(map[string]bool, len(g.States))
	for i, s := range g.States {
		if declared[s] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("states[%d]", i),
				Message: fmt.Sprintf("state %q declared twice", s),
				Code:    ErrDuplicateState,
			})
		}
		declared[s] = true
	}

	switch {
	case g.Initial == "":
		errs = append(errs, ValidationError{Field: "initial", Message: "initial state is required", Code: ErrInitialMissing})
	case !declared[g.Initial]:
		errs = append(errs, ValidationError{
			Field:   "initial",
			Message: fmt.Sprintf("initial state %q is not declared", g.Initial),
			Code:    ErrInitialUndeclared,
		})
	}

	for i, t := range g.Transitions {
		field := fmt.Sprintf("transitions[%d]", i)
		if !declared[t.From] {
			errs = append(errs, ValidationError{
				Field:   field + ".from",
				Message: fmt.Sprintf("source state %q is not declared", t.From),
				Code:    ErrFromUndeclared,
			})
		}
		if t.To == "" {
			errs = append(errs, ValidationError{Field: field + ".to", Message: "target state is required", Code: ErrEmptyTarget})
		}
		if _, err := t.Matcher(); err != nil {
			var ve ValidationError
			if errors.As(err, &ve) {
				ve.Field = field + "." + ve.Field
				errs = append(errs, ve)
			}
		}
	}

	return errs
}

// Matcher converts the declared guard into an automaton.Matcher.
func (t Transition) Matcher() (automaton.Matcher, error) {
	set := 0
	if t.Char != "" {
		set++
	}
	if t.Class != "" {
		set++
	}
	if t.Epsilon {
		set++
	}
	if set != 1 {
		return automaton.Matcher{}, ValidationError{
			Field:   "matcher",
			Message: "exactly one of char, class or epsilon is required",
			Code:    ErrMatcherCount,
		}
	}

	switch {
	case t.Epsilon:
		return automaton.Epsilon(), nil
	case t.Char != "":
		if utf8.RuneCountInString(t.Char) != 1 {
			return automaton.Matcher{}, ValidationError{
				Field:   "char",
				Message: fmt.Sprintf("char %q must be exactly one character", t.Char),
				Code:    ErrBadChar,
			}
		}
		r, _ := utf8.DecodeRuneInString(t.Char)
		return automaton.Char(r), nil
	default:
		return classMatcher(t.Class)
	}
}

func classMatcher(class string) (automaton.Matcher, error) {
	switch strings.ToLower(class) {
	case "digit":
		return automaton.Digit(), nil
	case "word":
		return automaton.Word(), nil
	case "space":
		return automaton.Space(), nil
	case "any":
		return automaton.AnyChar(), nil
	}

	bad := func(msg string) (automaton.Matcher, error) {
		return automaton.Matcher{}, ValidationError{
			Field:   "class",
			Message: fmt.Sprintf("class %q: %s", class, msg),
			Code:    ErrBadClass,
		}
	}

	if !strings.HasPrefix(class, "[") && !strings.HasPrefix(class, `\`) {
		return bad("must be digit, word, space, any or a pattern class")
	}
	p, err := pattern.Parse("^" + class)
	if err != nil {
		return bad(err.Error())
	}
	cl, ok := p.Root.(pattern.Class)
	if !ok {
		return bad("not a single character class")
	}
	return pattern.ClassMatcher(cl), nil
}

// Build validates the definition and constructs an engine.
// Validation failures are joined into one error.
func (g *Graph) Build(opts ...automaton.Option) (*automaton.Engine, error) {
	if verrs := g.Validate(); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("graph %q: %w", g.Name, errors.Join(errs...))
	}

	e := automaton.New(opts...)
	e.DeclareStates(g.States...)
	if err := e.SetInitial(g.Initial); err != nil {
		return nil, err
	}
	e.SetAccepting(g.Accepting...)

	for _, t := range g.Transitions {
		m, err := t.Matcher()
		if err != nil {
			return nil, err
		}
		if t.Unshift {
			err = e.UnshiftTransition(t.From, t.To, m)
		} else {
			err = e.AddTransition(t.From, t.To, m)
		}
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}
