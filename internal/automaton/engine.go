package automaton

import (
	"log/slog"
)

// Engine owns a state graph and decides acceptance over it.
//
// INVARIANTS:
//   - Every name in byName maps to exactly one *State in states
//   - The initial state, once set, is present in the graph
//   - Every accepting state is present in the graph
//   - Transition order on a state only changes through Add/Unshift
type Engine struct {
	states    []*State
	byName    map[string]int
	initial   *State
	accepting []*State
	isAccept  map[int]bool

	logger   *slog.Logger
	maxSteps int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for search diagnostics.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxSteps bounds the number of search states popped per query.
//
// Default: 0 (unlimited). Run returns StepsExceededError when the budget is
// exhausted; Decide reports false.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		byName:   make(map[string]int),
		isAccept: make(map[int]bool),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateState registers a state named name and returns it.
//
// If the name is already taken the existing state is returned unchanged;
// a second CreateState never resets transitions.
func (e *Engine) CreateState(name string) *State {
	if id, ok := e.byName[name]; ok {
		return e.states[id]
	}

	s := &State{id: len(e.states), name: name}
	e.states = append(e.states, s)
	e.byName[name] = s.id
	return s
}

// DeclareStates calls CreateState for each name.
func (e *Engine) DeclareStates(names ...string) {
	for _, n := range names {
		e.CreateState(n)
	}
}

// SetInitial sets the start state. The state must already exist.
func (e *Engine) SetInitial(name string) error {
	s, ok := e.State(name)
	if !ok {
		return newStateNotFound("set initial", name)
	}
	e.initial = s
	return nil
}

// SetAccepting marks names as accepting, creating missing states.
// Repeated names are recorded once.
func (e *Engine) SetAccepting(names ...string) {
	for _, n := range names {
		s := e.CreateState(n)
		if e.isAccept[s.id] {
			continue
		}
		e.isAccept[s.id] = true
		e.accepting = append(e.accepting, s)
	}
}

// AddTransition appends an edge from -> to with the lowest priority among
// from's existing edges.
//
// from must exist. to is created on demand.
func (e *Engine) AddTransition(from, to string, m Matcher) error {
	src, ok := e.State(from)
	if !ok {
		return newStateNotFound("add transition", from)
	}
	src.appendTransition(e.CreateState(to), m)
	return nil
}

// UnshiftTransition inserts an edge from -> to with the highest priority.
//
// Same existence contract as AddTransition.
func (e *Engine) UnshiftTransition(from, to string, m Matcher) error {
	src, ok := e.State(from)
	if !ok {
		return newStateNotFound("unshift transition", from)
	}
	src.unshiftTransition(e.CreateState(to), m)
	return nil
}

// MarkGroupStart tags name as opening capture group group.
func (e *Engine) MarkGroupStart(name, group string) error {
	s, ok := e.State(name)
	if !ok {
		return newStateNotFound("mark group start", name)
	}
	s.startGroups = append(s.startGroups, group)
	return nil
}

// MarkGroupEnd tags name as closing capture group group.
func (e *Engine) MarkGroupEnd(name, group string) error {
	s, ok := e.State(name)
	if !ok {
		return newStateNotFound("mark group end", name)
	}
	s.endGroups = append(s.endGroups, group)
	return nil
}

// HasState reports whether name is registered.
func (e *Engine) HasState(name string) bool {
	_, ok := e.byName[name]
	return ok
}

// State looks up a state by name.
func (e *Engine) State(name string) (*State, bool) {
	id, ok := e.byName[name]
	if !ok {
		return nil, false
	}
	return e.states[id], true
}

// StateCount returns the number of registered states.
func (e *Engine) StateCount() int {
	return len(e.states)
}

// States returns all states in creation order.
func (e *Engine) States() []*State {
	out := make([]*State, len(e.states))
	copy(out, e.states)
	return out
}

// Initial returns the initial state name, or "" if unset.
func (e *Engine) Initial() string {
	if e.initial == nil {
		return ""
	}
	return e.initial.name
}

// Accepting returns accepting state names in declaration order.
func (e *Engine) Accepting() []string {
	names := make([]string, len(e.accepting))
	for i, s := range e.accepting {
		names[i] = s.name
	}
	return names
}

// IsAccepting reports whether name is an accepting state.
func (e *Engine) IsAccepting(name string) bool {
	id, ok := e.byName[name]
	return ok && e.isAccept[id]
}

// TransitionCount returns the number of edges in the whole graph.
func (e *Engine) TransitionCount() int {
	n := 0
	for _, s := range e.states {
		n += len(s.transitions)
	}
	return n
}

// Validate reports construction faults that would make queries meaningless.
func (e *Engine) Validate() error {
	if e.initial == nil {
		return &ConfigError{
			Code: ErrCodeNoInitialState,
			Op:   "validate",
			err:  ErrNoInitialState,
		}
	}
	return nil
}
