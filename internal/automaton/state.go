package automaton

// State is a named node in the graph.
//
// Identity is purely nominal: Equal compares names and ignores
// transitions. Engine guarantees a name maps to exactly one *State, so two
// distinct states with the same name never coexist in one graph.
type State struct {
	id          int
	name        string
	transitions []Transition

	// Group tags are recorded for future submatch capture support.
	// The search does not read them.
	startGroups []string
	endGroups   []string
}

// Transition is a prioritized edge to target guarded by Matcher.
type Transition struct {
	target  *State
	matcher Matcher
}

// To returns the target state.
func (t Transition) To() *State {
	return t.target
}

// Matcher returns the transition guard.
func (t Transition) Matcher() Matcher {
	return t.matcher
}

// ID returns the arena index of the state.
func (s *State) ID() int {
	return s.id
}

// Name returns the unique state name.
func (s *State) Name() string {
	return s.name
}

// Transitions returns a copy of the outgoing edges in priority order.
func (s *State) Transitions() []Transition {
	out := make([]Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// TransitionCount returns the number of outgoing edges.
func (s *State) TransitionCount() int {
	return len(s.transitions)
}

// StartGroups returns the capture groups opened at this state.
func (s *State) StartGroups() []string {
	return append([]string(nil), s.startGroups...)
}

// EndGroups returns the capture groups closed at this state.
func (s *State) EndGroups() []string {
	return append([]string(nil), s.endGroups...)
}

// Equal reports whether s and other have the same name.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.name == other.name
}

func (s *State) appendTransition(target *State, m Matcher) {
	s.transitions = append(s.transitions, Transition{target: target, matcher: m})
}

func (s *State) unshiftTransition(target *State, m Matcher) {
	s.transitions = append(s.transitions, Transition{})
	copy(s.transitions[1:], s.transitions)
	s.transitions[0] = Transition{target: target, matcher: m}
}
