// Package automaton implements the nfagrep backtracking state-machine engine.
//
// An Engine owns a graph of named states connected by prioritized
// transitions. Each transition is guarded by a Matcher: either a predicate
// over a single rune (consumes one character) or Epsilon (consumes nothing).
//
// ARCHITECTURE:
//
// Graph Model:
// States live in an arena addressed by stable integer IDs; a name index maps
// names to IDs. Transitions point at their target *State directly, so a state
// never loses its outgoing edges when it later participates in another
// mutation. There is no deletion.
//
// Search:
// Decide runs an explicit-stack depth-first search from the initial state.
// Transitions are pushed in reverse priority order so the highest priority
// edge is explored next. The first accepting state popped wins; trailing
// input is ignored.
//
// Termination:
// Epsilon edges are guarded per branch by the set of (source, target) edges
// taken since the last consumed rune. Consuming input clears the set. This
// bounds the epsilon moves between two consumed runes by the number of
// epsilon edges in the graph.
//
// Worst-case running time is still exponential for adversarial graphs. Use
// WithMaxSteps or a context deadline with Run to bound latency.
//
// Thread-safety:
// Construction methods must not run concurrently with each other or with
// queries. Once construction is done, Decide, Run and Trace may be called
// from any number of goroutines; each call owns its own stack.
package automaton
