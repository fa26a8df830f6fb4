package automaton

// edgeKey identifies one epsilon edge by its endpoints.
type edgeKey struct {
	from int
	to   int
}

// epsilonMemory records the epsilon edges taken on one search branch since
// the branch last consumed a rune.
//
// Without it a cycle of epsilon edges (a self-loop included) would be
// traversed forever at the same offset:
//
//	q1 --ε--> q1 --ε--> q1 --ε--> ...  ← LOOP DETECTED on second push
//
// The guard is keyed per edge, not per matcher kind. Keying by kind alone
// would make any epsilon taken earlier on the branch block every other
// epsilon edge at the same offset, rejecting inputs the graph accepts.
//
// The memory is an immutable linked list. with() returns a new head that
// shares the tail, so each successor gets its own logical copy without
// copying. A nil *epsilonMemory is the empty memory.
type epsilonMemory struct {
	key  edgeKey
	next *epsilonMemory
	size int
}

// wouldLoop reports whether key was already taken on this branch.
func (m *epsilonMemory) wouldLoop(key edgeKey) bool {
	for n := m; n != nil; n = n.next {
		if n.key == key {
			return true
		}
	}
	return false
}

// with returns the memory extended by key. The receiver is not modified.
func (m *epsilonMemory) with(key edgeKey) *epsilonMemory {
	return &epsilonMemory{key: key, next: m, size: m.len() + 1}
}

// len returns the number of recorded edges.
func (m *epsilonMemory) len() int {
	if m == nil {
		return 0
	}
	return m.size
}
