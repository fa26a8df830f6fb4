package automaton

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type edgeSpec struct {
	from, to int
	eps      bool
	char     rune
}

type graphSpec struct {
	n         int
	accepting []int
	edges     []edgeSpec
}

func drawGraph(t *rapid.T) graphSpec {
	n := rapid.IntRange(1, 6).Draw(t, "states")
	g := graphSpec{n: n}
	g.accepting = rapid.SliceOfN(rapid.IntRange(0, n-1), 0, 2).Draw(t, "accepting")

	edges := rapid.IntRange(0, 12).Draw(t, "edges")
	for i := 0; i < edges; i++ {
		g.edges = append(g.edges, edgeSpec{
			from: rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("from%d", i)),
			to:   rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("to%d", i)),
			eps:  rapid.Bool().Draw(t, fmt.Sprintf("eps%d", i)),
			char: rapid.RuneFrom([]rune{'a', 'b'}).Draw(t, fmt.Sprintf("char%d", i)),
		})
	}
	return g
}

func (g graphSpec) build(t *rapid.T) *Engine {
	e := New()
	for i := 0; i < g.n; i++ {
		e.CreateState(fmt.Sprintf("s%d", i))
	}
	if err := e.SetInitial("s0"); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	for _, a := range g.accepting {
		e.SetAccepting(fmt.Sprintf("s%d", a))
	}
	for _, ed := range g.edges {
		m := Char(ed.char)
		if ed.eps {
			m = Epsilon()
		}
		if err := e.AddTransition(fmt.Sprintf("s%d", ed.from), fmt.Sprintf("s%d", ed.to), m); err != nil {
			t.Fatalf("add transition: %v", err)
		}
	}
	return e
}

// reachable is a set-based simulation used as an oracle: accept iff an
// accepting state lies in the epsilon closure at some offset.
func (g graphSpec) reachable(input []rune) bool {
	accept := make(map[int]bool)
	for _, a := range g.accepting {
		accept[a] = true
	}

	closure := func(set map[int]bool) map[int]bool {
		out := make(map[int]bool)
		stack := []int{}
		for s := range set {
			out[s] = true
			stack = append(stack, s)
		}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, ed := range g.edges {
				if ed.eps && ed.from == s && !out[ed.to] {
					out[ed.to] = true
					stack = append(stack, ed.to)
				}
			}
		}
		return out
	}

	cur := closure(map[int]bool{0: true})
	for i := 0; ; i++ {
		for s := range cur {
			if accept[s] {
				return true
			}
		}
		if i == len(input) || len(cur) == 0 {
			return false
		}
		next := make(map[int]bool)
		for s := range cur {
			for _, ed := range g.edges {
				if !ed.eps && ed.from == s && ed.char == input[i] {
					next[ed.to] = true
				}
			}
		}
		cur = closure(next)
	}
}

func TestProperty_TerminatesAndMatchesOracle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := drawGraph(t)
		e := g.build(t)
		input := rapid.StringOfN(rapid.RuneFrom([]rune{'a', 'b', 'c'}), 0, 6, -1).Draw(t, "input")

		res, err := e.Run(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := g.reachable([]rune(input)); res.Accepted != want {
			t.Fatalf("Decide(%q) = %v, oracle says %v", input, res.Accepted, want)
		}
	})
}

func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := drawGraph(t)
		e := g.build(t)
		input := rapid.StringOfN(rapid.RuneFrom([]rune{'a', 'b'}), 0, 5, -1).Draw(t, "input")

		first := e.Trace(input)
		second := e.Trace(input)
		require.Equal(t, first, second)
		require.Equal(t, first.Accepted, e.Decide(input))
	})
}

func TestProperty_AddPreservesExisting(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New()
		e.CreateState("src")
		count := rapid.IntRange(1, 20).Draw(t, "count")

		want := []string{}
		for i := 0; i < count; i++ {
			to := fmt.Sprintf("t%d", i)
			if rapid.Bool().Draw(t, fmt.Sprintf("unshift%d", i)) {
				require.NoError(t, e.UnshiftTransition("src", to, Epsilon()))
				want = append([]string{to}, want...)
			} else {
				require.NoError(t, e.AddTransition("src", to, Epsilon()))
				want = append(want, to)
			}
		}

		s, _ := e.State("src")
		got := []string{}
		for _, tr := range s.Transitions() {
			got = append(got, tr.To().Name())
		}
		require.Equal(t, want, got)
	})
}
