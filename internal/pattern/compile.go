package pattern

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/roach88/nfagrep/internal/automaton"
)

// Compile parses pattern and builds an engine that accepts any input
// containing a match (or, for '^' patterns, any input starting with one).
//
// Options are passed through to automaton.New.
func Compile(pattern string, opts ...automaton.Option) (*automaton.Engine, error) {
	p, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	return Build(p, opts...)
}

// MustCompile is Compile that panics on error. For tests and fixed patterns.
func MustCompile(pattern string, opts ...automaton.Option) *automaton.Engine {
	e, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Build turns a parsed pattern into an engine graph.
//
// Graph layout for unanchored patterns:
//
//	s0 --ε--> s1 (pattern) ... --> accept
//	s0 --.--> s0
//
// The epsilon into the pattern has priority over the scan loop, so
// matches starting earlier in the input are explored first.
//
// When only some top-level alternatives are anchored, the anchored ones
// hang off s0 and the rest off a separate scan state, so they are tried
// at offset 0 only:
//
//	s0 --ε--> anchored branch ... --> accept
//	s0 --ε--> scan --ε--> unanchored branch ... --> accept
//	scan --.--> scan
func Build(p *Pattern, opts ...automaton.Option) (*automaton.Engine, error) {
	c := &compiler{eng: automaton.New(opts...)}

	start := c.newState()
	if err := c.eng.SetInitial(start); err != nil {
		return nil, err
	}

	if !p.Anchored && anyAnchored(p.Branches) {
		end, err := c.emitBranches(p.Branches, start)
		if err != nil {
			return nil, err
		}
		c.eng.SetAccepting(end)
		return c.eng, nil
	}

	from := start
	if !p.Anchored {
		begin, err := c.scanEntry(start)
		if err != nil {
			return nil, err
		}
		from = begin
	}

	end, err := c.emit(p.Root, from)
	if err != nil {
		return nil, err
	}
	c.eng.SetAccepting(end)

	return c.eng, nil
}

func anyAnchored(branches []Branch) bool {
	for _, b := range branches {
		if b.Anchored {
			return true
		}
	}
	return false
}

// scanEntry adds the unanchored prologue at from: an epsilon into a fresh
// state, then a self-loop consuming any rune. It returns the fresh state.
func (c *compiler) scanEntry(from string) (string, error) {
	begin := c.newState()
	if err := c.eng.AddTransition(from, begin, automaton.Epsilon()); err != nil {
		return "", err
	}
	if err := c.eng.AddTransition(from, from, automaton.AnyChar()); err != nil {
		return "", err
	}
	return begin, nil
}

// emitBranches lays out top-level alternatives with mixed anchoring.
func (c *compiler) emitBranches(branches []Branch, start string) (string, error) {
	to := c.newState()
	scan := c.newState()

	var unanchored []Node
	for _, b := range branches {
		if !b.Anchored {
			unanchored = append(unanchored, b.Node)
			continue
		}
		if err := c.branch(start, b.Node, to); err != nil {
			return "", err
		}
	}

	if err := c.epsilon(start, scan); err != nil {
		return "", err
	}
	begin, err := c.scanEntry(scan)
	if err != nil {
		return "", err
	}
	for _, n := range unanchored {
		if err := c.branch(begin, n, to); err != nil {
			return "", err
		}
	}
	return to, nil
}

// branch emits n between a fresh state reached by epsilon from from, and to.
func (c *compiler) branch(from string, n Node, to string) error {
	entry := c.newState()
	if err := c.epsilon(from, entry); err != nil {
		return err
	}
	end, err := c.emit(n, entry)
	if err != nil {
		return err
	}
	return c.epsilon(end, to)
}

type compiler struct {
	eng *automaton.Engine
	n   int
}

func (c *compiler) newState() string {
	name := "s" + strconv.Itoa(c.n)
	c.n++
	c.eng.CreateState(name)
	return name
}

func (c *compiler) epsilon(from, to string) error {
	return c.eng.AddTransition(from, to, automaton.Epsilon())
}

// emit appends the fragment for n starting at from and returns the state
// where the fragment ends. The returned state has no outgoing edges.
func (c *compiler) emit(n Node, from string) (string, error) {
	switch n := n.(type) {
	case Empty:
		to := c.newState()
		return to, c.epsilon(from, to)

	case Literal:
		to := c.newState()
		return to, c.eng.AddTransition(from, to, automaton.Char(n.Char))

	case Any:
		to := c.newState()
		return to, c.eng.AddTransition(from, to, automaton.AnyChar())

	case Class:
		to := c.newState()
		return to, c.eng.AddTransition(from, to, ClassMatcher(n))

	case Concat:
		cur := from
		for _, item := range n.Items {
			next, err := c.emit(item, cur)
			if err != nil {
				return "", err
			}
			cur = next
		}
		return cur, nil

	case Alternate:
		to := c.newState()
		for _, opt := range n.Options {
			if err := c.branch(from, opt, to); err != nil {
				return "", err
			}
		}
		return to, nil

	case Group:
		open := c.newState()
		if err := c.epsilon(from, open); err != nil {
			return "", err
		}
		label := strconv.Itoa(n.Index)
		if err := c.eng.MarkGroupStart(open, label); err != nil {
			return "", err
		}
		end, err := c.emit(n.Sub, open)
		if err != nil {
			return "", err
		}
		closing := c.newState()
		if err := c.epsilon(end, closing); err != nil {
			return "", err
		}
		return closing, c.eng.MarkGroupEnd(closing, label)

	case Repeat:
		return c.emitRepeat(n, from)

	default:
		return "", fmt.Errorf("compile: unknown node type %T", n)
	}
}

// emitRepeat expands Sub{Min,Max} into Min mandatory copies followed by
// either a greedy loop (Max < 0) or Max-Min greedy optional copies.
//
// Greedy means the "take the body" edge has priority over the "skip" edge;
// it is inserted with UnshiftTransition after the skip edge exists.
func (c *compiler) emitRepeat(n Repeat, from string) (string, error) {
	cur := from
	for i := 0; i < n.Min; i++ {
		next, err := c.emit(n.Sub, cur)
		if err != nil {
			return "", err
		}
		cur = next
	}

	if n.Max < 0 {
		loop := c.newState()
		if err := c.epsilon(cur, loop); err != nil {
			return "", err
		}
		out := c.newState()
		if err := c.epsilon(loop, out); err != nil {
			return "", err
		}
		body := c.newState()
		end, err := c.emit(n.Sub, body)
		if err != nil {
			return "", err
		}
		if err := c.epsilon(end, loop); err != nil {
			return "", err
		}
		if err := c.eng.UnshiftTransition(loop, body, automaton.Epsilon()); err != nil {
			return "", err
		}
		return out, nil
	}

	if n.Max == n.Min {
		out := c.newState()
		return out, c.epsilon(cur, out)
	}

	// All optional copies exit to the same state.
	out := c.newState()
	for i := n.Min; i < n.Max; i++ {
		split := c.newState()
		if err := c.epsilon(cur, split); err != nil {
			return "", err
		}
		if err := c.epsilon(split, out); err != nil {
			return "", err
		}
		body := c.newState()
		if err := c.eng.UnshiftTransition(split, body, automaton.Epsilon()); err != nil {
			return "", err
		}
		end, err := c.emit(n.Sub, body)
		if err != nil {
			return "", err
		}
		cur = end
	}
	return out, c.epsilon(cur, out)
}

// ClassMatcher builds the matcher for a parsed character class.
func ClassMatcher(cl Class) automaton.Matcher {
	preds := make([]automaton.Predicate, 0, len(cl.Items))
	for _, it := range cl.Items {
		preds = append(preds, itemPredicate(it))
	}
	if cl.Negated {
		return automaton.NoneOf(cl.Label, preds...)
	}
	return automaton.OneOf(cl.Label, preds...)
}

func itemPredicate(it ClassItem) automaton.Predicate {
	switch it.Named {
	case 'd':
		return automaton.IsDigit
	case 'D':
		return func(r rune) bool { return !automaton.IsDigit(r) }
	case 'w':
		return automaton.IsWord
	case 'W':
		return func(r rune) bool { return !automaton.IsWord(r) }
	case 's':
		return unicode.IsSpace
	case 'S':
		return func(r rune) bool { return !unicode.IsSpace(r) }
	}
	if it.Lo == it.Hi {
		return automaton.Is(it.Lo)
	}
	return automaton.InRange(it.Lo, it.Hi)
}
