package pattern

// Node is a parsed pattern element.
type Node interface {
	node()
}

// Literal matches one rune.
type Literal struct {
	Char rune
}

// Any matches every rune (".").
type Any struct{}

// ClassItem is one element of a character class: a rune range or a named
// class (d, w, s, and their negations D, W, S).
type ClassItem struct {
	Lo, Hi rune
	Named  rune
}

// Class matches one rune from a set.
type Class struct {
	// Label is the source text, used in traces.
	Label   string
	Negated bool
	Items   []ClassItem
}

// Concat matches Items in sequence.
type Concat struct {
	Items []Node
}

// Alternate matches any one of Options, tried left to right.
type Alternate struct {
	Options []Node
}

// Repeat matches Sub between Min and Max times. Max < 0 means unbounded.
type Repeat struct {
	Sub      Node
	Min, Max int
}

// Group is a parenthesized subpattern. Index counts from 1 in order of the
// opening parenthesis.
type Group struct {
	Index int
	Sub   Node
}

// Empty matches the empty string.
type Empty struct{}

func (Literal) node()   {}
func (Any) node()       {}
func (Class) node()     {}
func (Concat) node()    {}
func (Alternate) node() {}
func (Repeat) node()    {}
func (Group) node()     {}
func (Empty) node()     {}

// Branch is one top-level alternative and whether it opened with '^'.
type Branch struct {
	Anchored bool
	Node     Node
}

// Pattern is a parsed pattern.
type Pattern struct {
	Source string
	Root   Node

	// Anchored is set when every top-level alternative starts with '^'.
	Anchored bool

	// Branches holds the top-level alternatives when there is more than
	// one. Root is then the Alternate of their nodes.
	Branches []Branch

	// Groups is the number of capture groups.
	Groups int
}
