package automaton

import (
	"fmt"
	"unicode"
)

// MatcherKind tags the two matcher variants.
type MatcherKind int

const (
	// KindCharacter consumes one rune when its predicate holds.
	KindCharacter MatcherKind = iota + 1
	// KindEpsilon always matches and consumes nothing.
	KindEpsilon
)

// String returns the stable identity used in logs and traces.
func (k MatcherKind) String() string {
	switch k {
	case KindCharacter:
		return "Character"
	case KindEpsilon:
		return "Epsilon"
	default:
		return fmt.Sprintf("MatcherKind(%d)", int(k))
	}
}

// Predicate reports whether a single rune is accepted.
type Predicate func(r rune) bool

// Matcher guards a transition.
//
// Matcher is a small value type. Copying it shares the underlying predicate,
// so the same class matcher can be attached to many transitions.
//
// Equality is by kind only: two Character matchers with different
// predicates are Equal. Nothing in the search relies on predicate identity.
type Matcher struct {
	kind  MatcherKind
	pred  Predicate
	label string
}

// Char matches exactly r.
func Char(r rune) Matcher {
	return Matcher{
		kind:  KindCharacter,
		pred:  func(c rune) bool { return c == r },
		label: fmt.Sprintf("%q", r),
	}
}

// CharFunc matches any rune accepted by p. The label shows up in traces.
// Panics if p is nil.
func CharFunc(label string, p Predicate) Matcher {
	if p == nil {
		panic("automaton: CharFunc with nil predicate")
	}
	return Matcher{kind: KindCharacter, pred: p, label: label}
}

// Epsilon returns the consume-nothing matcher.
func Epsilon() Matcher {
	return Matcher{kind: KindEpsilon, label: "ε"}
}

// AnyChar matches every rune.
func AnyChar() Matcher {
	return CharFunc(".", func(rune) bool { return true })
}

// Digit matches decimal digits 0-9.
func Digit() Matcher {
	return CharFunc(`\d`, isDigit)
}

// Word matches letters, digits and underscore.
func Word() Matcher {
	return CharFunc(`\w`, isWord)
}

// Space matches Unicode white space.
func Space() Matcher {
	return CharFunc(`\s`, unicode.IsSpace)
}

// OneOf matches any rune accepted by at least one of preds.
func OneOf(label string, preds ...Predicate) Matcher {
	return CharFunc(label, func(r rune) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	})
}

// NoneOf matches any rune rejected by every one of preds.
func NoneOf(label string, preds ...Predicate) Matcher {
	return CharFunc(label, func(r rune) bool {
		for _, p := range preds {
			if p(r) {
				return false
			}
		}
		return true
	})
}

// Kind returns the matcher's variant tag.
func (m Matcher) Kind() MatcherKind {
	return m.kind
}

// IsEpsilon reports whether m consumes nothing.
func (m Matcher) IsEpsilon() bool {
	return m.kind == KindEpsilon
}

// Matches reports whether m accepts r. Epsilon accepts everything.
func (m Matcher) Matches(r rune) bool {
	if m.kind == KindEpsilon {
		return true
	}
	if m.pred == nil {
		return false
	}
	return m.pred(r)
}

// Equal compares matchers by kind only.
func (m Matcher) Equal(other Matcher) bool {
	return m.kind == other.kind
}

// Label returns the human-readable guard description.
func (m Matcher) Label() string {
	return m.label
}

// String returns "Kind(label)".
func (m Matcher) String() string {
	return fmt.Sprintf("%s(%s)", m.kind, m.label)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWord(r rune) bool {
	return r == '_' || isDigit(r) || unicode.IsLetter(r)
}

// Predicate helpers for class construction.

// Is returns a predicate matching exactly r.
func Is(r rune) Predicate {
	return func(c rune) bool { return c == r }
}

// InRange returns a predicate matching lo..hi inclusive.
func InRange(lo, hi rune) Predicate {
	return func(c rune) bool { return c >= lo && c <= hi }
}

// IsDigit is the predicate behind Digit.
func IsDigit(r rune) bool { return isDigit(r) }

// IsWord is the predicate behind Word.
func IsWord(r rune) bool { return isWord(r) }
