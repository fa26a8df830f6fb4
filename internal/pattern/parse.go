package pattern

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/nfagrep/internal/parser"
)

// MaxRepeat caps counted repetition bounds.
const MaxRepeat = 1000

// MaxStates caps the number of engine states a pattern may expand to.
// Counted repeats copy their body, so nested bounds multiply.
const MaxStates = 10000

// Sentinel errors wrapped by SyntaxError.
var (
	// ErrSyntax indicates a malformed pattern.
	ErrSyntax = errors.New("invalid pattern")

	// ErrUnsupported indicates valid regex syntax this engine does not support.
	ErrUnsupported = errors.New("unsupported pattern feature")
)

// SyntaxError reports a pattern problem at a byte offset.
type SyntaxError struct {
	Pattern string
	Pos     int
	Msg     string

	err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %s at position %d in %q", e.err, e.Msg, e.Pos, e.Pattern)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *SyntaxError) Unwrap() error {
	return e.err
}

// patternParser is a recursive-descent parser over the pattern source.
//
//	top    := ['^'] concat ('|' ['^'] concat)*
//	alt    := concat ('|' concat)*
//	concat := repeat*
//	repeat := atom ('*' | '+' | '?' | '{' n [',' [m]] '}')*
//	atom   := '(' alt ')' | '[' class ']' | '.' | '\' escape | literal
type patternParser struct {
	src    string
	pos    int
	groups int
}

// Parse parses pattern into an AST.
//
// A '^' may open any top-level alternative and anchors that alternative
// only: "^a|b" matches "xb".
func Parse(pattern string) (*Pattern, error) {
	p := &patternParser{src: pattern}
	out := &Pattern{Source: pattern}

	branches, err := p.parseBranches()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		// parseBranches only stops early on an unbalanced ')'.
		return nil, p.errorf(ErrSyntax, "unmatched ')'")
	}

	out.Anchored = true
	options := make([]Node, len(branches))
	for i, b := range branches {
		options[i] = b.Node
		out.Anchored = out.Anchored && b.Anchored
	}
	if len(branches) == 1 {
		out.Root = branches[0].Node
	} else {
		out.Root = Alternate{Options: options}
		out.Branches = branches
	}
	out.Groups = p.groups

	if n := stateCount(out.Root); n > MaxStates {
		return nil, p.errorf(ErrSyntax, "pattern expands to more than %d states", MaxStates)
	}
	return out, nil
}

func (p *patternParser) parseBranches() ([]Branch, error) {
	var branches []Branch
	for {
		var b Branch
		if p.peekIs('^') {
			b.Anchored = true
			p.pos++
		}
		n, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		b.Node = n
		branches = append(branches, b)

		if !p.peekIs('|') {
			return branches, nil
		}
		p.pos++
	}
}

func (p *patternParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *patternParser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *patternParser) peekIs(r rune) bool {
	return !p.eof() && p.peek() == r
}

func (p *patternParser) next() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return r
}

func (p *patternParser) errorf(kind error, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pattern: p.src,
		Pos:     p.pos,
		Msg:     fmt.Sprintf(format, args...),
		err:     kind,
	}
}

func (p *patternParser) parseAlt() (Node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if !p.peekIs('|') {
		return first, nil
	}

	alt := Alternate{Options: []Node{first}}
	for p.peekIs('|') {
		p.pos++
		opt, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		alt.Options = append(alt.Options, opt)
	}
	return alt, nil
}

func (p *patternParser) parseConcat() (Node, error) {
	var items []Node
	for !p.eof() && !p.peekIs('|') && !p.peekIs(')') {
		n, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	switch len(items) {
	case 0:
		return Empty{}, nil
	case 1:
		return items[0], nil
	default:
		return Concat{Items: items}, nil
	}
}

func (p *patternParser) parseRepeat() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for !p.eof() {
		switch p.peek() {
		case '*':
			p.pos++
			atom = Repeat{Sub: atom, Min: 0, Max: -1}
		case '+':
			p.pos++
			atom = Repeat{Sub: atom, Min: 1, Max: -1}
		case '?':
			p.pos++
			atom = Repeat{Sub: atom, Min: 0, Max: 1}
		case '{':
			lo, hi, err := p.parseBounds()
			if err != nil {
				return nil, err
			}
			atom = Repeat{Sub: atom, Min: lo, Max: hi}
		default:
			return atom, nil
		}
		if stateCount(atom) > MaxStates {
			return nil, p.errorf(ErrSyntax, "repetition expands to more than %d states", MaxStates)
		}
	}
	return atom, nil
}

// parseBounds reads {n}, {n,} or {n,m}.
func (p *patternParser) parseBounds() (int, int, error) {
	start := p.pos
	p.pos++ // '{'

	readInt := func() (int, error) {
		rest, n, err := parser.Int()(p.src[p.pos:])
		if err != nil {
			if errors.Is(err, parser.ErrInvalidNumber) {
				return 0, p.errorf(ErrSyntax, "repetition count too large")
			}
			return 0, p.errorf(ErrSyntax, "expected repetition count")
		}
		p.pos = len(p.src) - len(rest)
		if n > MaxRepeat {
			return 0, p.errorf(ErrSyntax, "repetition count %d exceeds %d", n, MaxRepeat)
		}
		return n, nil
	}

	lo, err := readInt()
	if err != nil {
		return 0, 0, err
	}
	hi := lo

	if p.peekIs(',') {
		p.pos++
		hi = -1
		if !p.peekIs('}') {
			if hi, err = readInt(); err != nil {
				return 0, 0, err
			}
		}
	}

	if !p.peekIs('}') {
		return 0, 0, p.errorf(ErrSyntax, "unterminated repetition starting at %d", start)
	}
	p.pos++

	if hi >= 0 && hi < lo {
		return 0, 0, p.errorf(ErrSyntax, "invalid repetition range {%d,%d}", lo, hi)
	}
	return lo, hi, nil
}

func (p *patternParser) parseAtom() (Node, error) {
	switch p.peek() {
	case '(':
		p.pos++
		p.groups++
		index := p.groups
		sub, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if !p.peekIs(')') {
			return nil, p.errorf(ErrSyntax, "missing ')'")
		}
		p.pos++
		return Group{Index: index, Sub: sub}, nil
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		return Any{}, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?', '{':
		return nil, p.errorf(ErrSyntax, "missing argument to repetition operator %q", p.peek())
	case '^':
		return nil, p.errorf(ErrUnsupported, "'^' is only supported at the start of a top-level alternative")
	case '$':
		return nil, p.errorf(ErrUnsupported, "end anchor '$'")
	default:
		return Literal{Char: p.next()}, nil
	}
}

var namedClasses = map[rune]bool{'d': true, 'D': true, 'w': true, 'W': true, 's': true, 'S': true}

func (p *patternParser) parseEscape() (Node, error) {
	start := p.pos
	p.pos++ // '\'
	if p.eof() {
		return nil, p.errorf(ErrSyntax, "trailing backslash")
	}

	r := p.next()
	switch {
	case namedClasses[r]:
		return Class{Label: p.src[start:p.pos], Items: []ClassItem{{Named: r}}}, nil
	case r >= '1' && r <= '9':
		return nil, p.errorf(ErrUnsupported, "backreference \\%c", r)
	}

	lit, err := p.escapedLiteral(r)
	if err != nil {
		return nil, err
	}
	return Literal{Char: lit}, nil
}

// escapedLiteral maps the rune after a backslash to the literal it denotes.
func (p *patternParser) escapedLiteral(r rune) (rune, error) {
	switch r {
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	}
	if r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
		return 0, p.errorf(ErrUnsupported, "escape \\%c", r)
	}
	return r, nil
}

func (p *patternParser) parseClass() (Node, error) {
	start := p.pos
	p.pos++ // '['

	c := Class{}
	if p.peekIs('^') {
		c.Negated = true
		p.pos++
	}

	first := true
	for {
		if p.eof() {
			return nil, p.errorf(ErrSyntax, "missing ']' for class starting at %d", start)
		}
		if p.peekIs(']') && !first {
			p.pos++
			break
		}
		first = false

		lo := p.next()
		if lo == '\\' {
			if p.eof() {
				return nil, p.errorf(ErrSyntax, "trailing backslash")
			}
			esc := p.next()
			if namedClasses[esc] {
				c.Items = append(c.Items, ClassItem{Named: esc})
				continue
			}
			var err error
			if lo, err = p.escapedLiteral(esc); err != nil {
				return nil, err
			}
		}

		hi := lo
		if p.peekIs('-') && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.pos++ // '-'
			hi = p.next()
			if hi == '\\' {
				if p.eof() {
					return nil, p.errorf(ErrSyntax, "trailing backslash")
				}
				var err error
				if hi, err = p.escapedLiteral(p.next()); err != nil {
					return nil, err
				}
			}
			if hi < lo {
				return nil, p.errorf(ErrSyntax, "invalid class range %c-%c", lo, hi)
			}
		}
		c.Items = append(c.Items, ClassItem{Lo: lo, Hi: hi})
	}

	c.Label = p.src[start:p.pos]
	return c, nil
}
