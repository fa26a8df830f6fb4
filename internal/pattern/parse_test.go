package pattern

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Shapes(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		want    Node
	}{
		{"empty", "", Empty{}},
		{"literal", "a", Literal{Char: 'a'}},
		{"concat", "ab", Concat{Items: []Node{Literal{Char: 'a'}, Literal{Char: 'b'}}}},
		{"alternate", "ab|c", Alternate{Options: []Node{
			Concat{Items: []Node{Literal{Char: 'a'}, Literal{Char: 'b'}}},
			Literal{Char: 'c'},
		}}},
		{"star", "a*", Repeat{Sub: Literal{Char: 'a'}, Min: 0, Max: -1}},
		{"plus", "a+", Repeat{Sub: Literal{Char: 'a'}, Min: 1, Max: -1}},
		{"optional", "a?", Repeat{Sub: Literal{Char: 'a'}, Min: 0, Max: 1}},
		{"exact", "a{3}", Repeat{Sub: Literal{Char: 'a'}, Min: 3, Max: 3}},
		{"at least", "a{2,}", Repeat{Sub: Literal{Char: 'a'}, Min: 2, Max: -1}},
		{"range", "a{2,5}", Repeat{Sub: Literal{Char: 'a'}, Min: 2, Max: 5}},
		{"any", ".", Any{}},
		{"digit", `\d`, Class{Label: `\d`, Items: []ClassItem{{Named: 'd'}}}},
		{"escaped dot", `\.`, Literal{Char: '.'}},
		{"tab", `\t`, Literal{Char: '\t'}},
		{"class", `[a-c\d_]`, Class{Label: `[a-c\d_]`, Items: []ClassItem{
			{Lo: 'a', Hi: 'c'}, {Named: 'd'}, {Lo: '_', Hi: '_'},
		}}},
		{"negated class", "[^x]", Class{Label: "[^x]", Negated: true, Items: []ClassItem{{Lo: 'x', Hi: 'x'}}}},
		{"leading bracket", "[]a]", Class{Label: "[]a]", Items: []ClassItem{{Lo: ']', Hi: ']'}, {Lo: 'a', Hi: 'a'}}}},
		{"trailing dash", "[a-]", Class{Label: "[a-]", Items: []ClassItem{{Lo: 'a', Hi: 'a'}, {Lo: '-', Hi: '-'}}}},
		{"group", "(a)", Group{Index: 1, Sub: Literal{Char: 'a'}}},
		{"nested repeat", "a*?", Repeat{Sub: Repeat{Sub: Literal{Char: 'a'}, Min: 0, Max: -1}, Min: 0, Max: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Root)
			assert.False(t, p.Anchored)
		})
	}
}

func TestParse_Anchor(t *testing.T) {
	p, err := Parse("^ab")
	require.NoError(t, err)
	assert.True(t, p.Anchored)
	assert.Equal(t, "^ab", p.Source)
	assert.Equal(t, Concat{Items: []Node{Literal{Char: 'a'}, Literal{Char: 'b'}}}, p.Root)
}

func TestParse_BranchAnchors(t *testing.T) {
	p, err := Parse("^ab|c|^d")
	require.NoError(t, err)
	assert.False(t, p.Anchored)
	require.Len(t, p.Branches, 3)
	assert.True(t, p.Branches[0].Anchored)
	assert.False(t, p.Branches[1].Anchored)
	assert.True(t, p.Branches[2].Anchored)
	assert.Equal(t, Literal{Char: 'd'}, p.Branches[2].Node)

	p, err = Parse("^a|^b")
	require.NoError(t, err)
	assert.True(t, p.Anchored)
	assert.Equal(t, Alternate{Options: []Node{Literal{Char: 'a'}, Literal{Char: 'b'}}}, p.Root)
}

func TestParse_ExpansionBound(t *testing.T) {
	// Largest single bound stays within the state budget
	_, err := Parse("a{1000}")
	require.NoError(t, err)

	_, err = Parse("(a{10}){100}")
	require.NoError(t, err)

	_, err = Parse("(a{100}){100}")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Msg, "states")
}

func TestParse_GroupCount(t *testing.T) {
	p, err := Parse("(a)((b)|c)")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Groups)

	concat, ok := p.Root.(Concat)
	require.True(t, ok)
	second, ok := concat.Items[1].(Group)
	require.True(t, ok)
	assert.Equal(t, 2, second.Index)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		kind    error
	}{
		{"unclosed group", "(a", ErrSyntax},
		{"unmatched paren", "a)", ErrSyntax},
		{"unclosed class", "[abc", ErrSyntax},
		{"bad class range", "[z-a]", ErrSyntax},
		{"leading star", "*a", ErrSyntax},
		{"leading brace", "{2}", ErrSyntax},
		{"inverted bounds", "a{3,1}", ErrSyntax},
		{"unterminated bounds", "a{2", ErrSyntax},
		{"missing count", "a{x}", ErrSyntax},
		{"count too large", "a{1001}", ErrSyntax},
		{"trailing backslash", `a\`, ErrSyntax},
		{"end anchor", "a$", ErrUnsupported},
		{"inner caret", "a^b", ErrUnsupported},
		{"caret in group", "(^a)", ErrUnsupported},
		{"nested counted repeats", "((a{1000}){1000}){1000}", ErrSyntax},
		{"squared repeat", "(a{100}){100}", ErrSyntax},
		{"long concat of repeats", strings.Repeat("a{1000}", 11), ErrSyntax},
		{"backreference", `(a)\1`, ErrUnsupported},
		{"unknown escape", `\q`, ErrUnsupported},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.pattern)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tc.pattern, se.Pattern)
			assert.Contains(t, err.Error(), "position")
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("ab$")

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Pos)
}
