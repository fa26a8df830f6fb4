package pattern

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nfagrep/internal/automaton"
)

func TestCompile_Matches(t *testing.T) {
	testCases := []struct {
		pattern string
		input   string
		want    bool
	}{
		// character classes
		{`\d`, "apple123", true},
		{`\d`, "apple", false},
		{`\d`, "---", false},
		{`\w`, "apple123", true},
		{`\w`, "apple", true},
		{`\w`, "---", false},
		{`\w`, "alph4-num3ric", true},
		{`\s`, "a b", true},
		{`\S`, "   ", false},
		// literals
		{"f", "f", true},
		{"f", "a", false},
		{"f", "", false},
		{"abc", "xxabc", true},
		{"abc", "abxc", false},
		{`\.`, "a.b", true},
		{`\.`, "ab", false},
		{"日本", "こんにちは日本", true},
		// anchors
		{"^abc", "abcd", true},
		{"^abc", "xabc", false},
		{"^a|b", "xb", true},
		{"^a|b", "ax", true},
		{"^a|b", "xa", false},
		{"a|^b", "b", true},
		{"a|^b", "xa", true},
		{"a|^b", "xb", false},
		{"^a|^b", "b", true},
		{"^a|^b", "xb", false},
		{"^(a|b)c", "xbc", false},
		// classes
		{"[abc]", "zzb", true},
		{"[abc]", "xyz", false},
		{"[^abc]", "abc", false},
		{"[^abc]", "abcd", true},
		{"[a-z]+[0-9]", "HEY there7", true},
		// quantifiers
		{"a+b", "caaab", true},
		{"a+b", "cb", false},
		{"colou?r", "color", true},
		{"colou?r", "colour", true},
		{"colou?r", "colouur", false},
		{"x*", "", true},
		{"^a{2}b", "aab", true},
		{"^a{2}b", "ab", false},
		{"^a{2}b", "aaab", false},
		{"^a{2,}b", "aaaab", true},
		{"^a{2,}b", "ab", false},
		{"^a{1,2}b", "aab", true},
		{"^a{1,2}b", "aaab", false},
		{"^a{0}b", "b", true},
		// groups and alternation
		{"(cat|dog)s", "dogs", true},
		{"(cat|dog)s", "cats", true},
		{"(cat|dog)s", "cows", false},
		{"^(a|)b", "b", true},
		// dot
		{".", "", false},
		{".", "a", true},
		// epsilon cycles
		{"(a*)*b", "aaab", true},
		{"(a*)*b", "aaa", false},
		{"(a?)+b", "b", true},
		{"(|a)*c", "aac", true},
		// empty pattern
		{"", "anything", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s/%s", tc.pattern, tc.input), func(t *testing.T) {
			e, err := Compile(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, e.Decide(tc.input))
		})
	}
}

func TestCompile_Unanchored_Layout(t *testing.T) {
	e := MustCompile("ab")

	assert.Equal(t, "s0", e.Initial())
	assert.Equal(t, 4, e.StateCount())
	assert.Equal(t, []string{"s3"}, e.Accepting())

	s0, ok := e.State("s0")
	require.True(t, ok)
	ts := s0.Transitions()
	require.Len(t, ts, 2)
	assert.True(t, ts[0].Matcher().IsEpsilon(), "entering the pattern has priority over scanning")
	assert.Equal(t, "s1", ts[0].To().Name())
	assert.Equal(t, "s0", ts[1].To().Name())
}

func TestCompile_Anchored_Layout(t *testing.T) {
	e := MustCompile("^ab")

	assert.Equal(t, 3, e.StateCount())
	s0, _ := e.State("s0")
	require.Equal(t, 1, s0.TransitionCount())
	assert.Equal(t, "Character('a')", s0.Transitions()[0].Matcher().String())
}

func TestCompile_MixedAnchors_Layout(t *testing.T) {
	e := MustCompile("^a|b")

	// s0 -ε-> s3 (anchored "a"); s0 -ε-> s2 (scan)
	s0, ok := e.State("s0")
	require.True(t, ok)
	ts := s0.Transitions()
	require.Len(t, ts, 2)
	assert.Equal(t, "s3", ts[0].To().Name(), "anchored branch first")
	assert.Equal(t, "s2", ts[1].To().Name())

	scan, ok := e.State("s2")
	require.True(t, ok)
	ts = scan.Transitions()
	require.Len(t, ts, 2)
	assert.True(t, ts[0].Matcher().IsEpsilon())
	assert.Equal(t, "s2", ts[1].To().Name(), "scan loop stays on the scan state")

	assert.Equal(t, []string{"s1"}, e.Accepting())
}

func TestCompile_ExpansionLimit(t *testing.T) {
	_, err := Compile("((a{1000}){1000}){1000}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))

	e, err := Compile("^(a{10}){10}")
	require.NoError(t, err)
	assert.LessOrEqual(t, e.StateCount(), MaxStates)
	assert.True(t, e.Decide(strings.Repeat("a", 100)))
	assert.False(t, e.Decide(strings.Repeat("a", 99)))
}

func TestCompile_GreedyLoopUsesUnshift(t *testing.T) {
	e := MustCompile("^a*")

	// s0 -ε-> s1 (loop); s1 -> [s3 body, s2 out]
	loop, ok := e.State("s1")
	require.True(t, ok)
	ts := loop.Transitions()
	require.Len(t, ts, 2)
	assert.Equal(t, "s3", ts[0].To().Name(), "body edge first")
	assert.Equal(t, "s2", ts[1].To().Name(), "exit edge second")
	assert.Equal(t, []string{"s2"}, e.Accepting())
}

func TestCompile_GroupTags(t *testing.T) {
	e := MustCompile("^(a)")

	open, ok := e.State("s1")
	require.True(t, ok)
	assert.Equal(t, []string{"1"}, open.StartGroups())

	closing, ok := e.State("s3")
	require.True(t, ok)
	assert.Equal(t, []string{"1"}, closing.EndGroups())
	assert.Equal(t, []string{"s3"}, e.Accepting())
}

func TestCompile_ClassLabelInTrace(t *testing.T) {
	e := MustCompile("^[a-c]")
	tr := e.Trace("b")

	require.True(t, tr.Accepted)
	found := false
	for _, ev := range tr.Events {
		if ev.Kind == automaton.EventPush && ev.Matcher == "Character([a-c])" {
			found = true
		}
	}
	assert.True(t, found, "class label should appear in the trace")
}

func TestCompile_Error(t *testing.T) {
	_, err := Compile("a$")
	require.Error(t, err)
	assert.Panics(t, func() { MustCompile("(") })
}

func TestCompile_PassesOptions(t *testing.T) {
	e := MustCompile("(a|a)*b", automaton.WithMaxSteps(50))

	_, err := e.Run(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaac")
	require.Error(t, err)
	assert.True(t, automaton.IsStepsExceededError(err))
}

func TestCompile_Deterministic(t *testing.T) {
	a := MustCompile("(ab|a)+c")
	b := MustCompile("(ab|a)+c")

	assert.Equal(t, a.StateCount(), b.StateCount())
	assert.Equal(t, a.TransitionCount(), b.TransitionCount())
	assert.Equal(t, a.Trace("xababac"), b.Trace("xababac"))
}
