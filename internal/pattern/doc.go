// Package pattern compiles grep-style patterns into automaton graphs.
//
// Supported syntax:
//
//	a        literal rune
//	.        any rune
//	\d \w \s digit, word, space (and \D \W \S negations)
//	\. \( .. escaped metacharacters; \t \n \r
//	[a-z_]   character class, [^...] negated
//	(x)      group; recorded as latent group tags on the graph
//	x|y      alternation, left option first
//	x* x+ x? greedy repetition
//	x{n} x{n,} x{n,m}
//	^        anchor at the start of a top-level alternative
//
// Patterns are unanchored by default: the compiled graph accepts any input
// that contains a match. The engine accepts as soon as an accepting state is
// reached, so there is no end anchor; '$' is rejected with ErrUnsupported,
// as are backreferences.
package pattern
