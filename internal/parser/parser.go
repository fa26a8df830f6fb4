// Package parser provides small generic parser combinators over strings.
//
// A Parser consumes a prefix of its input and returns the unconsumed rest
// together with a value. On failure it returns a *ParseError holding the
// input it was given, so callers can report where parsing stopped.
//
// The pattern compiler uses these to read counted-repetition bounds such as
// {2,5}; they are independent of the automaton engine.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Sentinel errors wrapped by ParseError.
var (
	// ErrNoMatch indicates the parser did not recognize the input.
	ErrNoMatch = errors.New("no match found")

	// ErrInvalidNumber indicates digits were read but do not form a valid number.
	ErrInvalidNumber = errors.New("failed to parse number")
)

// ParseError reports where a parser failed.
type ParseError struct {
	// Input is the unconsumed input at the point of failure.
	Input string

	err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%v at end of input", e.err)
	}
	return fmt.Sprintf("%v at %q", e.err, e.Input)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ParseError) Unwrap() error {
	return e.err
}

func fail(input string, err error) *ParseError {
	return &ParseError{Input: input, err: err}
}

// Parser consumes a prefix of input.
type Parser[T any] func(input string) (rest string, value T, err error)

// Char reads one rune.
func Char() Parser[rune] {
	return func(input string) (string, rune, error) {
		if input == "" {
			return input, 0, fail(input, ErrNoMatch)
		}
		r, size := utf8.DecodeRuneInString(input)
		return input[size:], r, nil
	}
}

// Literal reads exactly r.
func Literal(r rune) Parser[rune] {
	return Filter(Char(), func(c rune) bool { return c == r })
}

// Filter succeeds only when p succeeds and pred accepts its value.
// On rejection nothing is consumed.
func Filter[T any](p Parser[T], pred func(T) bool) Parser[T] {
	return func(input string) (string, T, error) {
		rest, v, err := p(input)
		if err != nil {
			return rest, v, err
		}
		if !pred(v) {
			var zero T
			return input, zero, fail(input, ErrNoMatch)
		}
		return rest, v, nil
	}
}

// Map transforms the value produced by p.
func Map[A, B any](p Parser[A], fn func(A) B) Parser[B] {
	return func(input string) (string, B, error) {
		rest, v, err := p(input)
		if err != nil {
			var zero B
			return rest, zero, err
		}
		return rest, fn(v), nil
	}
}

// Digit reads one decimal digit, returned as a string.
func Digit() Parser[string] {
	return Map(
		Filter(Char(), func(r rune) bool { return r >= '0' && r <= '9' }),
		func(r rune) string { return string(r) },
	)
}

// OneOrMore applies p repeatedly; it fails unless p succeeds at least once.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		rest, first, err := p(input)
		if err != nil {
			return input, nil, err
		}

		values := []T{first}
		for rest != "" {
			next, v, err := p(rest)
			if err != nil {
				break
			}
			values = append(values, v)
			rest = next
		}
		return rest, values, nil
	}
}

// ZeroOrMore applies p repeatedly. It never fails.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		rest := input
		values := []T{}
		for rest != "" {
			next, v, err := p(rest)
			if err != nil {
				break
			}
			values = append(values, v)
			rest = next
		}
		return rest, values, nil
	}
}

// Number reads a run of decimal digits as a string.
func Number() Parser[string] {
	return Map(OneOrMore(Digit()), func(ds []string) string {
		return strings.Join(ds, "")
	})
}

// Int reads a run of decimal digits as an int.
func Int() Parser[int] {
	num := Number()
	return func(input string) (string, int, error) {
		rest, s, err := num(input)
		if err != nil {
			return input, 0, err
		}
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return input, 0, fail(input, ErrInvalidNumber)
		}
		return rest, n, nil
	}
}
