package automaton

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph configuration faults.
var (
	// ErrStateNotFound is returned when an operation names an undeclared state.
	ErrStateNotFound = errors.New("state not found")

	// ErrNoInitialState is returned by Validate when no initial state is set.
	ErrNoInitialState = errors.New("initial state not set")
)

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeStateNotFound indicates an operation referenced an unknown state.
	ErrCodeStateNotFound ConfigErrorCode = "STATE_NOT_FOUND"

	// ErrCodeNoInitialState indicates the graph has no initial state.
	ErrCodeNoInitialState ConfigErrorCode = "NO_INITIAL_STATE"
)

// ConfigError is a construction-time graph fault.
//
// Configuration errors signal a bug in whatever built the graph (usually the
// pattern compiler). They are not retryable.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Op is the construction operation that failed (e.g. "add transition").
	Op string

	// State is the offending state name, if any.
	State string

	err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("%s: %s: %v (state=%q)", e.Code, e.Op, e.err, e.State)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ConfigError) Unwrap() error {
	return e.err
}

func newStateNotFound(op, name string) *ConfigError {
	return &ConfigError{
		Code:  ErrCodeStateNotFound,
		Op:    op,
		State: name,
		err:   ErrStateNotFound,
	}
}

// IsConfigError returns true if err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
