package automaton

import (
	"errors"
	"fmt"
)

// stepQuota counts search states popped during one query and enforces the
// engine's step budget.
//
// CRITICAL DISTINCTION from the epsilon guard:
//   - Epsilon guard: stops infinite traversal of consume-nothing cycles
//   - Step quota: stops finite but exponential backtracking
//
// The guard alone guarantees termination; the quota bounds latency.
type stepQuota struct {
	maxSteps int // 0 means unlimited
	current  int
}

func newStepQuota(maxSteps int) *stepQuota {
	return &stepQuota{maxSteps: maxSteps}
}

// check increments the step counter and validates it against the limit.
func (q *stepQuota) check() error {
	q.current++
	if q.maxSteps > 0 && q.current > q.maxSteps {
		return &StepsExceededError{
			Steps: q.current,
			Limit: q.maxSteps,
		}
	}
	return nil
}

// StepsExceededError is returned by Run when the step budget is exhausted.
type StepsExceededError struct {
	Steps int // Number of steps taken
	Limit int // Maximum allowed steps
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("search exceeded max steps quota: %d steps > %d limit", e.Steps, e.Limit)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
