package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions without extra context.
var (
	ErrTripNotFound = errors.New("trip not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrConcurrentModification means an optimistic version check lost
	// against a concurrent writer. Retryable: refetch and reattempt.
	ErrConcurrentModification = errors.New("trip was modified concurrently")
)

// ValidationError reports malformed or missing input. No state change.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a role mismatch or an actor that is not
// the owning or assigned party. No state change.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// Authorizationf builds an AuthorizationError from a format string.
func Authorizationf(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError reports a status precondition violation.
type InvalidTransitionError struct {
	Action string
	Status string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s trip in status %s: %s", e.Action, e.Status, e.Reason)
	}
	return fmt.Sprintf("cannot %s trip in status %s", e.Action, e.Status)
}

// StoreError wraps a durable-layer failure. Terminal for the action.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError unless it is already part of the
// domain taxonomy.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// Classification helpers.

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrTripNotFound) || errors.Is(err, ErrUserNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsDomain reports whether err already belongs to the taxonomy above.
func IsDomain(err error) bool {
	return IsValidation(err) || IsAuthorization(err) || IsInvalidTransition(err) ||
		IsNotFound(err) || IsConflict(err)
}
