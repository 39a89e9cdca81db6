package errs

import "fmt"

// InvalidTransitionError reports a lifecycle or queue move that the current
// state of the order does not allow. It matches both ErrInvalidTransition and
// ErrValueIsInvalid so callers treating it as plain validation keep working.
type InvalidTransitionError struct {
	Operation string
	Attempted string
	Current   string
}

func NewInvalidTransitionError(operation, attempted, current string) *InvalidTransitionError {
	return &InvalidTransitionError{Operation: operation, Attempted: attempted, Current: current}
}

func (e *InvalidTransitionError) Error() string {
	if e.Attempted == "" {
		return fmt.Sprintf("%s: %s is not allowed while %s", ErrInvalidTransition, e.Operation, e.Current)
	}
	return fmt.Sprintf("%s: %s to %s is not allowed from %s",
		ErrInvalidTransition, e.Operation, e.Attempted, e.Current)
}

func (e *InvalidTransitionError) Unwrap() []error {
	return []error{ErrInvalidTransition, ErrValueIsInvalid}
}
