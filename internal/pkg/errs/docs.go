// Package errs provides the typed errors shared by the dispatch service.
//
// Every error type pairs a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...)
// with a struct that carries the offending parameter and an optional cause.
// Callers classify failures with errors.Is against the sentinels:
//
//   - validation failures match ErrValueIsRequired, ErrValueIsInvalid or ErrValueIsOutOfRange
//     (IsValidation checks all three at once)
//   - unknown ids match ErrObjectNotFound
//   - illegal lifecycle or queue moves match ErrInvalidTransition, and also ErrValueIsInvalid
//   - concurrent writes detected by the store match ErrVersionIsInvalid
package errs
