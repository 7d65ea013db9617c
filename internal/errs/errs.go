// Package errs defines the error taxonomy shared by the launcher core.
//
// Three kinds of failure exist:
//   - StoreParseError: a persisted document could not be decoded. Callers recover
//     locally by substituting defaults and only log it.
//   - ScoringError: a tunable parameter is out of range. Rejected when the
//     configuration is loaded, never during ranking.
//   - ErrPersist: writing a document failed. Reported upward, never retried.
//
// A mutation that references an unknown id is not an error at all; it is a no-op.
package errs

import (
	"errors"
	"fmt"
)

// ErrPersist is the single generic signal for failed persistence writes.
var ErrPersist = errors.New("persisting document")

// StoreParseError reports a malformed persisted document.
type StoreParseError struct {
	Key string
	Err error
}

func (e *StoreParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Key, e.Err)
}

func (e *StoreParseError) Unwrap() error {
	return e.Err
}

// ScoringError reports an invalid tunable parameter.
type ScoringError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

// Persist wraps a write failure for key so that errors.Is(err, ErrPersist) holds.
func Persist(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w %s: %w", ErrPersist, key, err)
}

// IsPersist returns true if err is a persistence failure.
func IsPersist(err error) bool {
	return errors.Is(err, ErrPersist)
}

// IsParse returns true if err is a StoreParseError.
// Uses errors.As to handle wrapped errors.
func IsParse(err error) bool {
	var pe *StoreParseError
	return errors.As(err, &pe)
}

// IsScoring returns true if err is a ScoringError.
func IsScoring(err error) bool {
	var se *ScoringError
	return errors.As(err, &se)
}
