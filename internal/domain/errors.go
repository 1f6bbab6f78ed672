package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError names the offending field so callers can point the user at it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors flattens err (possibly joined or wrapped) into its field errors.
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError

	var walk func(error)
	walk = func(e error) {
		switch x := e.(type) {
		case *ValidationError:
			out = append(out, x)
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)

	return out
}
