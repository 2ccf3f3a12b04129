package conform

import (
	"errors"
	"fmt"
)

// ErrEmptyFormat is returned when the expected format has no fields.
var ErrEmptyFormat = errors.New("expected format is empty")

// ErrNoChoices is returned when the completion provider answers with no
// candidate completions.
var ErrNoChoices = errors.New("no choices in completion response")

// ParseError reports that the normalized model output was not well-formed
// JSON. It is caught by the retry loop, never surfaced to the caller.
type ParseError struct {
	Raw string // normalized text that failed to decode
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse output: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports a list/scalar mismatch between the caller's input and
// the model's output: list input must yield a top-level array, scalar input
// must not.
type ShapeError struct {
	Raw      string
	WantList bool
}

func (e *ShapeError) Error() string {
	if e.WantList {
		return "output is not an array for list input"
	}
	return "output is an array for scalar input"
}

// MissingFieldError reports a declared non-placeholder key absent from an
// output item.
type MissingFieldError struct {
	Key string
	Raw string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("output item is missing field %q", e.Key)
}

// isFormatFailure reports whether err is one of the validation failures the
// retry loop converts into feedback for the next attempt. Anything else
// (transport, auth, quota) terminates the invocation.
func isFormatFailure(err error) bool {
	var pe *ParseError
	var se *ShapeError
	var me *MissingFieldError
	return errors.As(err, &pe) || errors.As(err, &se) || errors.As(err, &me)
}
