package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped) when an identifier does not resolve to a record.
var ErrNotFound = errors.New("not found")

// ErrInvalid is matched by every ValidationError via errors.Is.
var ErrInvalid = errors.New("invalid input")

// ValidationError reports a rejected field. Message is safe to show to API clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound wraps ErrNotFound with a client-facing message, e.g. "Segment not found.".
func NotFound(message string) error {
	return &notFoundError{msg: message}
}

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

// Message returns the client-facing part of a domain error, or "" for anything else.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var nf *notFoundError
	if errors.As(err, &nf) {
		return nf.msg
	}
	if errors.Is(err, ErrNotFound) {
		return "Not found."
	}
	return ""
}
