package service

import (
	"errors"
	"net/http"
)

// Kind classifies service errors. The HTTP layer maps kinds to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindConflict
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error is returned by every service operation that fails. Message is safe
// to show to the user; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError reports missing or malformed input.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// AuthError reports a missing or invalid credential.
func AuthError(msg string, err error) *Error {
	return &Error{Kind: KindAuth, Message: msg, Err: err}
}

// ConflictError reports a uniqueness violation.
func ConflictError(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

// InternalError reports an unexpected fault, usually from storage.
func InternalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// ErrDuplicateItem is wrapped by the ConflictError returned when an item name
// is already taken.
var ErrDuplicateItem = errors.New("duplicate item")

// KindOf returns the kind of err, or KindInternal for errors that did not
// come from this package.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
