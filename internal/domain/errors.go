package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer maps each kind to a status code.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("not logged in")
	ErrForbidden        = errors.New("forbidden")
	ErrAccountDisabled  = errors.New("inexistent or disabled account")
	ErrWrongPassword    = errors.New("wrong password")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrRateLimited      = errors.New("too many requests")
	ErrLLMNotConfigured = errors.New("language model is not configured")
	ErrLLMUpstream      = errors.New("language model request failed")
)

// Error is a kind plus the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Message returns the client-facing text for err: the message of the
// outermost *Error, or the kind's own text for a bare kind. Anything else
// is an internal failure and yields fallback.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	for _, kind := range []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden,
		ErrAccountDisabled, ErrWrongPassword, ErrDuplicateEmail,
		ErrRateLimited, ErrLLMNotConfigured, ErrLLMUpstream,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return fallback
}
