package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError. The transport layer maps it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindUnsupportedState
)

// AppError is a custom error type carrying an error kind and a user-facing message.
type AppError struct {
	Kind    Kind   // Error category (not found, bad request, ...)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error kind.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest, KindUnsupportedState:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

func NotFound(message string) *AppError         { return New(KindNotFound, message) }
func BadRequest(message string) *AppError       { return New(KindBadRequest, message) }
func Conflict(message string) *AppError         { return New(KindConflict, message) }
func UnsupportedState(message string) *AppError { return New(KindUnsupportedState, message) }

// KindOf reports the kind of the first AppError in err's chain.
// Errors that carry no AppError are KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
