// Package errors defines the sentinel errors shared across the service and a
// wrapper type that carries an HTTP status code to the boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrCorpusLoad   = errors.New("corpus load failed")
	ErrInvalidInput = errors.New("invalid input")
	ErrTimeout      = errors.New("operation timed out")
)

// AppError pairs a sentinel error with a human-readable message and the HTTP
// status the boundary should respond with.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel error with a status code and message.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps err to the HTTP status the handler should return.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrCorpusLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
