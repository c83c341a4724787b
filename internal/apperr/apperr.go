// Package apperr defines the error taxonomy surfaced by the API.
//
// Cross-tenant access is deliberately reported as not-found rather than
// forbidden so record existence never leaks across tenants.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid input")
	ErrConflict        = errors.New("already exists")
)

// Wrap annotates a sentinel with a human-readable message while keeping it
// matchable with errors.Is.
func Wrap(sentinel error, msg string) error {
	return fmt.Errorf("%s: %w", msg, sentinel)
}

func Wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, sentinel)...)
}

// Status maps an error to its HTTP status code. Unknown errors are internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
