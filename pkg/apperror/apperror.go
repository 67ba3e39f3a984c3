// Package apperror defines the error kinds shared by the services and their
// mapping to HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// NotFound wraps ErrNotFound with the name of the missing resource.
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// RequireID returns NotFound(resource) unless id is a uuid. Malformed ids
// never match a row.
func RequireID(id, resource string) error {
	if _, err := uuid.Parse(id); err != nil {
		return NotFound(resource)
	}
	return nil
}

// Validation wraps ErrValidation with a human readable reason.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// FromGorm translates gorm.ErrRecordNotFound into ErrNotFound for resource
// and passes every other error through.
func FromGorm(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(resource)
	}
	return err
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show to clients. Internal errors are
// replaced by fallback.
func Message(err error, fallback string) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return fallback
	}
	return err.Error()
}
