// Package apperr defines the error kinds shared by every feature.
// Feature packages wrap these kinds in their own sentinels and callers
// classify with errors.Is.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks malformed or duplicate applicant input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConstraint marks a storage-level uniqueness or foreign-key failure.
	ErrConstraint = errors.New("constraint violation")

	// ErrEmptyInput marks an operation rejected because there is nothing to process.
	ErrEmptyInput = errors.New("empty input")

	// ErrConflict marks an operation that is already running for the same target.
	ErrConflict = errors.New("conflict")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level failures for one submission.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// HTTPStatus maps an error to the status code the transport layer responds with.
// Constraint violations are internal failures, not caller mistakes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns a short machine-readable name for the error's kind.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConstraint):
		return "constraint"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
