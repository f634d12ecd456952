// Package apperror defines the error taxonomy surfaced by the claim
// platform: validation, not-found, forbidden, conflict and storage failures.
// Services return these wrapped with context; handlers map them to HTTP.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed input with optional field-level detail.
// The operation aborts before any write.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidation builds a ValidationError without field detail.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewFieldValidation builds a ValidationError carrying per-field messages.
func NewFieldValidation(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// NotFoundError reports a missing entity, or one the caller may not see.
// Ownership mismatches surface as NotFoundError so that existence is not
// leaked across principals.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// NewNotFound builds a NotFoundError for the named entity.
func NewNotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// ForbiddenError reports a principal role/ownership mismatch, surfaced before
// touching data.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewForbidden builds a ForbiddenError.
func NewForbidden(format string, args ...interface{}) *ForbiddenError {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness collision (threshold name, claim number);
// the caller must retry with corrected input.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflict builds a ConflictError.
func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// StorageError reports a blob store failure. Writes during a submit abort the
// whole operation; delete failures on cleanup paths are logged and swallowed
// by callers.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// HTTPStatus maps an error (possibly wrapped) to its HTTP status code.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		forbidden  *ForbiddenError
		conflict   *ConflictError
		storage    *StorageError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &storage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// FieldsOf returns the field detail when err is (or wraps) a ValidationError.
func FieldsOf(err error) map[string]string {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Fields
	}
	return nil
}
