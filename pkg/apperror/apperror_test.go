package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("bad input"), http.StatusUnprocessableEntity},
		{"not found", NewNotFound("claim"), http.StatusNotFound},
		{"forbidden", NewForbidden("no"), http.StatusForbidden},
		{"conflict", NewConflict("dup"), http.StatusConflict},
		{"storage", &StorageError{Op: "write", Key: "k", Err: errors.New("disk")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("fetch claim: %w", NewNotFound("claim"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestFieldsOf(t *testing.T) {
	err := NewFieldValidation("invalid", map[string]string{"bcm": "must be positive"})
	assert.Equal(t, map[string]string{"bcm": "must be positive"}, FieldsOf(err))

	wrapped := fmt.Errorf("submit: %w", err)
	assert.Equal(t, map[string]string{"bcm": "must be positive"}, FieldsOf(wrapped))

	assert.Nil(t, FieldsOf(errors.New("plain")))
	assert.Nil(t, FieldsOf(NewValidation("no fields")))
}

func TestStorageErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &StorageError{Op: "write", Key: "claims/x.pdf", Err: inner}
	assert.ErrorIs(t, err, inner)
}
