package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetTypeAndCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		typ  ErrorType
		code int
	}{
		{NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{NewConflictError("stale"), ErrorTypeConflict, http.StatusConflict},
		{NewDuplicateError("exists"), ErrorTypeConflict, http.StatusBadRequest},
		{NewUnauthorizedError("who"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{NewForbiddenError("no"), ErrorTypeForbidden, http.StatusForbidden},
		{NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.typ, tt.err.Type)
		assert.Equal(t, tt.code, tt.err.Code)
	}
}

func TestDetailsAndWrapping(t *testing.T) {
	err := NewValidationError("Validation failed", "amount is required")
	assert.Equal(t, "validation_error: Validation failed (amount is required)", err.Error())

	wrapped := fmt.Errorf("record payment: %w", NewNotFoundError("Mapping not found"))
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.Nil(t, GetAppError(errors.New("plain")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("Error 1062: Duplicate entry 'x' for key 'uk'")))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: assignments.customer_id")))
	assert.False(t, IsDuplicateError(errors.New("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}
