package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewConflictError("email", nil), http.StatusBadRequest},
		{NewNoChangesError(), http.StatusBadRequest},
		{NewNotFoundError("missing", nil), http.StatusNotFound},
		{NewAuthError("nope", nil), http.StatusUnauthorized},
		{NewInternalError("boom", nil), http.StatusInternalServerError},
		{NewDatabaseError("db", nil), http.StatusInternalServerError},
		{NewConfigError("cfg", nil), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Name(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestConflictErrorNamesField(t *testing.T) {
	err := NewConflictError("username", nil)

	assert.Equal(t, "username", err.Field)
	assert.Equal(t, "username already exists", err.Message)
	resp := err.ToResponse(false)
	assert.Equal(t, "ConflictError", resp.Error.Name)
	assert.Equal(t, "username", resp.Error.Field)
}

func TestNoChangesName(t *testing.T) {
	assert.Equal(t, "NoChangesDetected", NewNoChangesError().Name())
}

func TestToResponse_HidesDetailByDefault(t *testing.T) {
	err := NewInternalError("failed to create user", errors.New("pq: connection refused"))

	hidden := err.ToResponse(false)
	assert.Empty(t, hidden.Error.Detail)
	assert.Equal(t, "failed to create user", hidden.Message)

	shown := err.ToResponse(true)
	assert.Equal(t, "pq: connection refused", shown.Error.Detail)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("lookup: %w", NewNotFoundError("user not found", nil))
	got := FromError(wrapped)
	assert.Equal(t, NotFoundError, got.Type)
	assert.True(t, IsNotFound(wrapped))

	plain := errors.New("raw")
	got = FromError(plain)
	assert.Equal(t, InternalError, got.Type)
	assert.ErrorIs(t, got, plain)
	assert.NotContains(t, got.Message, "raw")
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsConflictError(NewConflictError("email", nil)))
	assert.True(t, IsValidationError(NewValidationError("x", nil)))
	assert.True(t, IsAuthError(NewAuthError("x", nil)))
	assert.False(t, IsAuthError(errors.New("x")))
}
