package apierrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthErrorIsSessionExpired(t *testing.T) {
	err := NewAuthError(ErrRefreshRejected)

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, ErrRefreshRejected)
	assert.True(t, IsSessionExpired(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, "the session is expired, please log in again: the refresh token was rejected", err.Error())
}

func TestAuthErrorWithoutReason(t *testing.T) {
	var err error = &AuthError{}

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, ErrSessionExpired.Error(), err.Error())
}

func TestAPIErrorIsNotSessionExpired(t *testing.T) {
	err := &APIError{StatusCode: 422, Message: "validation failed", Fields: map[string]string{"title": "required", "deadline": "invalid"}}

	assert.False(t, IsSessionExpired(err))
	assert.Equal(t, "status 422: validation failed (deadline: invalid, title: required)", err.Error())
	var apiErr *APIError
	assert.True(t, errors.As(fmt.Errorf("call: %w", err), &apiErr))
	assert.Equal(t, 422, apiErr.StatusCode)
}
