package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("edit post: %w", ErrPostNotFound)

	assert.ErrorIs(t, wrapped, ErrPostNotFound)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsAlreadyExists(wrapped))
	assert.NotErrorIs(t, wrapped, ErrTagExists)
}

func TestWrap_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeConnection, "load posts")

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsStorage(err))
	assert.Equal(t, CodeConnection, CodeOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	detailed := ErrTagExists.WithDetails("golang")

	assert.Equal(t, "golang", detailed.Details)
	assert.Empty(t, ErrTagExists.Details)
	assert.ErrorIs(t, detailed, ErrTagExists)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), ""},
		{"invalid", Invalid("rating out of range"), CodeInvalidInput},
		{"forbidden", fmt.Errorf("delete: %w", ErrForbidden), CodeForbidden},
		{"credentials", ErrInvalidCredentials, CodeUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}
