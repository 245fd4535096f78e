package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: provider not found", NewNotFoundError("provider not found").Error())

	wrapped := NewInternalError("query failed", errors.New("connection reset"))
	assert.Equal(t, "INTERNAL: query failed: connection reset", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewUnavailableError("cache down", cause)
	assert.ErrorIs(t, err, cause)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, TypeOf(NewValidationError("bad stars")))
	assert.Equal(t, ErrorTypeUnauthorized, TypeOf(fmt.Errorf("wrapped: %w", NewUnauthorizedError("nope"))))
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("plain")))
}
