package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewConflict("email already registered", map[string]any{"email": "a@b.c"}))

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeConflict, de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "a@b.c", de.Details["email"])
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	cause := errors.New("connection reset by peer")

	de := ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestToDomainError_FiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fiber.ErrBadRequest)
	assert.Equal(t, CodeValidation, de.Code)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, CodeUnauthorized, CodeOf(NewUnauthorized("invalid credentials")))
	assert.Equal(t, CodeNotFound, CodeOf(NewNotFound("employee", nil)))
	assert.Equal(t, CodeTooManyRequests, CodeOf(NewTooManyRequests("slow down")))
	assert.Equal(t, CodeValidation, CodeOf(NewValidationError("invalid payload", nil)))
}

func TestDomainError_ErrorIncludesCause(t *testing.T) {
	err := NewInternalError(errors.New("boom"))
	assert.Equal(t, "internal server error: boom", err.Error())
	assert.Equal(t, "employee not found", NewNotFound("employee", nil).Error())
}
