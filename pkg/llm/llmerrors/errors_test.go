package llmerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, ErrorTypeAuth, ClassifyStatus(http.StatusUnauthorized))
	assert.Equal(t, ErrorTypeAuth, ClassifyStatus(http.StatusForbidden))
	assert.Equal(t, ErrorTypeRateLimit, ClassifyStatus(http.StatusTooManyRequests))
	assert.Equal(t, ErrorTypeBadPrompt, ClassifyStatus(http.StatusBadRequest))
	assert.Equal(t, ErrorTypeBadPrompt, ClassifyStatus(http.StatusRequestEntityTooLarge))
	assert.Equal(t, ErrorTypeTransient, ClassifyStatus(http.StatusInternalServerError))
	assert.Equal(t, ErrorTypeTransient, ClassifyStatus(http.StatusBadGateway))
	assert.Equal(t, ErrorTypeUnknown, ClassifyStatus(http.StatusNotFound))
}

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrorTypeRateLimit, "quota exhausted")
	assert.Equal(t, "LLM error (rate_limit): quota exhausted", err.Error())

	err = NewErrorWithStatus(ErrorTypeAuth, 401, "bad key")
	assert.Equal(t, 401, err.StatusCode)
	assert.Contains(t, err.Error(), "auth")
}

func TestUnwrapAndTypeOf(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewErrorWithCause(ErrorTypeTransient, cause, "network error")

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, ErrorTypeTransient))
	assert.False(t, Is(err, ErrorTypeAuth))
	assert.Equal(t, ErrorTypeTransient, TypeOf(err))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("request failed: %w", err)
	assert.Equal(t, ErrorTypeTransient, TypeOf(wrapped))

	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
}

func TestSanitizePrompt(t *testing.T) {
	short := "small prompt"
	assert.Equal(t, short, SanitizePrompt(short, 100))

	long := strings.Repeat("x", 5000)
	sanitized := SanitizePrompt(long, 400)
	assert.Less(t, len(sanitized), len(long))
	assert.Contains(t, sanitized, "5000 chars")
	assert.Contains(t, sanitized, "hash:")
}
