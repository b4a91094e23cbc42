package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundMessages(t *testing.T) {
	err := NotFound("Hotel", "abc-123")
	assert.Equal(t, "Hotel with identifier 'abc-123' not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, CodeNotFound, err.Code)

	bare := NotFound("Booking", "")
	assert.Equal(t, "Booking not found", bare.Message)
}

func TestAs(t *testing.T) {
	appErr, ok := As(Conflict("Only 2 seats available in ECONOMY"))
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Status)

	wrapped := fmt.Errorf("handler: %w", BadRequest("bad dates"))
	appErr, ok = As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeBadRequest, appErr.Code)

	_, ok = As(fmt.Errorf("plain failure"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(Unauthorized(""), CodeUnauthorized))
	assert.False(t, IsCode(Internal(""), CodeConflict))
	assert.False(t, IsCode(fmt.Errorf("plain"), CodeInternal))
}
