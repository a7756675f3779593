package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *StandardError
		want int
	}{
		{NewInvalidInputError("bad"), http.StatusBadRequest},
		{NewTemplateNotFoundError("made_up"), http.StatusBadRequest},
		{NewPayloadValidationError("welcome", "missing"), http.StatusBadRequest},
		{NewEventParseError("bad event"), http.StatusBadRequest},
		{NewRecipientNotFoundError("gone"), http.StatusNotFound},
		{NewEmailSendError("throttled"), http.StatusBadGateway},
		{NewPushSendError("throttled"), http.StatusBadGateway},
		{NewSchedulePersistError("disk full"), http.StatusInternalServerError},
		{NewQueryError("refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), "code %s", tt.err.Code)
	}
}

func TestRetryability(t *testing.T) {
	assert.False(t, NewInvalidInputError("bad").Retryable)
	assert.False(t, NewTemplateNotFoundError("made_up").Retryable)
	assert.True(t, NewEmailSendError("throttled").Retryable)
	assert.True(t, NewQueryError("refused").Retryable)
	assert.True(t, NewSchedulePersistError("disk full").Retryable)
}

func TestAsStandard(t *testing.T) {
	std := NewQueryError("refused")

	// Already standard, even when wrapped.
	assert.Equal(t, std, AsStandard(std))
	assert.Equal(t, std, AsStandard(fmt.Errorf("tick: %w", std)))

	// Arbitrary errors normalize to INTERNAL_ERROR.
	plain := AsStandard(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestErrorString(t *testing.T) {
	err := NewTemplateNotFoundError("made_up")
	assert.Contains(t, err.Error(), "TEMPLATE_NOT_FOUND")
}
