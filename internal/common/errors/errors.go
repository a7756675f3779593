// Package errors provides standardized error handling for the notification
// pipeline. Every public operation returns a *StandardError on failure so
// callers always receive a machine-readable code, a retryability hint, and an
// HTTP status mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput            ErrorCode = "INVALID_INPUT"
	ErrCodeTemplateNotFound        ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodePayloadValidationFailed ErrorCode = "PAYLOAD_VALIDATION_FAILED"
	ErrCodeRecipientNotFound       ErrorCode = "RECIPIENT_NOT_FOUND"
	ErrCodeEmailSendFailed         ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodePushSendFailed          ErrorCode = "PUSH_SEND_FAILED"
	ErrCodeSchedulePersistFailed   ErrorCode = "SCHEDULE_PERSIST_FAILED"
	ErrCodeQueryFailed             ErrorCode = "QUERY_FAILED"
	ErrCodeEventParseFailed        ErrorCode = "EVENT_PARSE_FAILED"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the status the API layer reports.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodePayloadValidationFailed, ErrCodeTemplateNotFound, ErrCodeEventParseFailed:
		return http.StatusBadRequest
	case ErrCodeRecipientNotFound:
		return http.StatusNotFound
	case ErrCodeEmailSendFailed, ErrCodePushSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsStandard normalizes any error to a StandardError.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable caller input error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError creates a non-retryable error for an unrecognized
// notification type. Unknown types fail loudly; nothing falls back to a
// generic template.
func NewTemplateNotFoundError(notificationType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "No template registered for notification type",
		Details:   notificationType,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadValidationError creates a non-retryable error for a payload
// missing fields its template requires.
func NewPayloadValidationError(notificationType, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadValidationFailed,
		Message:   "Notification payload failed validation",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"notificationType": notificationType},
		Timestamp: time.Now().UTC(),
	}
}

// NewRecipientNotFoundError creates a non-retryable recipient lookup error.
func NewRecipientNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecipientNotFound,
		Message:   "Recipient could not be resolved",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendError creates a retryable provider error. The source record is
// left unprocessed so re-invocation can retry.
func NewEmailSendError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Email provider rejected the send",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPushSendError creates a retryable push provider error.
func NewPushSendError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePushSendFailed,
		Message:   "Push provider rejected the send",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchedulePersistError creates a retryable persistence error from the
// scheduling helper.
func NewSchedulePersistError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchedulePersistFailed,
		Message:   "Failed to persist scheduled notification",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryError creates a retryable database error.
func NewQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryFailed,
		Message:   "Database query failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEventParseError creates a non-retryable error for a malformed producer
// event.
func NewEventParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventParseFailed,
		Message:   "Producer event failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
