// Package errors provides the structured error type surfaced to API callers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"activity-signup/internal/roster"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeActivityNotFound ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadySignedUp  ErrorCode = "ALREADY_SIGNED_UP"
	ErrCodeNotRegistered    ErrorCode = "NOT_REGISTERED"
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
	ErrCodeEventStoreFailed ErrorCode = "EVENT_STORE_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
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

// NewActivityNotFoundError is returned for lookups of an unknown activity.
func NewActivityNotFoundError(activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   fmt.Sprintf("%s not found", activity),
		Details:   fmt.Sprintf("activity: %s", activity),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySignedUpError is the duplicate-signup rejection.
func NewAlreadySignedUpError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySignedUp,
		Message:   "Student is already signed up for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activity, email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotRegisteredError is the rejection for unregistering an absent participant.
func NewNotRegisteredError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotRegistered,
		Message:   "Student is not registered for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activity, email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMissingParameterError(param string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingParameter,
		Message:   fmt.Sprintf("%s query parameter is required", param),
		Details:   fmt.Sprintf("parameter: %s", param),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidParameterError(param, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidParameter,
		Message:   fmt.Sprintf("%s query parameter is invalid", param),
		Details:   fmt.Sprintf("parameter: %s, value: %q", param, value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEventStoreFailedError wraps a failure reading from an event sink.
func NewEventStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventStoreFailed,
		Message:   "Event store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// FromRosterError maps roster sentinel errors to a StandardError. Anything else becomes
// INTERNAL_ERROR.
func FromRosterError(err error, activity, email string) *StandardError {
	var stdErr *StandardError
	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, roster.ErrActivityNotFound):
		return NewActivityNotFoundError(activity)
	case stderrors.Is(err, roster.ErrAlreadySignedUp):
		return NewAlreadySignedUpError(activity, email)
	case stderrors.Is(err, roster.ErrNotRegistered):
		return NewNotRegisteredError(activity, email)
	default:
		return &StandardError{
			Code:      ErrCodeInternal,
			Message:   "Unexpected error",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeActivityNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadySignedUp, ErrCodeNotRegistered:
		return http.StatusBadRequest
	case ErrCodeMissingParameter, ErrCodeInvalidParameter:
		return http.StatusUnprocessableEntity
	case ErrCodeEventStoreFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeActivityNotFound, ErrCodeAlreadySignedUp, ErrCodeNotRegistered:
		return "ROSTER"
	case ErrCodeMissingParameter, ErrCodeInvalidParameter:
		return "VALIDATION"
	case ErrCodeEventStoreFailed:
		return "EVENTS"
	default:
		return "OTHER"
	}
}
