// Package errors provides the standardized error taxonomy of the assistant.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Start-up / configuration
	ErrCodeConfigLoadFailure ErrorCode = "CONFIG_LOAD_FAILURE"
	ErrCodeIntentFileInvalid ErrorCode = "INTENT_FILE_INVALID"

	// Remote completion provider
	ErrCodeRemoteTransportFailure   ErrorCode = "REMOTE_TRANSPORT_FAILURE"
	ErrCodeRemoteTimeout            ErrorCode = "REMOTE_TIMEOUT"
	ErrCodeRemoteMalformedResponse  ErrorCode = "REMOTE_MALFORMED_RESPONSE"
	ErrCodeRemoteNotConfigured      ErrorCode = "REMOTE_NOT_CONFIGURED"
	ErrCodeRemoteUnexpectedResponse ErrorCode = "REMOTE_UNEXPECTED_STATUS"

	// Per-request
	ErrCodeMalformedIntentEntry ErrorCode = "MALFORMED_INTENT_ENTRY"
	ErrCodeIntentNotFound       ErrorCode = "INTENT_NOT_FOUND"
	ErrCodeInvalidQuestion      ErrorCode = "INVALID_QUESTION"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a diagnostic key/value and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	stdErr := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		stdErr.Details = cause.Error()
	}
	return stdErr
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigLoadFailureError reports an unreadable intent or settings file.
func NewConfigLoadFailureError(path string, err error) *StandardError {
	return newError(ErrCodeConfigLoadFailure, "Configuration could not be loaded", err, false).
		WithMetadata("path", path)
}

// NewIntentFileInvalidError reports an intent file that fails schema validation.
func NewIntentFileInvalidError(path string, problems []string) *StandardError {
	stdErr := newError(ErrCodeIntentFileInvalid, "Intent file failed validation", nil, false).
		WithMetadata("path", path)
	stdErr.Details = strings.Join(problems, "; ")
	return stdErr
}

// NewRemoteTransportFailureError wraps a network-level failure talking to the provider.
func NewRemoteTransportFailureError(err error) *StandardError {
	return newError(ErrCodeRemoteTransportFailure, "Remote completion request failed", err, true)
}

// NewRemoteTimeoutError reports the outbound call exceeding its deadline.
func NewRemoteTimeoutError(timeout time.Duration) *StandardError {
	stdErr := newError(ErrCodeRemoteTimeout, "Remote completion request timed out", nil, true)
	stdErr.Details = fmt.Sprintf("call exceeded %s", timeout)
	return stdErr
}

// NewRemoteUnexpectedStatusError reports a non-200 provider answer.
func NewRemoteUnexpectedStatusError(status int, body string) *StandardError {
	stdErr := newError(ErrCodeRemoteUnexpectedResponse, "Remote completion returned an error status", nil, status >= 500)
	stdErr.Details = fmt.Sprintf("status %d: %s", status, body)
	return stdErr.WithMetadata("status", status)
}

// NewRemoteMalformedResponseError reports a 200 body without usable candidate text.
func NewRemoteMalformedResponseError(details string) *StandardError {
	stdErr := newError(ErrCodeRemoteMalformedResponse, "Remote completion response was malformed", nil, false)
	stdErr.Details = details
	return stdErr
}

// NewRemoteNotConfiguredError is returned when no API key is available.
func NewRemoteNotConfiguredError() *StandardError {
	return newError(ErrCodeRemoteNotConfigured, "Remote completion provider is not configured", nil, false)
}

// NewMalformedIntentEntryError reports an intent without an answer.
func NewMalformedIntentEntryError(intent string) *StandardError {
	stdErr := newError(ErrCodeMalformedIntentEntry, "Intent entry is malformed", nil, false)
	stdErr.Details = fmt.Sprintf("intent: %s", intent)
	return stdErr.WithMetadata("intent", intent)
}

// NewIntentNotFoundError is the user-facing lookup miss.
func NewIntentNotFoundError(intent string) *StandardError {
	stdErr := newError(ErrCodeIntentNotFound, "Intent not found", nil, false)
	stdErr.Details = fmt.Sprintf("intent: %s", intent)
	return stdErr.WithMetadata("intent", intent)
}

// NewInvalidQuestionError reports a query parameter outside the accepted bounds.
func NewInvalidQuestionError(details string) *StandardError {
	stdErr := newError(ErrCodeInvalidQuestion, "Invalid question parameter", nil, false)
	stdErr.Details = details
	return stdErr
}

// NewInternalError wraps anything that escaped the taxonomy.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError, wrapping unknown errors as internal.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// HTTPStatus maps an error code to the status used by the inbound API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeIntentNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidQuestion:
		return http.StatusUnprocessableEntity
	case ErrCodeRemoteNotConfigured:
		return http.StatusServiceUnavailable
	case ErrCodeRemoteTransportFailure, ErrCodeRemoteUnexpectedResponse, ErrCodeRemoteMalformedResponse:
		return http.StatusBadGateway
	case ErrCodeRemoteTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CONFIG") || strings.HasPrefix(codeStr, "INTENT_FILE"):
		return "CONFIGURATION"
	case strings.HasPrefix(codeStr, "REMOTE"):
		return "REMOTE"
	case strings.Contains(codeStr, "INTENT"):
		return "INTENT"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
