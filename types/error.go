package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unified error code across the service.
type ErrorCode string

// Request / provider error codes
const (
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrRateLimited          ErrorCode = "RATE_LIMITED"
	ErrProviderNotFound     ErrorCode = "PROVIDER_NOT_FOUND"
	ErrModelNotFound        ErrorCode = "MODEL_NOT_FOUND"
	ErrProviderUnconfigured ErrorCode = "PROVIDER_UNCONFIGURED"
	ErrTransport            ErrorCode = "TRANSPORT_ERROR"
	ErrUpstreamError        ErrorCode = "UPSTREAM_ERROR"
	ErrInternalError        ErrorCode = "INTERNAL_ERROR"
)

// Community workflow proxy error codes
const (
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	ErrDownloadFailed   ErrorCode = "DOWNLOAD_FAILED"
	ErrTimeout          ErrorCode = "TIMEOUT"
	ErrCanceled         ErrorCode = "REQUEST_CANCELED"
)

// StatusClientClosedRequest is the non-standard status used when the caller
// went away before the upstream work finished.
const StatusClientClosedRequest = 499

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// StatusFor returns the HTTP status that best represents code.
func StatusFor(code ErrorCode) int {
	switch code {
	case ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrNotFound, ErrProviderNotFound, ErrModelNotFound:
		return http.StatusNotFound
	case ErrProviderUnconfigured:
		return http.StatusPreconditionFailed
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrTimeout:
		return http.StatusGatewayTimeout
	case ErrCanceled:
		return StatusClientClosedRequest
	case ErrTransport, ErrUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
