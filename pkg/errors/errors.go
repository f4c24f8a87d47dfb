package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur while fetching a page
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a failed page fetch with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport failure. Code is always 0.
func NewNetworkError(message string, err error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: message, Err: err}
}

// NewParsingError reports a body that is not JSON or does not have the expected shape
func NewParsingError(message string, code int, err error) *Error {
	return &Error{Type: ErrorTypeParsing, Message: message, Code: code, Err: err}
}

// FromStatusCode maps a non-2xx HTTP status to a typed error. It returns nil for 2xx and 3xx.
func FromStatusCode(statusCode int) *Error {
	switch {
	case statusCode < 400:
		return nil
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return &Error{Type: ErrorTypeAuth, Message: "authentication required", Code: statusCode}
	case statusCode == http.StatusNotFound:
		return &Error{Type: ErrorTypeNotFound, Message: "resource not found", Code: statusCode}
	case statusCode == http.StatusTooManyRequests:
		return &Error{Type: ErrorTypeRateLimit, Message: "rate limit exceeded", Code: statusCode}
	case statusCode >= 500:
		return &Error{Type: ErrorTypeServerError, Message: "server error", Code: statusCode}
	default:
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("unexpected status code: %d", statusCode), Code: statusCode}
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsNetwork reports whether err is a transport-level failure
func IsNetwork(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeNetwork
}

// IsParsing reports whether err is a malformed or unexpectedly shaped response
func IsParsing(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeParsing
}
