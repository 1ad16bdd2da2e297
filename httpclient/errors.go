package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeIO indicates a transport failure (connect, write, read).
	ErrCodeIO ErrorCode = iota
	// ErrCodeEncode indicates the request transformer could not encode the body.
	ErrCodeEncode
	// ErrCodeDecode indicates the response transformer could not decode the body.
	ErrCodeDecode
	// ErrCodeConfig indicates an unusable configuration (bad URL, bad method).
	ErrCodeConfig
	// ErrCodePoolClosed indicates an async submission after the pool was closed.
	ErrCodePoolClosed
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeIO:
		return "io"
	case ErrCodeEncode:
		return "encode"
	case ErrCodeDecode:
		return "decode"
	case ErrCodeConfig:
		return "config"
	case ErrCodePoolClosed:
		return "pool_closed"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code when one was received (0 otherwise).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewIOError creates a transport error.
func NewIOError(op string, err error) *Error {
	return &Error{
		Code:    ErrCodeIO,
		Message: op + ": " + err.Error(),
		Err:     err,
	}
}

// NewEncodeError creates a request encoding error.
func NewEncodeError(err error) *Error {
	return &Error{
		Code:    ErrCodeEncode,
		Message: err.Error(),
		Err:     err,
	}
}

// NewDecodeError creates a response decoding error.
func NewDecodeError(statusCode int, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeDecode,
		Message:    err.Error(),
		Err:        err,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(msg string) *Error {
	return &Error{
		Code:    ErrCodeConfig,
		Message: msg,
	}
}

// ErrPoolClosed is returned when work is submitted to a closed async client.
var ErrPoolClosed = &Error{Code: ErrCodePoolClosed, Message: "worker pool closed"}

// IsIO checks if an error belongs to the I/O class: transport, encode or decode.
func IsIO(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == ErrCodeIO || e.Code == ErrCodeEncode || e.Code == ErrCodeDecode
}

// IsEncode checks if an error is a request encoding error.
func IsEncode(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeEncode
}

// IsDecode checks if an error is a response decoding error.
func IsDecode(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDecode
}

// IsConfig checks if an error is a configuration error.
func IsConfig(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConfig
}

// IsPoolClosed checks if an error reports a closed worker pool.
func IsPoolClosed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodePoolClosed
}

// StatusError reports a response whose status code was classified as an
// error. Response.Body holds the error stream as a string.
type StatusError struct {
	Response *Response
}

// Error returns the status message.
func (e *StatusError) Error() string {
	if e.Response == nil {
		return "httpclient: status error"
	}
	if e.Response.Status != "" {
		return e.Response.Status
	}
	if msg := http.StatusText(e.Response.StatusCode); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP %d", e.Response.StatusCode)
}

// StatusCode returns the response status code.
func (e *StatusError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Body returns the error stream text.
func (e *StatusError) Body() string {
	if e.Response == nil {
		return ""
	}
	s, _ := e.Response.Body.(string)
	return s
}

// Retryable reports whether the status usually indicates a transient failure.
// The pipeline never retries on its own.
func (e *StatusError) Retryable() bool {
	code := e.StatusCode()
	return code == http.StatusTooManyRequests || code >= 500
}

// AsStatusError extracts a *StatusError from err.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsNotFound checks if an error is a 404 status error.
func IsNotFound(err error) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode() == http.StatusNotFound
}

// IsAuth checks if an error is a 401 or 403 status error.
func IsAuth(err error) bool {
	se, ok := AsStatusError(err)
	return ok && (se.StatusCode() == http.StatusUnauthorized || se.StatusCode() == http.StatusForbidden)
}

// IsServerError checks if an error is a 5xx status error.
func IsServerError(err error) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode() >= 500
}
