// Package errors provides custom error types for the tutorchat backend client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrRequestFailed = errors.New("request failed")
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrClientClosed  = errors.New("client is closed")
)

// Cause identifies what made a request fail. It is recorded for diagnostics only;
// every cause is presented to the user the same way.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseNetwork
	CauseStatus
	CauseParse
)

// String returns the cause name
func (c Cause) String() string {
	switch c {
	case CauseNetwork:
		return "network"
	case CauseStatus:
		return "status"
	case CauseParse:
		return "parse"
	default:
		return "unknown"
	}
}

// RequestFailedError is the single failure kind of the chat endpoint.
type RequestFailedError struct {
	Cause      Cause
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
	Err        error
}

func (e *RequestFailedError) Error() string {
	var msg string
	switch {
	case e.StatusCode > 0:
		msg = fmt.Sprintf("request failed [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	case e.Endpoint != "":
		msg = fmt.Sprintf("request failed at %s: %s", e.Endpoint, e.Message)
	default:
		msg = fmt.Sprintf("request failed: %s", e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *RequestFailedError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	_, ok := target.(*RequestFailedError)
	return ok
}

// NewNetworkError creates a RequestFailedError for a transport failure
func NewNetworkError(endpoint string, err error) *RequestFailedError {
	return &RequestFailedError{
		Cause:    CauseNetwork,
		Endpoint: endpoint,
		Message:  "network error",
		Err:      err,
	}
}

// NewStatusError creates a RequestFailedError for a non-success HTTP status.
// The body is kept for logs and truncated to 4KB.
func NewStatusError(statusCode int, endpoint, body string) *RequestFailedError {
	if len(body) > 4096 {
		body = body[:4096]
	}
	return &RequestFailedError{
		Cause:      CauseStatus,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    fmt.Sprintf("HTTP error! status: %d", statusCode),
		Body:       body,
	}
}

// NewParseError creates a RequestFailedError for a malformed or incomplete body
func NewParseError(endpoint, message string) *RequestFailedError {
	return &RequestFailedError{
		Cause:    CauseParse,
		Endpoint: endpoint,
		Message:  message,
	}
}

// IsRequestFailed reports whether err is a chat request failure
func IsRequestFailed(err error) bool {
	return errors.Is(err, ErrRequestFailed)
}

// IsNetworkError reports whether the request never got a response
func IsNetworkError(err error) bool {
	return GetCause(err) == CauseNetwork
}

// GetCause extracts the failure cause from an error chain
func GetCause(err error) Cause {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Cause
	}
	return CauseUnknown
}

// GetHTTPStatus extracts the HTTP status code, or 0 if none
func GetHTTPStatus(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}
