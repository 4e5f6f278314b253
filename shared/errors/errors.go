package errors

import (
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// NetworkUnreachableMessage is attached to every failure where the backend never answered.
const NetworkUnreachableMessage = "network unreachable: backend did not respond, check the connection or server status"

// ValidationError is returned before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError means no response was received (refused connection, DNS, timeout).
type TransportError struct {
	Method  string
	URL     string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (%s %s): %v", e.Message, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a backend response with an error status. Body holds the raw payload.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%s %s: backend returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: backend returned status %d: %s", e.Method, e.Path, e.StatusCode, truncate(e.Body, 256))
}

func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "...(truncated)"
}
