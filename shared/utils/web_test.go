package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/eduportal/portal/shared/errors"
)

func TestStatusCodeAndMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation",
			err:     &internal_errors.ValidationError{Field: "id", Message: "must not be empty"},
			status:  http.StatusBadRequest,
			message: "id: must not be empty",
		},
		{
			name:    "transport wrapped",
			err:     fmt.Errorf("loading dashboard: %w", &internal_errors.TransportError{Message: internal_errors.NetworkUnreachableMessage, Err: errors.New("refused")}),
			status:  http.StatusBadGateway,
			message: internal_errors.NetworkUnreachableMessage,
		},
		{
			name:    "backend message",
			err:     &internal_errors.StatusError{StatusCode: http.StatusBadRequest, Body: []byte(`{"error":{"status":400,"message":"Invalid identifier or password"}}`)},
			status:  http.StatusBadRequest,
			message: "Invalid identifier or password",
		},
		{
			name:    "unauthorized",
			err:     &internal_errors.StatusError{StatusCode: http.StatusUnauthorized},
			status:  http.StatusUnauthorized,
			message: "Your session has expired, please log in again",
		},
		{
			name:    "server error",
			err:     &internal_errors.StatusError{StatusCode: http.StatusServiceUnavailable, Body: []byte("<html>")},
			status:  http.StatusBadGateway,
			message: "The server could not complete the request (status 503)",
		},
		{
			name:    "explicit status",
			err:     &internal_errors.ErrorWithStatusCode{Message: "too many", StatusCode: http.StatusTooManyRequests},
			status:  http.StatusTooManyRequests,
			message: "too many",
		},
		{
			name:    "unknown",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "Something went wrong, please try again",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusCode(tt.err))
			assert.Equal(t, tt.message, UserMessage(tt.err))
		})
	}
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorAndStatusCode(rec, &internal_errors.StatusError{StatusCode: http.StatusNotFound})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/student/login", nil)
	req.RemoteAddr = "203.0.113.50:12345"
	req.Header.Set("X-Forwarded-For", "10.0.0.2")
	ip, err := GetIP(req)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.50", ip)

	req.RemoteAddr = "[2001:db8::1]:8080"
	ip, err = GetIP(req)
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", ip)

	req.RemoteAddr = "not-an-ip"
	_, err = GetIP(req)
	var withStatus *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &withStatus)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}
