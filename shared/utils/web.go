package utils

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/tidwall/gjson"

	internal_errors "github.com/eduportal/portal/shared/errors"
	"github.com/eduportal/portal/shared/logger"
)

// StatusCode maps an error from the client layer to the status the portal
// answers with. Unknown errors are 500.
func StatusCode(err error) int {
	var (
		withStatus *internal_errors.ErrorWithStatusCode
		validation *internal_errors.ValidationError
		status     *internal_errors.StatusError
		transport  *internal_errors.TransportError
	)
	switch {
	case errors.As(err, &withStatus):
		return withStatus.StatusCode
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &status):
		if status.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway
		}
		return status.StatusCode
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage is the text shown on a page when a backend call failed. The
// backend's own error message is preferred when it sent one.
func UserMessage(err error) string {
	var (
		withStatus *internal_errors.ErrorWithStatusCode
		validation *internal_errors.ValidationError
		status     *internal_errors.StatusError
		transport  *internal_errors.TransportError
	)
	switch {
	case errors.As(err, &withStatus):
		return withStatus.Message
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &transport):
		return transport.Message
	case errors.As(err, &status):
		if msg := gjson.GetBytes(status.Body, "error.message").String(); msg != "" {
			return msg
		}
		if status.IsUnauthorized() {
			return "Your session has expired, please log in again"
		}
		if status.IsNotFound() {
			return "The requested record was not found"
		}
		return fmt.Sprintf("The server could not complete the request (status %d)", status.StatusCode)
	default:
		return "Something went wrong, please try again"
	}
}

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	http.Error(w, UserMessage(err), StatusCode(err))
}

// GetIP returns the client IP from RemoteAddr. Proxy headers are not
// trusted since they can be spoofed.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		logger.Log.Warn("invalid client address", "remote_addr", r.RemoteAddr)
		return "", &internal_errors.ErrorWithStatusCode{Message: "Could not determine client address", StatusCode: http.StatusBadRequest}
	}
	return ip, nil
}
