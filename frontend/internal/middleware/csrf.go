package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"

	"github.com/eduportal/portal/shared/logger"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenBytes = 32

	maxMultipartMemory = 32 << 20
)

type csrfContextKey struct{}

// CSRF issues a per-browser token cookie and checks it on unsafe methods
// (double-submit: the form or header must echo the cookie).
type CSRF struct {
	SecureCookies bool
}

// Issue makes sure the browser has a token and puts it in the request
// context for templates.
func (c CSRF) Issue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(csrfCookieName); err == nil {
			token = cookie.Value
		}
		if token == "" {
			var err error
			token, err = newCSRFToken()
			if err != nil {
				logger.Log.Error("failed to generate CSRF token", "error", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   c.SecureCookies,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   86400,
			})
		}
		ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Verify rejects POST, PUT, PATCH and DELETE requests whose token does not
// match the cookie.
func (c CSRF) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			logger.Log.Warn("CSRF token cookie missing", "path", r.URL.Path)
			http.Error(w, "CSRF token missing", http.StatusForbidden)
			return
		}

		sent := r.Header.Get(csrfHeader)
		if sent == "" {
			if err := parseForm(r); err != nil {
				logger.Log.Error("failed to parse form", "error", err)
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}
			sent = r.FormValue(csrfFormField)
		}

		if !tokensMatch(cookie.Value, sent) {
			logger.Log.Warn("CSRF token validation failed", "path", r.URL.Path)
			http.Error(w, "CSRF token invalid", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CSRFToken returns the token Issue stored for this request.
func CSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfContextKey{}).(string)
	return token
}

func newCSRFToken() (string, error) {
	key := securecookie.GenerateRandomKey(csrfTokenBytes)
	if key == nil {
		return "", errors.New("random source unavailable")
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

func tokensMatch(cookieToken, sent string) bool {
	if cookieToken == "" || sent == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(sent)) == 1
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMultipartMemory)
	}
	return r.ParseForm()
}
