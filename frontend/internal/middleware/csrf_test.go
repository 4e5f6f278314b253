package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduportal/portal/shared/logger"
)

func TestCSRFIssue(t *testing.T) {
	logger.Discard()
	var seen string
	h := CSRF{}.Issue(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CSRFToken(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)

	// an existing cookie is reused
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "kept"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "kept", seen)
	assert.Empty(t, rec.Result().Cookies())
}

func TestCSRFVerify(t *testing.T) {
	logger.Discard()
	const token = "test-token-123"
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := CSRF{}.Verify(ok)

	tests := []struct {
		name   string
		method string
		cookie string
		form   string
		header string
		want   int
	}{
		{name: "get passes", method: http.MethodGet, want: http.StatusOK},
		{name: "matching form token", method: http.MethodPost, cookie: token, form: token, want: http.StatusOK},
		{name: "matching header token", method: http.MethodPost, cookie: token, header: token, want: http.StatusOK},
		{name: "mismatch", method: http.MethodPost, cookie: token, form: "other", want: http.StatusForbidden},
		{name: "missing cookie", method: http.MethodPost, form: token, want: http.StatusForbidden},
		{name: "missing form", method: http.MethodPost, cookie: token, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.form != "" {
				form.Set(csrfFormField, tt.form)
			}
			req := httptest.NewRequest(tt.method, "/student/feedback", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
