package middleware

import (
	"net/http"
	"strings"
)

// CSP collects the Content-Security-Policy sources the portal needs.
type CSP struct {
	// MediaOrigins are extra img-src origins, usually the CMS upload host.
	MediaOrigins []string
}

// String renders the policy. Inline styles stay allowed for the templates.
func (c CSP) String() string {
	img := append([]string{"'self'", "data:"}, c.MediaOrigins...)
	directives := []string{
		"default-src 'self'",
		"img-src " + strings.Join(img, " "),
		"style-src 'self' 'unsafe-inline'",
		"frame-ancestors 'none'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}

// PortalCSP is the policy for pages that embed media from mediaOrigin.
func PortalCSP(mediaOrigin string) string {
	c := CSP{}
	if mediaOrigin != "" {
		c.MediaOrigins = append(c.MediaOrigins, mediaOrigin)
	}
	return c.String()
}

var baseHeaders = map[string]string{
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Permissions-Policy":     "camera=(), microphone=(), geolocation=(), payment=()",
}

// SecurityHeadersWithCSP sets the static security headers on every response.
// HSTS is only sent when isHTTPS; an empty csp omits the CSP header.
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range baseHeaders {
				h.Set(k, v)
			}
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}
			if isHTTPS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
