package middleware

import (
	"context"
	"net/http"

	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/logger"
)

const loginRequiredMessage = "Please log in to continue"

type matchContextKey struct{}

// TokenSource returns the credential token the browser presented.
type TokenSource func(w http.ResponseWriter, r *http.Request) string

// Guard applies a routes.Guard decision to every request whose path is in
// the table. Paths outside the table pass through untouched.
type Guard struct {
	table         *routes.Table
	guard         *routes.Guard
	token         TokenSource
	secureCookies bool
}

func NewGuard(table *routes.Table, guard *routes.Guard, token TokenSource, secureCookies bool) *Guard {
	return &Guard{
		table:         table,
		guard:         guard,
		token:         token,
		secureCookies: secureCookies,
	}
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, ok := g.table.Resolve(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		decision := g.guard.Decide(m, g.token(w, r))
		if !decision.Allow {
			logger.Log.Debug("navigation needs a token", "path", r.URL.Path, "policy", g.guard.Policy().String())
			RedirectToLogin(w, r, decision.Redirect, g.secureCookies)
			return
		}

		ctx := context.WithValue(r.Context(), matchContextKey{}, m)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectToLogin sends the browser to loginPath with a flash message.
func RedirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string, secureCookies bool) {
	session.SetFlash(w, session.FlashError, loginRequiredMessage, secureCookies)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// MatchFromContext returns the route Guard resolved for this request.
func MatchFromContext(ctx context.Context) (*routes.Match, bool) {
	m, ok := ctx.Value(matchContextKey{}).(*routes.Match)
	return m, ok
}
