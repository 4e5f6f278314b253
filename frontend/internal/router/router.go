package router

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduportal/portal/frontend/internal/middleware"
	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/setup"
	mw "github.com/eduportal/portal/shared/middleware"
	"github.com/eduportal/portal/shared/middleware/metrics"
	rl "github.com/eduportal/portal/shared/middleware/ratelimiter"
	"github.com/eduportal/portal/shared/utils"
)

// Buckets idle for limiterIdle are swept every sweepInterval.
var (
	limiterIdle   = time.Hour
	sweepInterval = 10 * time.Minute
)

type limiters struct {
	global *rl.KeyedLimiter
	form   *rl.KeyedLimiter
}

// newLimiters builds the router's limiters and sweeps them until done closes.
func newLimiters(done <-chan struct{}) limiters {
	l := limiters{
		global: rl.New(200, 400, limiterIdle),
		// Form posts that reach the backend are limited per client address.
		form: rl.New(20.0/60, 20, limiterIdle),
	}
	l.global.StartSweeper(sweepInterval, done)
	l.form.StartSweeper(sweepInterval, done)
	return l
}

// New builds the portal router. Every route of the table is mounted with
// its lazy view; the guard middleware decides access from the same table.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	h := deps.Handler
	lim := newLimiters(deps.Done)

	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.SecureCookies, mw.PortalCSP(mediaOrigin(deps.Public.RootURL))))
	r.Use(mw.GlobalRateLimit(lim.global))

	csrf := middleware.CSRF{SecureCookies: deps.Public.SecureCookies}
	r.Use(csrf.Issue)
	r.Use(csrf.Verify)

	guard := middleware.NewGuard(deps.Routes, deps.Guard, h.Token, deps.Public.SecureCookies)
	r.Use(guard.Middleware)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	limited := map[string]bool{routes.StudentLogin: true, routes.StudentRegister: true, routes.StudentConsult: true}
	formLimit := mw.RateLimitUnsafe(lim.form, utils.GetIP)

	deps.Routes.Walk(func(pattern string, m *routes.Match) {
		leaf := m.Leaf()
		var handler http.Handler
		switch {
		case leaf.View != nil:
			view := leaf.View
			handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				view.Handler().ServeHTTP(w, r)
			})
		case leaf.Redirect != "":
			target := leaf.Redirect
			handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, target, http.StatusFound)
			})
		default:
			return
		}
		if limited[leaf.Name] {
			handler = formLimit(handler)
		}
		r.Handle(pattern, handler)
	})

	r.Post("/student/logout", h.LogoutHandler)

	return r
}

func mediaOrigin(rootURL string) string {
	u, err := url.Parse(rootURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
