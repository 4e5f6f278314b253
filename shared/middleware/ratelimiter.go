package middleware

import (
	"net/http"

	internal_errors "github.com/eduportal/portal/shared/errors"
	"github.com/eduportal/portal/shared/logger"
	"github.com/eduportal/portal/shared/middleware/ratelimiter"
	"github.com/eduportal/portal/shared/utils"
)

var errRateLimited = &internal_errors.ErrorWithStatusCode{
	Message:    "Rate limit exceeded, try again later",
	StatusCode: http.StatusTooManyRequests,
}

// RateLimit answers 429 once identity's bucket in rl is empty.
func RateLimit(rl *ratelimiter.KeyedLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				logger.Log.Warn("rate limit exceeded", "path", r.URL.Path, "identity", identity)
				utils.WriteErrorAndStatusCode(w, errRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitUnsafe limits only requests that change state, so page views of
// the same route stay free.
func RateLimitUnsafe(rl *ratelimiter.KeyedLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := RateLimit(rl, getIdentity)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.KeyedLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}
