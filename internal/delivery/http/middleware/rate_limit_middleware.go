package middleware

import (
	"net/http"
	"time"

	"vetcare-backend/pkg/response"

	"github.com/go-chi/httprate"
)

// LoginRateLimit limits requests per client IP. A non-positive limit disables it.
func LoginRateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.Error(w, http.StatusTooManyRequests, "Too many login attempts, please try again later", nil)
		}),
	)
}
