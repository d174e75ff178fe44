package kit

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitByIP allows limit requests per window for each client IP. The IP
// comes from the connection unless trustProxy is set, in which case
// X-Forwarded-For / X-Real-IP win. Only enable that behind an ingress that
// overwrites those headers.
func RateLimitByIP(limit int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	key := httprate.KeyByIP
	if trustProxy {
		key = httprate.KeyByRealIP
	}

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, r, http.StatusTooManyRequests, "too many requests", nil)
		}),
	)
}
