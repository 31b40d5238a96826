package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/aether-player/media-kit/pkg/backendtypes"
)

// RateLimit throttles all inbound requests with one token bucket. Rejected
// requests get 429 RATE_LIMITED and a Retry-After hint.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			reservation := limiter.Reserve()
			if !reservation.OK() {
				tooMany(w, r, time.Second)
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				tooMany(w, r, delay)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewLimiter builds the bridge limiter from config, or nil when disabled
func NewLimiter(cfg backendtypes.RateLimitConfig) *rate.Limiter {
	if !cfg.Enabled || cfg.RequestsPerSecond <= 0 || cfg.Burst <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
}

func tooMany(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	writeError(w, r, http.StatusTooManyRequests, backendtypes.ErrCodeRateLimited, "Too many requests")
}
