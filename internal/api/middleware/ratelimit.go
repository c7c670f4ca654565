package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/orderpush/orderpush/internal/api/models"
)

// RateLimitConfig is a request budget per window.
type RateLimitConfig struct {
	RequestLimit int
	WindowLength time.Duration
}

// DefaultNotifyRateLimit applies to the notification hooks (120 req/min).
var DefaultNotifyRateLimit = RateLimitConfig{
	RequestLimit: 120,
	WindowLength: time.Minute,
}

// PerMinute returns a one-minute window config. Non-positive limits fall back
// to DefaultNotifyRateLimit.
func PerMinute(limit int) RateLimitConfig {
	if limit <= 0 {
		return DefaultNotifyRateLimit
	}
	return RateLimitConfig{RequestLimit: limit, WindowLength: time.Minute}
}

// RateLimitByIP limits requests per client IP, taken from True-Client-IP,
// X-Real-IP or X-Forwarded-For before RemoteAddr.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitExceeded(cfg.WindowLength)),
	)
}

// limitExceeded writes a 429 {ok:false} response. httprate does not expose the
// reset time to the handler, so Retry-After is the full window.
func limitExceeded(window time.Duration) http.HandlerFunc {
	retryAfter := strconv.Itoa(max(1, int(window.Seconds())))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", retryAfter)
		models.NewTooManyRequests(GetRequestID(r.Context()), "rate limit exceeded, try again later").Write(w)
	}
}
