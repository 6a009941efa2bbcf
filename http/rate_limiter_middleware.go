package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"propcalc/domain"
)

// RateLimitMiddleware limits requests per client IP. It expects RealIP to
// have run first so RemoteAddr holds the client address.
func RateLimitMiddleware(limiter *RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			ok, retryAfter := limiter.Allow(ip)
			if !ok {
				logger.Info("rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				writeJSON(w, logger, http.StatusTooManyRequests, domain.ToolResponse{
					Error: "rate limit exceeded, try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
