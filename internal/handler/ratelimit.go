package handler

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/msomdec/eventhub/internal/service"
	"github.com/rs/zerolog"
)

const msgThrottled = "Request was throttled."

// RateLimit rejects requests with 429 once the client's bucket is empty.
// Clients are keyed by the connection's remote IP.
func RateLimit(limiter *service.TokenBucket) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				retry := int(math.Ceil(limiter.RetryAfter().Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				zerolog.Ctx(r.Context()).Warn().Str("client_ip", ip).Str("path", r.URL.Path).Msg("rate limited")
				writeError(w, r, http.StatusTooManyRequests, msgThrottled)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
