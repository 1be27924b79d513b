package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/service"
	"github.com/rs/zerolog"
)

// MaxBodySize caps request bodies.
const MaxBodySize int64 = 1 << 20

type contextKey string

const (
	userContextKey      contextKey = "user"
	requestIDContextKey contextKey = "request_id"
)

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// RequestIDFromContext returns the request's correlation ID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// RequestID tags each request with a correlation ID, reusing an incoming
// X-Request-ID header when present, and attaches a request-scoped logger
// carrying it to the context.
func RequestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			reqLogger := logger.With().Str("request_id", requestID).Logger()
			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
			ctx = reqLogger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogging logs one line per request once it completes.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// SecurityHeaders sets conservative response headers for a JSON API.
// HSTS is only sent over TLS when requireHTTPS is set.
func SecurityHeaders(requireHTTPS bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			if requireHTTPS && r.TLS != nil {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSize limits the size of incoming request bodies.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the Authorization header ("Token <key>" or "Bearer <key>"),
// resolves the key to its user and injects it into the request context.
// Returns 401 for unauthenticated requests.
func RequireAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := tokenFromHeader(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Token")
				if r.Header.Get("Authorization") == "" {
					writeError(w, r, http.StatusUnauthorized, msgNotAuthenticated)
				} else {
					writeError(w, r, http.StatusUnauthorized, msgInvalidToken)
				}
				return
			}

			user, err := auth.Authenticate(r.Context(), key)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					w.Header().Set("WWW-Authenticate", "Token")
					writeError(w, r, http.StatusUnauthorized, msgInvalidToken)
					return
				}
				writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			logger := zerolog.Ctx(ctx).With().Int64("user_id", user.ID).Logger()
			ctx = logger.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromHeader extracts the key from an Authorization header using the
// Token or Bearer scheme.
func tokenFromHeader(r *http.Request) (string, bool) {
	scheme, key, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	key = strings.TrimSpace(key)
	return key, key != ""
}
