package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/msomdec/eventhub/internal/metrics"
	"github.com/msomdec/eventhub/internal/service"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth   *service.AuthService
	Events *service.EventService
	Store  Pinger
	// Limiter throttles signup and login per client IP. Nil disables it.
	Limiter        *service.TokenBucket
	Logger         zerolog.Logger
	AllowedOrigins []string
	RequireHTTPS   bool
}

// NewRouter builds the HTTP handler serving the whole API.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID(deps.Logger))
	r.Use(RequestLogging)
	r.Use(metrics.HTTPMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders(deps.RequireHTTPS))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
			MaxAge:         300,
		}))
	}
	r.Use(RequestSize(MaxBodySize))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	r.Get("/healthz", HandleHealthz)
	r.Get("/readyz", HandleReadyz(deps.Store))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	authH := NewAuthHandler(deps.Auth)
	eventH := NewEventHandler(deps.Events)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(RateLimit(deps.Limiter))
			}
			r.Post("/auth/signup", authH.HandleSignup)
			r.Post("/auth/login", authH.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(deps.Auth))

			r.Get("/auth/me", authH.HandleMe)

			r.Get("/events", eventH.HandleList)
			r.Post("/events", eventH.HandleCreate)
			r.Get("/events/{id:[0-9]+}", eventH.HandleGet)
			r.Put("/events/{id:[0-9]+}", eventH.HandleUpdate)
			r.Delete("/events/{id:[0-9]+}", eventH.HandleDelete)
			r.Post("/events/{id:[0-9]+}/register", eventH.HandleRegister)

			r.Get("/registrations/my-events", eventH.HandleMyEvents)
		})
	})

	return r
}
