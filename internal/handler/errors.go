package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/eventhub/internal/domain"
	"github.com/rs/zerolog"
)

const (
	msgNotAuthenticated   = "Authentication credentials were not provided."
	msgInvalidToken       = "Invalid token."
	msgInvalidCredentials = "Invalid credentials"
	msgForbidden          = "You do not have permission to perform this action."
	msgNotFound           = "Not found."
	msgAlreadyRegistered  = "You are already registered for this event"
	msgInternal           = "An unexpected error occurred."
)

// writeServiceError maps a service error onto its HTTP status and body.
// Unexpected errors are logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Debug().Err(err).Msg("validation failed")
		writeJSON(w, r, http.StatusBadRequest, errorBody{Detail: verr.Message, Errors: verr.Fields})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, r, http.StatusUnauthorized, msgNotAuthenticated)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, r, http.StatusForbidden, msgForbidden)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		writeError(w, r, http.StatusBadRequest, msgAlreadyRegistered)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, msgInternal)
	}
}
