package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	msgMalformedBody = "Malformed request body."
	msgBodyTooLarge  = "Request body too large."
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string              `json:"detail"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("write JSON response")
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorBody{Detail: message})
}

// readJSON decodes the request body into dst. An empty body leaves dst
// untouched so that validation reports the missing fields.
func readJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// decodeBody reads the request body into dst, answering 413 or 400 itself
// when it cannot. It reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := readJSON(r, dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return false
	}
	zerolog.Ctx(r.Context()).Debug().Err(err).Msg("malformed request body")
	writeError(w, r, http.StatusBadRequest, msgMalformedBody)
	return false
}
