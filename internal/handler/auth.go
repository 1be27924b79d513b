package handler

import (
	"net/http"

	"github.com/msomdec/eventhub/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleSignup creates an account and returns its token.
// POST /api/auth/signup
// Request:  {"username":"...","email":"...","password":"..."}
// Response: 201 {"token":"...","user":{...}}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, signupResponse{Token: token, User: toUserDTO(user)})
}

// HandleLogin exchanges credentials for the user's token.
// POST /api/auth/login
// Request:  {"username":"...","password":"..."}
// Response: {"token":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"token": token})
}

// HandleMe returns the authenticated user.
// GET /api/auth/me
// Response: {"user":{...}}
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}
