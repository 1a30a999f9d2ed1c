package handlers

import (
	"encoding/json"
	"net/http"

	"athlete-connect-backend/internal/middleware"
	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// SessionHandler handles login and logout
type SessionHandler struct {
	sessions *services.SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the logged in user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /api/v1/sessions
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	session, token, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to log in")
		respondServiceError(w, err)
		return
	}

	user, _ := session.CurrentUser()

	log.Info().
		Str("session_id", session.ID()).
		Str("user_id", user.ID).
		Msg("User logged in")

	respondJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Logout handles DELETE /api/v1/sessions
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	h.sessions.Logout(session)

	log.Info().Str("session_id", session.ID()).Msg("User logged out")

	w.WriteHeader(http.StatusNoContent)
}
