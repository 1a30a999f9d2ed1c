package handlers

import (
	"encoding/json"
	"net/http"

	"athlete-connect-backend/internal/middleware"
	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	sessions *services.SessionManager
}

// NewUserHandler creates a new user handler
func NewUserHandler(sessions *services.SessionManager) *UserHandler {
	return &UserHandler{
		sessions: sessions,
	}
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.sessions.NewAnonymous().Register(req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Registration rejected")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("User registered")

	respondJSON(w, http.StatusCreated, user)
}

// GetMe handles GET /api/v1/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	user, ok := session.CurrentUser()
	if !ok {
		respondError(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// GetUser handles GET /api/v1/users/{user_id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	user, err := h.sessions.Users().FindByID(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/{user_id}.
// The body is the full user record; omitted fields are cleared and omitted lists become empty.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	userID := chi.URLParam(r, "user_id")

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if user.ID == "" {
		user.ID = userID
	}
	if user.ID != userID {
		respondError(w, "user id does not match the path", http.StatusBadRequest)
		return
	}

	current, ok := session.CurrentUser()
	if !ok || current.ID != userID {
		respondError(w, "only your own profile can be updated", http.StatusForbidden)
		return
	}

	if user.Teams == nil {
		user.Teams = []string{}
	}
	if user.Videos == nil {
		user.Videos = []models.Video{}
	}

	if err := session.UpdateProfile(user); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondServiceError(w, err)
		return
	}

	stored, err := h.sessions.Users().FindByID(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Profile updated")

	respondJSON(w, http.StatusOK, stored)
}
