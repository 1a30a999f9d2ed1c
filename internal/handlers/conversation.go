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

// ConversationHandler handles conversation and messaging requests
type ConversationHandler struct {
	conversations *services.ConversationService
	wsHub         *services.WSHub
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *services.ConversationService, wsHub *services.WSHub) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		wsHub:         wsHub,
	}
}

// StartConversationRequest represents the request body for starting a conversation
type StartConversationRequest struct {
	ParticipantID string `json:"participant_id"`
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Content string `json:"content"`
}

// ListConversations handles GET /api/v1/conversations?q=
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	views, err := session.ListConversations(r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": views,
	})
}

// GetConversation handles GET /api/v1/conversations/{conversation_id}
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	view, err := session.Conversation(chi.URLParam(r, "conversation_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// StartConversation handles POST /api/v1/conversations
func (h *ConversationHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ParticipantID == "" {
		respondError(w, "participant_id is required", http.StatusBadRequest)
		return
	}

	view, err := session.StartConversation(req.ParticipantID)
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", session.ID()).
			Str("participant_id", req.ParticipantID).
			Msg("Failed to start conversation")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// SendMessage handles POST /api/v1/conversations/{conversation_id}/messages
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	conversationID := chi.URLParam(r, "conversation_id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := session.SendMessage(conversationID, req.Content)
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", session.ID()).
			Str("conversation_id", conversationID).
			Msg("Failed to send message")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", message.SenderID).
		Str("conversation_id", conversationID).
		Str("message_id", message.ID).
		Msg("Message sent")

	notifyMessageSent(h.conversations, h.wsHub, session.ID(), conversationID, message)

	respondJSON(w, http.StatusCreated, message)
}

// notifyMessageSent tells the participants' other connected sessions about a new message.
// The message is already stored, so delivery failures are only logged.
func notifyMessageSent(
	conversations *services.ConversationService,
	hub *services.WSHub,
	sessionID string,
	conversationID string,
	message *models.Message,
) {
	participantIDs, err := conversations.ParticipantIDs(conversationID)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to load participants")
		return
	}
	hub.NotifyParticipants(participantIDs, services.Event{
		Type:           services.EventMessageSent,
		SessionID:      sessionID,
		UserID:         message.SenderID,
		ConversationID: conversationID,
		Message:        message,
	})
}
