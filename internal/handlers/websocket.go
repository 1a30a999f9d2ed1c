package handlers

import (
	"encoding/json"
	"net/http"

	"athlete-connect-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams session events to connected clients and accepts messages from them
type WebSocketHandler struct {
	hub           *services.WSHub
	sessions      *services.SessionManager
	conversations *services.ConversationService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	sessions *services.SessionManager,
	conversations *services.ConversationService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		sessions:      sessions,
		conversations: conversations,
	}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	session, err := h.sessions.Authenticate(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}
	user, ok := session.CurrentUser()
	if !ok {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(user.ID, session.ID(), conn)
	defer h.hub.Unregister(user.ID, session.ID(), conn)

	unsubscribe := session.Subscribe(h.hub.Forward(user.ID, session.ID()))
	defer unsubscribe()

	if err := h.hub.SendToSession(user.ID, session.ID(), services.WSMessage{
		Type: "session_status",
		Data: map[string]interface{}{
			"session_id": session.ID(),
			"user_id":    user.ID,
			"state":      session.State(),
		},
	}); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to send session_status message")
	}

	log.Info().Str("user_id", user.ID).Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", user.ID).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to parse WebSocket message")
			h.sendError(session, "Invalid message format")
			continue
		}

		if err := h.handleMessage(session, msg); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Str("type", msg.Type).Msg("Failed to handle message")
			h.sendError(session, err.Error())
		}
	}
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(session *services.Session, msg services.WSMessage) error {
	switch msg.Type {
	case "send_message":
		message, err := session.SendMessage(msg.ConversationID, msg.Content)
		if err != nil {
			return err
		}
		notifyMessageSent(h.conversations, h.hub, session.ID(), msg.ConversationID, message)
		return nil
	default:
		return errUnknownMessageType
	}
}

// sendError sends an error message to the session's connection
func (h *WebSocketHandler) sendError(session *services.Session, message string) {
	user, ok := session.CurrentUser()
	if !ok {
		return
	}
	if err := h.hub.SendToSession(user.ID, session.ID(), services.WSMessage{Type: "error", Message: message}); err != nil {
		log.Debug().Err(err).Str("session_id", session.ID()).Msg("Failed to send error message")
	}
}
