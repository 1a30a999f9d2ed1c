package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Content        string      `json:"content,omitempty"`
	Message        string      `json:"message,omitempty"`
	Data           interface{} `json:"data,omitempty"`
}

// wsClient serializes writes to a single connection
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages WebSocket connections, one per session, grouped by user
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]map[string]*wsClient
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]map[string]*wsClient),
	}
}

// Register registers a session's WebSocket connection, closing any previous one of the same session
func (h *WSHub) Register(userID, sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.connections[userID]
	if !ok {
		sessions = make(map[string]*wsClient)
		h.connections[userID] = sessions
	}
	if existing, exists := sessions[sessionID]; exists {
		existing.conn.Close()
	}
	sessions[sessionID] = &wsClient{conn: conn}

	log.Info().Str("user_id", userID).Str("session_id", sessionID).Msg("WebSocket connection registered")
}

// Unregister removes the session's connection if it is still the registered one
func (h *WSHub) Unregister(userID, sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions := h.connections[userID]
	if client, exists := sessions[sessionID]; exists && client.conn == conn {
		client.conn.Close()
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(h.connections, userID)
		}
		log.Info().Str("user_id", userID).Str("session_id", sessionID).Msg("WebSocket connection unregistered")
	}
}

// SendToSession sends a message to one session's connection
func (h *WSHub) SendToSession(userID, sessionID string, message WSMessage) error {
	h.mu.RLock()
	client, exists := h.connections[userID][sessionID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("session %s of user %s is not connected", sessionID, userID)
	}
	return h.send(userID, sessionID, client, message)
}

// SendToUser sends a message to every connection of a user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	return h.sendExcept(userID, "", message)
}

// sendExcept sends to every connection of a user but the one of skipSessionID
func (h *WSHub) sendExcept(userID, skipSessionID string, message WSMessage) error {
	h.mu.RLock()
	targets := make(map[string]*wsClient, len(h.connections[userID]))
	for sessionID, client := range h.connections[userID] {
		if sessionID != skipSessionID {
			targets[sessionID] = client
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return fmt.Errorf("user %s is not connected", userID)
	}

	var errs []error
	for sessionID, client := range targets {
		if err := h.send(userID, sessionID, client, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *WSHub) send(userID, sessionID string, client *wsClient, message WSMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(userID, sessionID, client.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user has at least one connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID]) > 0
}

// Forward returns an observer that relays session events to that session's connection
func (h *WSHub) Forward(userID, sessionID string) Observer {
	return func(e Event) {
		if err := h.SendToSession(userID, sessionID, WSMessage{Type: string(e.Type), Data: e}); err != nil {
			log.Debug().Err(err).Str("user_id", userID).Str("type", string(e.Type)).Msg("Event not delivered")
		}
	}
}

// NotifyParticipants delivers a session event to every connected participant session.
// The session that produced the event is skipped, it receives the event through Forward.
func (h *WSHub) NotifyParticipants(participantIDs []string, e Event) {
	for _, id := range participantIDs {
		skip := ""
		if id == e.UserID {
			skip = e.SessionID
		}
		if !h.IsOnline(id) {
			continue
		}
		if err := h.sendExcept(id, skip, WSMessage{Type: string(e.Type), Data: e}); err != nil {
			log.Debug().
				Err(err).
				Str("user_id", id).
				Str("conversation_id", e.ConversationID).
				Msg("Participant not notified")
		}
	}
}
