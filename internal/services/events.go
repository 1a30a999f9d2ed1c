package services

import (
	"sync"

	"athlete-connect-backend/internal/models"
)

// EventType identifies a session state change
type EventType string

const (
	EventLogin          EventType = "login"
	EventLogout         EventType = "logout"
	EventProfileUpdated EventType = "profile_updated"
	EventMessageSent    EventType = "message_sent"
	EventVideoUploaded  EventType = "video_uploaded"
)

// Event is published to session subscribers after a state change
type Event struct {
	Type           EventType       `json:"type"`
	SessionID      string          `json:"session_id"`
	UserID         string          `json:"user_id,omitempty"`
	ConversationID string          `json:"conversation_id,omitempty"`
	User           *models.User    `json:"user,omitempty"`
	Message        *models.Message `json:"message,omitempty"`
	Video          *models.Video   `json:"video,omitempty"`
}

// Observer receives session events
type Observer func(Event)

// observers is a set of subscribers keyed by registration order
type observers struct {
	mu   sync.Mutex
	next int
	subs map[int]Observer
}

func (o *observers) add(fn Observer) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.subs == nil {
		o.subs = make(map[int]Observer)
	}
	id := o.next
	o.next++
	o.subs[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

// publish calls every observer outside the lock so observers may unsubscribe
func (o *observers) publish(e Event) {
	o.mu.Lock()
	subs := make([]Observer, 0, len(o.subs))
	for _, fn := range o.subs {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
