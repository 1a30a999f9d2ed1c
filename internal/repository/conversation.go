package repository

import (
	"fmt"
	"sync"

	"athlete-connect-backend/internal/models"

	"github.com/google/uuid"
)

// ConversationRepository is the in-memory conversation store
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations []models.Conversation
	byID          map[string]int
}

// NewConversationRepository creates an empty conversation repository
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{byID: make(map[string]int)}
}

// Insert adds a conversation, assigning a fresh id when none is set
func (r *ConversationRepository) Insert(conversation models.Conversation) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	if _, exists := r.byID[conversation.ID]; exists {
		return nil, fmt.Errorf("%w: conversation %s", models.ErrConflict, conversation.ID)
	}

	stored := conversation.Clone()
	r.conversations = append(r.conversations, stored)
	r.byID[stored.ID] = len(r.conversations) - 1

	out := stored.Clone()
	return &out, nil
}

// FindByID retrieves a conversation by id
func (r *ConversationRepository) FindByID(id string) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", models.ErrNotFound, id)
	}
	c := r.conversations[idx].Clone()
	return &c, nil
}

// List returns a snapshot of all conversations in insertion order
func (r *ConversationRepository) List() []models.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Conversation, len(r.conversations))
	for i, c := range r.conversations {
		out[i] = c.Clone()
	}
	return out
}

// AppendMessage appends a message to the conversation's message list
func (r *ConversationRepository) AppendMessage(conversationID string, message models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[conversationID]
	if !ok {
		return fmt.Errorf("%w: conversation %s", models.ErrNotFound, conversationID)
	}
	r.conversations[idx].Messages = append(r.conversations[idx].Messages, message)
	return nil
}
