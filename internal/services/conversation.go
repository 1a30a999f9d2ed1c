package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/repository"

	"github.com/samber/lo"
)

// ConversationView is a conversation with participants resolved from the user directory
type ConversationView struct {
	ID           string           `json:"id"`
	Participants []models.User    `json:"participants"`
	Messages     []models.Message `json:"messages"`
	LastMessage  *models.Message  `json:"last_message,omitempty"`
	LastActivity time.Time        `json:"last_activity"`
}

// ConversationService handles conversation read models and message appends
type ConversationService struct {
	conversationRepo *repository.ConversationRepository
	userRepo         *repository.UserRepository
}

// NewConversationService creates a new conversation service
func NewConversationService(
	conversationRepo *repository.ConversationRepository,
	userRepo *repository.UserRepository,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
	}
}

// List returns conversations ordered by last activity, most recent first.
// A non-empty filter keeps conversations where a participant other than
// currentUserID has a name containing the filter, case-insensitively.
func (s *ConversationService) List(currentUserID, filter string) []ConversationView {
	views := lo.Map(s.conversationRepo.List(), func(c models.Conversation, _ int) ConversationView {
		return s.view(c)
	})

	if filter != "" {
		needle := strings.ToLower(filter)
		views = lo.Filter(views, func(v ConversationView, _ int) bool {
			return lo.SomeBy(v.Participants, func(u models.User) bool {
				return u.ID != currentUserID && strings.Contains(strings.ToLower(u.Name), needle)
			})
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].LastActivity.After(views[j].LastActivity)
	})
	return views
}

// Get returns a single conversation view
func (s *ConversationService) Get(conversationID string) (*ConversationView, error) {
	c, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	v := s.view(*c)
	return &v, nil
}

// GetFor returns a conversation only when userID takes part in it.
// Other users get ErrNotFound so they cannot learn it exists.
func (s *ConversationService) GetFor(conversationID, userID string) (*ConversationView, error) {
	c, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !c.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: conversation %s", models.ErrNotFound, conversationID)
	}
	v := s.view(*c)
	return &v, nil
}

// AppendMessage appends a message to an existing conversation
func (s *ConversationService) AppendMessage(conversationID string, message models.Message) error {
	return s.conversationRepo.AppendMessage(conversationID, message)
}

// Start returns the two-party conversation between the users, creating it if needed
func (s *ConversationService) Start(currentUserID, participantID string) (*ConversationView, error) {
	if currentUserID == participantID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", models.ErrValidationFailed)
	}
	if _, err := s.userRepo.FindByID(participantID); err != nil {
		return nil, err
	}

	existing, found := lo.Find(s.conversationRepo.List(), func(c models.Conversation) bool {
		return len(c.ParticipantIDs) == 2 && c.HasParticipant(currentUserID) && c.HasParticipant(participantID)
	})
	if found {
		v := s.view(existing)
		return &v, nil
	}

	created, err := s.conversationRepo.Insert(models.Conversation{
		ParticipantIDs: []string{currentUserID, participantID},
		Messages:       []models.Message{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	v := s.view(*created)
	return &v, nil
}

// ParticipantIDs returns the participant ids of a conversation
func (s *ConversationService) ParticipantIDs(conversationID string) ([]string, error) {
	c, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	return c.ParticipantIDs, nil
}

// view resolves participant ids against the directory, skipping unknown ids
func (s *ConversationService) view(c models.Conversation) ConversationView {
	participants := lo.FilterMap(c.ParticipantIDs, func(id string, _ int) (models.User, bool) {
		u, err := s.userRepo.FindByID(id)
		if err != nil {
			return models.User{}, false
		}
		return *u, true
	})

	messages := c.Messages
	if messages == nil {
		messages = []models.Message{}
	}

	return ConversationView{
		ID:           c.ID,
		Participants: participants,
		Messages:     messages,
		LastMessage:  c.LastMessage(),
		LastActivity: c.LastActivity(),
	}
}
