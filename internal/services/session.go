package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/repository"
	"athlete-connect-backend/internal/search"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PlaceholderName is given to users created by logging in with an unknown email
const PlaceholderName = "New User"

// SessionState is the authentication state of a session
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// SessionOptions configures sessions
type SessionOptions struct {
	// AutoRegister creates a user when logging in with an unknown email.
	AutoRegister bool
	HistoryLimit int
	Suggestions  search.SuggestionProvider
	Clock        func() time.Time
}

// Session holds the authentication state of one client and routes its mutations
// to the user directory and the conversation store.
type Session struct {
	id            string
	userRepo      *repository.UserRepository
	conversations *ConversationService
	search        *search.Engine
	autoRegister  bool
	now           func() time.Time

	mu            sync.RWMutex
	currentUserID string

	observers observers
}

// NewSession creates an anonymous session
func NewSession(
	id string,
	userRepo *repository.UserRepository,
	conversations *ConversationService,
	opts SessionOptions,
) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		id:            id,
		userRepo:      userRepo,
		conversations: conversations,
		search:        search.NewEngine(userRepo, opts.Suggestions, opts.HistoryLimit),
		autoRegister:  opts.AutoRegister,
		now:           clock,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Subscribe registers an observer and returns a function that removes it
func (s *Session) Subscribe(fn Observer) func() {
	return s.observers.add(fn)
}

// State returns the authentication state
func (s *Session) State() SessionState {
	if s.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// IsAuthenticated reports whether a user is logged in
func (s *Session) IsAuthenticated() bool {
	_, ok := s.currentID()
	return ok
}

// CurrentUser returns the logged in user as currently stored in the directory
func (s *Session) CurrentUser() (*models.User, bool) {
	id, ok := s.currentID()
	if !ok {
		return nil, false
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, false
	}
	return user, true
}

// Login authenticates as the user with the given email. The password is not checked.
// An unknown email registers a new user when auto-registration is enabled.
func (s *Session) Login(email, password string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrValidationFailed)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		if !s.autoRegister {
			return nil, models.ErrInvalidCredentials
		}
		user, err = s.registerOnLogin(email)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.currentUserID = user.ID
	s.mu.Unlock()

	s.observers.publish(Event{Type: EventLogin, SessionID: s.id, UserID: user.ID, User: user})
	return user, nil
}

func (s *Session) registerOnLogin(email string) (*models.User, error) {
	user, err := s.userRepo.Insert(models.User{
		Name:   PlaceholderName,
		Email:  email,
		Teams:  []string{},
		Videos: []models.Video{},
	})
	if errors.Is(err, models.ErrConflict) {
		// registered concurrently by another session
		return s.userRepo.FindByEmail(email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register user on login: %w", err)
	}

	log.Info().
		Str("session_id", s.id).
		Str("user_id", user.ID).
		Str("email", email).
		Msg("User auto-registered on login")
	return user, nil
}

// Logout clears the current user
func (s *Session) Logout() {
	s.mu.Lock()
	userID := s.currentUserID
	s.currentUserID = ""
	s.mu.Unlock()

	s.observers.publish(Event{Type: EventLogout, SessionID: s.id, UserID: userID})
}

// Register creates a new user without logging in
func (s *Session) Register(name, email, password, confirmPassword string) (*models.User, error) {
	req := RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirmPassword,
	}
	if err := ValidateRegister(req); err != nil {
		return nil, err
	}

	return s.userRepo.Insert(models.User{
		Name:   name,
		Email:  email,
		Teams:  []string{},
		Videos: []models.Video{},
	})
}

// UpdateProfile replaces the stored user record wholesale.
// Callers must carry forward every field they do not intend to change.
func (s *Session) UpdateProfile(user models.User) error {
	if err := s.userRepo.Replace(user); err != nil {
		return err
	}

	updated := user.Clone()
	s.observers.publish(Event{Type: EventProfileUpdated, SessionID: s.id, UserID: user.ID, User: &updated})
	return nil
}

// SendMessage appends a message from the current user to a conversation
func (s *Session) SendMessage(conversationID, content string) (*models.Message, error) {
	userID, ok := s.currentID()
	if !ok {
		return nil, fmt.Errorf("%w: log in to send messages", models.ErrUnauthenticated)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message is empty", models.ErrValidationFailed)
	}

	message := models.Message{
		ID:        uuid.New().String(),
		SenderID:  userID,
		Content:   content,
		Timestamp: s.now(),
	}
	if err := s.conversations.AppendMessage(conversationID, message); err != nil {
		return nil, err
	}

	s.observers.publish(Event{
		Type:           EventMessageSent,
		SessionID:      s.id,
		UserID:         userID,
		ConversationID: conversationID,
		Message:        &message,
	})
	return &message, nil
}

// UploadVideo adds a video to the current user's gallery.
// A fresh id is assigned when the video has none; the upload date is always now.
func (s *Session) UploadVideo(video models.Video) (*models.Video, error) {
	userID, ok := s.currentID()
	if !ok {
		return nil, fmt.Errorf("%w: log in to upload videos", models.ErrUnauthenticated)
	}
	if strings.TrimSpace(video.Title) == "" {
		return nil, fmt.Errorf("%w: video title is required", models.ErrValidationFailed)
	}

	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	video.UploadDate = s.now()

	if _, err := s.userRepo.Update(userID, func(u *models.User) {
		u.Videos = append(u.Videos, video.Clone())
	}); err != nil {
		return nil, err
	}

	s.observers.publish(Event{Type: EventVideoUploaded, SessionID: s.id, UserID: userID, Video: &video})
	return &video, nil
}

// Search runs a user search and records the query in this session's history
func (s *Session) Search(query string) []models.User {
	return s.search.Search(query)
}

// SearchHistory returns this session's recent queries, most recent first
func (s *Session) SearchHistory() []string {
	return s.search.History()
}

// ClearSearchHistory empties this session's query history
func (s *Session) ClearSearchHistory() {
	s.search.ClearHistory()
}

// SuggestedUsers returns the suggested users
func (s *Session) SuggestedUsers() []models.User {
	return s.search.Suggested()
}

// ListConversations returns conversations ordered by last activity, filtered by
// the names of participants other than the current user
func (s *Session) ListConversations(filter string) ([]ConversationView, error) {
	userID, ok := s.currentID()
	if !ok {
		return nil, fmt.Errorf("%w: log in to view conversations", models.ErrUnauthenticated)
	}
	return s.conversations.List(userID, filter), nil
}

// Conversation returns one of the current user's conversations
func (s *Session) Conversation(conversationID string) (*ConversationView, error) {
	userID, ok := s.currentID()
	if !ok {
		return nil, fmt.Errorf("%w: log in to view conversations", models.ErrUnauthenticated)
	}
	return s.conversations.GetFor(conversationID, userID)
}

// StartConversation returns the conversation with another user, creating it if needed
func (s *Session) StartConversation(participantID string) (*ConversationView, error) {
	userID, ok := s.currentID()
	if !ok {
		return nil, fmt.Errorf("%w: log in to start conversations", models.ErrUnauthenticated)
	}
	return s.conversations.Start(userID, participantID)
}

func (s *Session) currentID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUserID, s.currentUserID != ""
}
