package services

import (
	"fmt"
	"sync"
	"time"

	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// sessionEntry is a kept session and the moment its latest token expires
type sessionEntry struct {
	session   *Session
	expiresAt time.Time
}

// SessionManager keeps the sessions of connected clients and issues their tokens.
// A session is forgotten once its token expires.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry

	userRepo      *repository.UserRepository
	conversations *ConversationService
	opts          SessionOptions
	jwtSecret     []byte
	tokenTTL      time.Duration
}

// NewSessionManager creates a new session manager
func NewSessionManager(
	userRepo *repository.UserRepository,
	conversations *ConversationService,
	opts SessionOptions,
	jwtSecret string,
	tokenTTL time.Duration,
) *SessionManager {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &SessionManager{
		sessions:      make(map[string]sessionEntry),
		userRepo:      userRepo,
		conversations: conversations,
		opts:          opts,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
	}
}

// Create starts a new anonymous session and keeps it
func (m *SessionManager) Create() *Session {
	session := m.NewAnonymous()
	now := time.Now()

	m.mu.Lock()
	m.evictExpired(now)
	m.sessions[session.ID()] = sessionEntry{session: session, expiresAt: now.Add(m.tokenTTL)}
	m.mu.Unlock()

	return session
}

// NewAnonymous returns a session that is not kept by the manager
func (m *SessionManager) NewAnonymous() *Session {
	return NewSession(uuid.New().String(), m.userRepo, m.conversations, m.opts)
}

// Get returns a kept session that has not expired
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if ok && !time.Now().Before(entry.expiresAt) {
		delete(m.sessions, id)
		ok = false
	}
	if !ok {
		return nil, fmt.Errorf("%w: session %s", models.ErrUnauthenticated, id)
	}
	return entry.session, nil
}

// Remove forgets a session
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictExpired(time.Now())
	return len(m.sessions)
}

// evictExpired drops the sessions whose token has expired. Callers hold mu.
func (m *SessionManager) evictExpired(now time.Time) {
	for id, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
}

// IssueToken generates a JWT bound to an authenticated session
func (m *SessionManager) IssueToken(session *Session) (string, error) {
	user, ok := session.CurrentUser()
	if !ok {
		return "", fmt.Errorf("%w: session %s has no user", models.ErrUnauthenticated, session.ID())
	}

	now := time.Now()
	expiresAt := now.Add(m.tokenTTL)
	claims := jwt.MapClaims{
		"session_id": session.ID(),
		"user_id":    user.ID,
		"exp":        expiresAt.Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	m.mu.Lock()
	if entry, ok := m.sessions[session.ID()]; ok {
		entry.expiresAt = expiresAt
		m.sessions[session.ID()] = entry
	}
	m.mu.Unlock()

	return tokenString, nil
}

// ValidateToken validates a JWT and returns the session id it is bound to
func (m *SessionManager) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse token: %v", models.ErrUnauthenticated, err)
	}

	if !token.Valid {
		return "", fmt.Errorf("%w: invalid token", models.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: invalid token claims", models.ErrUnauthenticated)
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("%w: session_id not found in token", models.ErrUnauthenticated)
	}
	return sessionID, nil
}

// Authenticate resolves a token to its authenticated session
func (m *SessionManager) Authenticate(tokenString string) (*Session, error) {
	sessionID, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	session, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("%w: session %s is logged out", models.ErrUnauthenticated, sessionID)
	}
	return session, nil
}

// Login creates a session and logs it in, returning the session and its token
func (m *SessionManager) Login(email, password string) (*Session, string, error) {
	session := m.Create()

	if _, err := session.Login(email, password); err != nil {
		m.Remove(session.ID())
		return nil, "", err
	}

	token, err := m.IssueToken(session)
	if err != nil {
		m.Remove(session.ID())
		return nil, "", err
	}
	return session, token, nil
}

// Logout logs a session out and forgets it
func (m *SessionManager) Logout(session *Session) {
	session.Logout()
	m.Remove(session.ID())
}

// Users returns the user directory shared by all sessions
func (m *SessionManager) Users() *repository.UserRepository {
	return m.userRepo
}
