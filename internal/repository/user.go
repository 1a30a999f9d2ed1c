package repository

import (
	"fmt"
	"sync"

	"athlete-connect-backend/internal/models"

	"github.com/google/uuid"
)

// UserRepository is the in-memory user directory.
// Users are kept in insertion order and indexed by id and email.
type UserRepository struct {
	mu      sync.RWMutex
	users   []models.User
	byID    map[string]int
	byEmail map[string]int
}

// NewUserRepository creates an empty user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]int),
		byEmail: make(map[string]int),
	}
}

// Insert appends a user, assigning a fresh id when none is set
func (r *UserRepository) Insert(user models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, exists := r.byID[user.ID]; exists {
		return nil, fmt.Errorf("%w: user %s", models.ErrConflict, user.ID)
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, fmt.Errorf("%w: email %s is already registered", models.ErrConflict, user.Email)
	}

	stored := user.Clone()
	r.users = append(r.users, stored)
	idx := len(r.users) - 1
	r.byID[stored.ID] = idx
	r.byEmail[stored.Email] = idx

	out := stored.Clone()
	return &out, nil
}

// FindByID retrieves a user by id
func (r *UserRepository) FindByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	user := r.users[idx].Clone()
	return &user, nil
}

// FindByEmail retrieves a user by exact, case-sensitive email
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%w: no user with email %s", models.ErrNotFound, email)
	}
	user := r.users[idx].Clone()
	return &user, nil
}

// Replace overwrites the stored user with the same id.
// The whole record is replaced; fields are not merged.
func (r *UserRepository) Replace(user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[user.ID]
	if !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, user.ID)
	}
	if other, taken := r.byEmail[user.Email]; taken && other != idx {
		return fmt.Errorf("%w: email %s is already registered", models.ErrConflict, user.Email)
	}

	delete(r.byEmail, r.users[idx].Email)
	r.users[idx] = user.Clone()
	r.byEmail[user.Email] = idx
	return nil
}

// Update applies mutate to a copy of the stored user and stores the result atomically.
// The id cannot be changed through mutate.
func (r *UserRepository) Update(id string, mutate func(*models.User)) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}

	updated := r.users[idx].Clone()
	mutate(&updated)
	updated.ID = id
	if other, taken := r.byEmail[updated.Email]; taken && other != idx {
		return nil, fmt.Errorf("%w: email %s is already registered", models.ErrConflict, updated.Email)
	}

	delete(r.byEmail, r.users[idx].Email)
	r.users[idx] = updated
	r.byEmail[updated.Email] = idx

	out := updated.Clone()
	return &out, nil
}

// List returns a snapshot of all users in insertion order
func (r *UserRepository) List() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, len(r.users))
	for i, u := range r.users {
		out[i] = u.Clone()
	}
	return out
}

// Count returns the number of users
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
