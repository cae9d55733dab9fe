package memory

import (
	"context"
	"strings"
	"sync"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// UserStore is an in-memory implementation of storage.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	data    map[string]*domain.User // keyed by user id
	byEmail map[string]string       // lowercased email -> user id
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		data:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// Insert adds a new user. Returns ErrDuplicateKey if the id or email exists.
func (s *UserStore) Insert(_ context.Context, u *domain.User) error {
	if u == nil || u.UserID == "" || u.Email == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := s.data[u.UserID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byEmail[email]; exists {
		return storage.ErrDuplicateKey
	}

	userCopy := *u
	s.data[u.UserID] = &userCopy
	s.byEmail[email] = u.UserID
	return nil
}

// GetByID retrieves a user by id. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.data[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	userCopy := *u
	return &userCopy, nil
}

// GetByEmail retrieves a user by email. Returns ErrNotFound if not exists.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	userCopy := *s.data[id]
	return &userCopy, nil
}

// Verify interface compliance at compile time.
var _ storage.UserStore = (*UserStore)(nil)
