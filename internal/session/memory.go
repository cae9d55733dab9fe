package session

import (
	"context"
	"sync"
	"time"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// MemoryStore implements Store with an in-memory map. Suited for tests and
// single-node deployments without Redis.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.ttl = ttl
	}
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]*memoryEntry),
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// Get retrieves a session by id.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.data[sessionID]
	if !exists || s.now().After(entry.expiresAt) {
		return nil, storage.ErrNotFound
	}

	sessCopy := entry.session
	if entry.session.SurveyAnswers != nil {
		sessCopy.SurveyAnswers = make(domain.SurveyAnswers, len(entry.session.SurveyAnswers))
		for k, v := range entry.session.SurveyAnswers {
			sessCopy.SurveyAnswers[k] = v
		}
	}
	return &sessCopy, nil
}

// Put inserts or replaces a session and refreshes its UpdatedAt and TTL.
func (s *MemoryStore) Put(_ context.Context, sess *domain.Session) error {
	if sess == nil || sess.SessionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sessCopy := *sess
	sessCopy.UpdatedAt = now.UnixMilli()
	if sessCopy.SurveyAnswers != nil {
		answers := make(domain.SurveyAnswers, len(sess.SurveyAnswers))
		for k, v := range sess.SurveyAnswers {
			answers[k] = v
		}
		sessCopy.SurveyAnswers = answers
	}

	s.data[sess.SessionID] = &memoryEntry{
		session:   sessCopy,
		expiresAt: now.Add(s.ttl),
	}
	sess.UpdatedAt = sessCopy.UpdatedAt
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, sessionID)
	return nil
}
