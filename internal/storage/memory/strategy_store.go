package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// StrategyStore is an in-memory implementation of storage.StrategyStore.
type StrategyStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StrategyRecord // keyed by strategy id
	now  func() time.Time
}

// NewStrategyStore creates a new in-memory strategy store.
func NewStrategyStore() *StrategyStore {
	return &StrategyStore{
		data: make(map[string]*domain.StrategyRecord),
		now:  time.Now,
	}
}

// WithClock sets a custom clock for deterministic timestamps in tests.
func (s *StrategyStore) WithClock(now func() time.Time) *StrategyStore {
	s.now = now
	return s
}

// Insert adds a new strategy. Returns ErrDuplicateKey if the id exists.
func (s *StrategyStore) Insert(_ context.Context, rec *domain.StrategyRecord) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.ID]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := *rec.Clone()
	nowMs := s.now().UnixMilli()
	if recCopy.CreatedAt == 0 {
		recCopy.CreatedAt = nowMs
	}
	recCopy.UpdatedAt = recCopy.CreatedAt
	if recCopy.Version == 0 {
		recCopy.Version = 1
	}
	if recCopy.Status == "" {
		recCopy.Status = domain.StatusDraft
	}
	s.data[rec.ID] = recCopy.Clone()

	// Reflect assigned metadata back to the caller, matching what a
	// database insert with defaults would return.
	*rec = recCopy
	return nil
}

// GetByID retrieves a strategy by its id. Returns ErrNotFound if not exists.
func (s *StrategyStore) GetByID(_ context.Context, strategyID string) (*domain.StrategyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.data[strategyID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return rec.Clone(), nil
}

// List retrieves all strategies owned by a user, ordered by created_at ASC.
func (s *StrategyStore) List(_ context.Context, ownerID string) ([]*domain.StrategyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StrategyRecord
	for _, rec := range s.data {
		if rec.OwnerID == ownerID {
			result = append(result, rec.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// ListPublic retrieves all public strategies, ordered by updated_at DESC.
func (s *StrategyStore) ListPublic(_ context.Context) ([]*domain.StrategyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StrategyRecord
	for _, rec := range s.data {
		if rec.IsPublic {
			result = append(result, rec.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt != result[j].UpdatedAt {
			return result[i].UpdatedAt > result[j].UpdatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Update replaces a stored strategy, bumps its version, and refreshes
// updated_at. Returns ErrNotFound if the id does not exist.
func (s *StrategyStore) Update(_ context.Context, rec *domain.StrategyRecord) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.data[rec.ID]
	if !exists {
		return storage.ErrNotFound
	}

	recCopy := *rec.Clone()
	recCopy.OwnerID = prev.OwnerID
	recCopy.CreatedAt = prev.CreatedAt
	recCopy.Version = prev.Version + 1
	recCopy.UpdatedAt = s.now().UnixMilli()
	s.data[rec.ID] = recCopy.Clone()

	*rec = recCopy
	return nil
}

// Delete removes a strategy. Returns ErrNotFound if the id does not exist.
func (s *StrategyStore) Delete(_ context.Context, strategyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[strategyID]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, strategyID)
	return nil
}

// Verify interface compliance at compile time.
var _ storage.StrategyStore = (*StrategyStore)(nil)
