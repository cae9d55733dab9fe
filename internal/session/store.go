// Package session persists per-user editor state: onboarding survey answers
// and the strategy draft currently open in the editor. The web client keeps
// no durable state of its own; everything it would otherwise stash in
// browser storage lives here keyed by session id.
package session

import (
	"context"
	"time"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/idhash"
)

// DefaultTTL is how long an idle session survives before the store may
// drop it.
const DefaultTTL = 30 * 24 * time.Hour

// Store provides access to session state.
type Store interface {
	// Get retrieves a session by id. Returns storage.ErrNotFound if missing
	// or expired.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Put inserts or replaces a session and refreshes its UpdatedAt and TTL.
	Put(ctx context.Context, s *domain.Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// New creates a blank session for a user with a fresh random id.
func New(userID string, nowMs int64) *domain.Session {
	return &domain.Session{
		SessionID: idhash.NewRandomID(),
		UserID:    userID,
		CreatedAt: nowMs,
		UpdatedAt: nowMs,
	}
}
