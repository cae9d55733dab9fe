// Package auth is a stub authenticator. Any non-empty credentials log in as
// a fixed demo user after a short artificial delay, the way the storefront
// mock did. Tokens are opaque random ids backed by the session store, so the
// rest of the API can resolve them without knowing auth is fake.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/session"
	"strategy-studio/internal/storage"
)

// ErrInvalidCredentials is returned for empty email or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a token resolves to no session.
var ErrInvalidToken = errors.New("invalid or expired token")

// Demo user constants. Every login resolves to this account.
const (
	demoUserID = "demo-user-0001"
	demoName   = "Demo Trader"
)

// Authenticator issues and resolves login tokens.
type Authenticator struct {
	users    storage.UserStore
	sessions session.Store
	delay    time.Duration
	now      func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithLoginDelay sets the artificial login latency. Defaults to zero.
func WithLoginDelay(d time.Duration) Option {
	return func(a *Authenticator) {
		a.delay = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// New creates an Authenticator.
func New(users storage.UserStore, sessions session.Store, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login accepts any non-empty credentials and returns the demo user with a
// fresh opaque token. The user record is created on first login.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, "", fmt.Errorf("login: %w", ctx.Err())
		}
	}

	user, err := a.ensureDemoUser(ctx, email)
	if err != nil {
		return nil, "", err
	}

	sess := session.New(user.UserID, a.now().UnixMilli())
	if err := a.sessions.Put(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("login: store session: %w", err)
	}

	// The session id doubles as the opaque login token.
	return user, sess.SessionID, nil
}

// Resolve maps a token back to its user. Returns ErrInvalidToken when the
// session is missing or expired.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	if token == "" {
		return nil, nil, ErrInvalidToken
	}

	sess, err := a.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("resolve token: %w", err)
	}

	user, err := a.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("resolve token: %w", err)
	}

	return user, sess, nil
}

// Logout discards the token's session. Unknown tokens are ignored.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.sessions.Delete(ctx, token)
}

// ensureDemoUser returns the fixed demo account, creating it on first use.
// The stored email is whatever the caller logged in with, mirroring the mock
// client that echoed the typed email back.
func (a *Authenticator) ensureDemoUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := a.users.GetByID(ctx, demoUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup demo user: %w", err)
	}

	user = &domain.User{
		UserID:     demoUserID,
		Email:      strings.ToLower(email),
		Name:       demoName,
		Experience: domain.ExperienceBeginner,
		CreatedAt:  a.now().UnixMilli(),
	}
	if err := a.users.Insert(ctx, user); err != nil {
		// A concurrent first login may have won the insert.
		if errors.Is(err, storage.ErrDuplicateKey) {
			return a.users.GetByID(ctx, demoUserID)
		}
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	return user, nil
}
