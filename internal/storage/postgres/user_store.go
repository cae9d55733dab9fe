package postgres

import (
	"context"
	"fmt"
	"strings"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// UserStore implements storage.UserStore using PostgreSQL.
type UserStore struct {
	pool *Pool
}

// NewUserStore creates a new UserStore.
func NewUserStore(pool *Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

// Insert adds a new user. Returns ErrDuplicateKey if the id or email exists.
func (s *UserStore) Insert(ctx context.Context, user *domain.User) error {
	if user == nil || user.UserID == "" || user.Email == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO users (user_id, email, name, experience_level, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		user.UserID,
		strings.ToLower(user.Email),
		user.Name,
		string(user.Experience),
		user.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, experience_level, created_at
		FROM users
		WHERE user_id = $1
	`

	var user domain.User
	var experience string
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&experience,
		&user.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	user.Experience = domain.ExperienceLevel(experience)
	return &user, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, experience_level, created_at
		FROM users
		WHERE email = $1
	`

	var user domain.User
	var experience string
	err := s.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&experience,
		&user.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	user.Experience = domain.ExperienceLevel(experience)
	return &user, nil
}
