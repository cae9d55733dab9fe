package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
	"strategy-studio/internal/storage/postgres"
)

func TestUserStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewUserStore(pool)
	ctx := context.Background()

	user := &domain.User{
		UserID:     "user-001",
		Email:      "Alex@Example.com",
		Name:       "Alex",
		Experience: domain.ExperienceIntermediate,
		CreatedAt:  1700000000000,
	}
	require.NoError(t, store.Insert(ctx, user))

	retrieved, err := store.GetByID(ctx, "user-001")
	require.NoError(t, err)
	assert.Equal(t, "user-001", retrieved.UserID)
	assert.Equal(t, "alex@example.com", retrieved.Email)
	assert.Equal(t, "Alex", retrieved.Name)
	assert.Equal(t, domain.ExperienceIntermediate, retrieved.Experience)
}

func TestUserStore_GetByEmailCaseInsensitive(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewUserStore(pool)
	ctx := context.Background()

	user := &domain.User{
		UserID:    "user-002",
		Email:     "trader@example.com",
		Name:      "Trader",
		CreatedAt: 1700000000000,
	}
	require.NoError(t, store.Insert(ctx, user))

	retrieved, err := store.GetByEmail(ctx, "TRADER@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-002", retrieved.UserID)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewUserStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &domain.User{
		UserID: "user-a", Email: "same@example.com", CreatedAt: 1,
	}))

	err := store.Insert(ctx, &domain.User{
		UserID: "user-b", Email: "same@example.com", CreatedAt: 2,
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestUserStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewUserStore(pool)
	ctx := context.Background()

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
