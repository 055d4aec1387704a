package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "Ivan", "Petrov", "Acme", "Buyer", identity.UserTypeBuyer)
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("Str0ng-Passw0rd!"))
	return user
}

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find by email ignoring case", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))
		user := newTestUser(t, "ivan@example.com")
		require.NoError(t, repo.Create(ctx, user))

		found, err := repo.FindByEmail(ctx, "  IVAN@example.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.False(t, found.IsActive)
		assert.True(t, found.VerifyPassword("Str0ng-Passw0rd!"))

		exists, err := repo.ExistsByEmail(ctx, "ivan@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))
		require.NoError(t, repo.Create(ctx, newTestUser(t, "dup@example.com")))

		err := repo.Create(ctx, newTestUser(t, "dup@example.com"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("update persists activation", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))
		user := newTestUser(t, "act@example.com")
		require.NoError(t, repo.Create(ctx, user))

		require.NoError(t, user.Activate())
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.IsActive)
	})

	t.Run("update of unknown user", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))
		err := repo.Update(ctx, newTestUser(t, "ghost@example.com"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormConfirmTokenRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormConfirmTokenRepository(db)
	userID := uuid.New()

	first := identity.NewConfirmEmailToken(userID)
	require.NoError(t, repo.Save(ctx, first))
	second := identity.NewConfirmEmailToken(userID)
	require.NoError(t, repo.Save(ctx, second))

	_, err := repo.FindByUserAndKey(ctx, userID, first.Key)
	assert.ErrorIs(t, err, shared.ErrNotFound, "saving a new token replaces the old one")

	found, err := repo.FindByUserAndKey(ctx, userID, second.Key)
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)

	current, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.Key, current.Key)

	require.NoError(t, repo.Delete(ctx, second.ID))
	_, err = repo.FindByUserID(ctx, userID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormContactRepository(setupTestDB(t))
	owner, stranger := uuid.New(), uuid.New()

	city, street, phone := "Moscow", "Tverskaya", "+79990001122"
	fields := identity.ContactFields{City: &city, Street: &street, Phone: &phone}

	c1, err := identity.NewContact(owner, fields)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c1))
	c2, err := identity.NewContact(owner, fields)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c2))
	foreign, err := identity.NewContact(stranger, fields)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, foreign))

	list, err := repo.FindByUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	newStreet := "Arbat"
	require.NoError(t, c1.Update(identity.ContactFields{Street: &newStreet}))
	require.NoError(t, repo.Save(ctx, c1))
	found, err := repo.FindByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arbat", found.Street)

	deleted, err := repo.DeleteForUser(ctx, owner, []uuid.UUID{c1.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "contacts of other users are untouched")

	_, err = repo.FindByID(ctx, foreign.ID)
	assert.NoError(t, err)

	deleted, err = repo.DeleteForUser(ctx, owner, nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
