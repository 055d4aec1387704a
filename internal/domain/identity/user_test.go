package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser("Buyer@Example.com", "Ivan", "Petrov", "Acme", "Manager", "")
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates inactive buyer with normalized email", func(t *testing.T) {
		user := newTestUser(t)

		assert.Equal(t, "buyer@example.com", user.Email)
		assert.Equal(t, UserTypeBuyer, user.Type)
		assert.False(t, user.IsActive)
		assert.False(t, user.CanLogin())
		assert.Equal(t, 1, user.GetVersion())

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserRegisteredEvent)
		assert.True(t, ok)
	})

	t.Run("creates shop user", func(t *testing.T) {
		user, err := NewUser("shop@example.com", "A", "B", "C", "D", UserTypeShop)
		require.NoError(t, err)
		assert.True(t, user.IsShop())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "A", "B", "C", "D", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email")
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewUser("a@example.com", "A", "B", "C", "D", UserType("admin"))
		assert.Error(t, err)
	})

	t.Run("rejects missing names", func(t *testing.T) {
		_, err := NewUser("a@example.com", "", "B", "C", "D", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "first_name is required")
	})

	t.Run("rejects long company", func(t *testing.T) {
		_, err := NewUser("a@example.com", "A", "B", strings.Repeat("x", 41), "D", "")
		assert.Error(t, err)
	})
}

func TestUser_Password(t *testing.T) {
	user := newTestUser(t)

	require.NoError(t, user.SetPassword("Sup3rSecret!"))
	assert.NotEmpty(t, user.PasswordHash)
	assert.True(t, user.VerifyPassword("Sup3rSecret!"))
	assert.False(t, user.VerifyPassword("wrong"))

	assert.Error(t, user.SetPassword(""))
}

func TestUser_Activate(t *testing.T) {
	user := newTestUser(t)
	user.ClearDomainEvents()

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
	require.Len(t, user.GetDomainEvents(), 1)

	err := user.Activate()
	assert.Error(t, err)
}

func TestUser_UpdateProfile(t *testing.T) {
	user := newTestUser(t)

	company := "NewCo"
	shop := UserTypeShop
	require.NoError(t, user.UpdateProfile(ProfileUpdate{Company: &company, Type: &shop}))
	assert.Equal(t, "NewCo", user.Company)
	assert.Equal(t, "Ivan", user.FirstName)
	assert.True(t, user.IsShop())

	empty := " "
	err := user.UpdateProfile(ProfileUpdate{LastName: &empty})
	assert.Error(t, err)
	assert.Equal(t, "Petrov", user.LastName)
}

func TestConfirmEmailToken(t *testing.T) {
	userID := uuid.New()
	token := NewConfirmEmailToken(userID)

	assert.Equal(t, userID, token.UserID)
	assert.Len(t, token.Key, 48)
	assert.NotEqual(t, token.Key, NewConfirmEmailToken(userID).Key)

	assert.False(t, token.IsExpired(time.Hour))
	assert.False(t, token.IsExpired(0))

	token.CreatedAt = time.Now().Add(-2 * time.Hour)
	assert.True(t, token.IsExpired(time.Hour))
}
