package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewContact(t *testing.T) {
	userID := uuid.New()

	t.Run("creates contact with required fields", func(t *testing.T) {
		c, err := NewContact(userID, ContactFields{
			City:   strPtr(" Moscow "),
			Street: strPtr("Tverskaya"),
			House:  strPtr("1"),
			Phone:  strPtr("+79990000000"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Moscow", c.City)
		assert.True(t, c.BelongsTo(userID))
		assert.False(t, c.BelongsTo(uuid.New()))
	})

	t.Run("requires phone", func(t *testing.T) {
		_, err := NewContact(userID, ContactFields{City: strPtr("Moscow"), Street: strPtr("Tverskaya")})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "phone is required")
	})

	t.Run("requires user", func(t *testing.T) {
		_, err := NewContact(uuid.Nil, ContactFields{})
		assert.Error(t, err)
	})
}

func TestContact_Update(t *testing.T) {
	c, err := NewContact(uuid.New(), ContactFields{City: strPtr("Moscow"), Street: strPtr("Arbat"), Phone: strPtr("123")})
	require.NoError(t, err)

	require.NoError(t, c.Update(ContactFields{City: strPtr("New City")}))
	assert.Equal(t, "New City", c.City)
	assert.Equal(t, "Arbat", c.Street)

	err = c.Update(ContactFields{Apartment: strPtr(strings.Repeat("9", 16))})
	assert.Error(t, err)
	assert.Empty(t, c.Apartment)
}
