package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by e-mail (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an e-mail is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ConfirmTokenRepository persists e-mail confirmation tokens
type ConfirmTokenRepository interface {
	// Save stores a token, replacing any previous token of the same user
	Save(ctx context.Context, token *ConfirmEmailToken) error

	// FindByUserAndKey finds the token with the given key belonging to the user
	FindByUserAndKey(ctx context.Context, userID uuid.UUID, key string) (*ConfirmEmailToken, error)

	// FindByUserID finds the current token of a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*ConfirmEmailToken, error)

	// Delete removes a token
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository persists buyer contacts
type ContactRepository interface {
	Save(ctx context.Context, contact *Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Contact, error)
	// DeleteForUser deletes the listed contacts owned by the user and returns the number removed
	DeleteForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}
