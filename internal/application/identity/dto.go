package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/identity"
)

// RegisterRequest is the sign-up form. Fields are checked by the service so that
// a missing field yields one "required fields missing" error.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Type      string `json:"type"`
}

// RegisterResult is returned after a successful sign-up
type RegisterResult struct {
	User UserInfo `json:"user"`
	// ConfirmToken is only set when the deployment echoes confirmation keys
	ConfirmToken string `json:"confirm_token,omitempty"`
}

// ConfirmEmailRequest activates an account
type ConfirmEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Token string `json:"token" binding:"required"`
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResult carries an issued token pair
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResult contains the tokens and the logged in user
type LoginResult struct {
	TokenResult
	User UserInfo `json:"user"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	ExpiresIn time.Duration // remaining lifetime of the token
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"is_active"`
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Company:   u.Company,
		Position:  u.Position,
		Type:      string(u.Type),
		IsActive:  u.IsActive,
	}
}

// UpdateProfileRequest carries partial profile changes; omitted fields stay as is
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Company   *string `json:"company"`
	Position  *string `json:"position"`
	Type      *string `json:"type"`
	Password  *string `json:"password"`
}

// ContactRequest carries contact fields. Create requires city, street and phone.
type ContactRequest struct {
	City      *string `json:"city"`
	Street    *string `json:"street"`
	House     *string `json:"house"`
	Structure *string `json:"structure"`
	Building  *string `json:"building"`
	Apartment *string `json:"apartment"`
	Phone     *string `json:"phone"`
}

func (r ContactRequest) fields() identity.ContactFields {
	return identity.ContactFields{
		City:      r.City,
		Street:    r.Street,
		House:     r.House,
		Structure: r.Structure,
		Building:  r.Building,
		Apartment: r.Apartment,
		Phone:     r.Phone,
	}
}

// UpdateContactRequest identifies the contact to change
type UpdateContactRequest struct {
	ID string `json:"id"`
	ContactRequest
}

// ContactResponse is the public view of a contact
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house"`
	Structure string    `json:"structure"`
	Building  string    `json:"building"`
	Apartment string    `json:"apartment"`
	Phone     string    `json:"phone"`
}

// ToContactResponse converts a domain contact
func ToContactResponse(c *identity.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
}
