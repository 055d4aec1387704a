package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserType distinguishes buyers from shop (partner) accounts
type UserType string

const (
	UserTypeBuyer UserType = "buyer"
	UserTypeShop  UserType = "shop"
)

// IsValid reports whether the type is a known user type
func (t UserType) IsValid() bool {
	return t == UserTypeBuyer || t == UserTypeShop
}

// Password cost for bcrypt
const bcryptCost = 12

const maxNameLength = 40

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an account that logs in with its e-mail address.
// New users stay inactive until they confirm the e-mail.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Company      string
	Position     string
	Type         UserType
	IsActive     bool
}

// ProfileUpdate carries optional profile changes; nil fields are left as is
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Company   *string
	Position  *string
	Type      *UserType
}

// NewUser creates an inactive user. The password is set separately after policy checks.
func NewUser(email, firstName, lastName, company, position string, userType UserType) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if userType == "" {
		userType = UserTypeBuyer
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type must be 'shop' or 'buyer'")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Type:              userType,
	}
	if err := user.setNames(firstName, lastName, company, position); err != nil {
		return nil, err
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

func (u *User) setNames(firstName, lastName, company, position string) error {
	fields := []struct {
		name  string
		value string
		dst   *string
	}{
		{"first_name", firstName, &u.FirstName},
		{"last_name", lastName, &u.LastName},
		{"company", company, &u.Company},
		{"position", position, &u.Position},
	}
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return shared.NewDomainError("INVALID_INPUT", f.name+" is required")
		}
		if len([]rune(v)) > maxNameLength {
			return shared.NewDomainError("INVALID_INPUT", f.name+" cannot exceed 40 characters")
		}
		*f.dst = v
	}
	return nil
}

// SetPassword hashes and stores a password. Callers run ValidatePassword first.
func (u *User) SetPassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Activate marks the e-mail as confirmed
func (u *User) Activate() error {
	if u.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.IsActive = true
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserActivatedEvent(u))
	return nil
}

// UpdateProfile applies a partial profile update
func (u *User) UpdateProfile(upd ProfileUpdate) error {
	firstName, lastName, company, position := u.FirstName, u.LastName, u.Company, u.Position
	if upd.FirstName != nil {
		firstName = *upd.FirstName
	}
	if upd.LastName != nil {
		lastName = *upd.LastName
	}
	if upd.Company != nil {
		company = *upd.Company
	}
	if upd.Position != nil {
		position = *upd.Position
	}
	if err := u.setNames(firstName, lastName, company, position); err != nil {
		return err
	}
	if upd.Type != nil {
		if !upd.Type.IsValid() {
			return shared.NewDomainError("INVALID_USER_TYPE", "User type must be 'shop' or 'buyer'")
		}
		u.Type = *upd.Type
	}
	u.Touch()
	u.IncrementVersion()
	return nil
}

// IsShop returns true for partner accounts
func (u *User) IsShop() bool {
	return u.Type == UserTypeShop
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CanLogin returns true once the e-mail has been confirmed
func (u *User) CanLogin() bool {
	return u.IsActive
}

// ConfirmEmailToken is a single-use key that activates a user
type ConfirmEmailToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Key       string
	CreatedAt time.Time
}

// NewConfirmEmailToken creates a token for the user with a random key
func NewConfirmEmailToken(userID uuid.UUID) *ConfirmEmailToken {
	return &ConfirmEmailToken{
		ID:        uuid.New(),
		UserID:    userID,
		Key:       generateTokenKey(),
		CreatedAt: time.Now(),
	}
}

// IsExpired reports whether the token is older than ttl. A zero ttl never expires.
func (t *ConfirmEmailToken) IsExpired(ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return time.Since(t.CreatedAt) > ttl
}

// generateTokenKey returns 48 hex characters built from random UUIDs
func generateTokenKey() string {
	a := uuid.New()
	b := uuid.New()
	key := strings.ReplaceAll(a.String()+b.String(), "-", "")
	return key[:48]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
