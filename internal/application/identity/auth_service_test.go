package identity

import (
	"context"
	"testing"
	"time"

	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/infrastructure/auth"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "Blue-Harbor-42"

type authFixture struct {
	svc       *AuthService
	users     *MockUserRepository
	tokens    *MockConfirmTokenRepository
	mailer    *MockConfirmationSender
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
}

func newAuthFixture(cfg AuthServiceConfig) *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		tokens:    new(MockConfirmTokenRepository),
		mailer:    new(MockConfirmationSender),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "a-test-secret-that-is-long-enough-123",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "shop-backend-test",
			MaxRefreshCount:        5,
		}),
	}
	f.svc = NewAuthService(f.users, f.tokens, f.jwt, f.blacklist, f.mailer, cfg, zap.NewNop())
	return f
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		FirstName: "Anna",
		LastName:  "Smirnova",
		Email:     "Anna@Example.com",
		Password:  testPassword,
		Company:   "Acme",
		Position:  "Buyer",
	}
}

func activeUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("anna@example.com", "Anna", "Smirnova", "Acme", "Buyer", identity.UserTypeBuyer)
	require.NoError(t, err)
	require.NoError(t, user.SetPassword(testPassword))
	require.NoError(t, user.Activate())
	user.ClearDomainEvents()
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates inactive user and sends confirmation", func(t *testing.T) {
		cfg := DefaultAuthServiceConfig()
		cfg.ReturnConfirmToken = true
		f := newAuthFixture(cfg)

		f.users.On("ExistsByEmail", ctx, "anna@example.com").Return(false, nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		f.tokens.On("Save", ctx, mock.AnythingOfType("*identity.ConfirmEmailToken")).Return(nil)
		f.mailer.On("SendConfirmation", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.Register(ctx, validRegistration())
		require.NoError(t, err)
		assert.Equal(t, "anna@example.com", result.User.Email)
		assert.Equal(t, "buyer", result.User.Type)
		assert.False(t, result.User.IsActive)
		assert.Len(t, result.ConfirmToken, 48)
		f.mailer.AssertExpectations(t)
	})

	t.Run("token is hidden by default", func(t *testing.T) {
		f := newAuthFixture(DefaultAuthServiceConfig())
		f.users.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
		f.users.On("Create", ctx, mock.Anything).Return(nil)
		f.tokens.On("Save", ctx, mock.Anything).Return(nil)
		f.mailer.On("SendConfirmation", ctx, mock.Anything, mock.Anything).Return(assert.AnError)

		result, err := f.svc.Register(ctx, validRegistration())
		require.NoError(t, err, "mail failures do not fail registration")
		assert.Empty(t, result.ConfirmToken)
	})

	t.Run("missing field", func(t *testing.T) {
		f := newAuthFixture(DefaultAuthServiceConfig())
		req := validRegistration()
		req.Position = "  "

		_, err := f.svc.Register(ctx, req)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		f := newAuthFixture(DefaultAuthServiceConfig())
		req := validRegistration()
		req.Password = "12345678"

		_, err := f.svc.Register(ctx, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})

	t.Run("duplicate e-mail", func(t *testing.T) {
		f := newAuthFixture(DefaultAuthServiceConfig())
		f.users.On("ExistsByEmail", ctx, "anna@example.com").Return(true, nil)

		_, err := f.svc.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestAuthService_ConfirmEmail(t *testing.T) {
	ctx := context.Background()

	newInactive := func(t *testing.T) *identity.User {
		user, err := identity.NewUser("anna@example.com", "Anna", "Smirnova", "Acme", "Buyer", "")
		require.NoError(t, err)
		return user
	}

	t.Run("activates and consumes the token", func(t *testing.T) {
		f := newAuthFixture(DefaultAuthServiceConfig())
		user := newInactive(t)
		token := identity.NewConfirmEmailToken(user.ID)

		f.users.On("FindByEmail", ctx, "anna@example.com").Return(user, nil)
		f.tokens.On("FindByUserAndKey", ctx, user.ID, token.Key).Return(token, nil)
		f.users.On("Update", ctx, user).Return(nil)
		f.tokens.On("Delete", ctx, token.ID).Return(nil)

		err := f.svc.ConfirmEmail(ctx, ConfirmEmailRequest{Email: "anna@example.com", Token: token.Key})
		require.NoError(t, err)
		assert.True(t, user.IsActive)
		f.tokens.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newAuthFixture(DefaultAuthServiceConfig())
		user := newInactive(t)
		f.users.On("FindByEmail", ctx, mock.Anything).Return(user, nil)
		f.tokens.On("FindByUserAndKey", ctx, user.ID, "bogus").Return(nil, shared.ErrNotFound)

		err := f.svc.ConfirmEmail(ctx, ConfirmEmailRequest{Email: "anna@example.com", Token: "bogus"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CONFIRM_TOKEN", domainErr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture(AuthServiceConfig{ConfirmTokenTTL: time.Hour})
		user := newInactive(t)
		token := identity.NewConfirmEmailToken(user.ID)
		token.CreatedAt = time.Now().Add(-2 * time.Hour)

		f.users.On("FindByEmail", ctx, mock.Anything).Return(user, nil)
		f.tokens.On("FindByUserAndKey", ctx, user.ID, token.Key).Return(token, nil)
		f.tokens.On("Delete", ctx, token.ID).Return(nil)

		err := f.svc.ConfirmEmail(ctx, ConfirmEmailRequest{Email: "anna@example.com", Token: token.Key})
		assert.Error(t, err)
		assert.False(t, user.IsActive)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues tokens", func(t *testing.T) {
		f := newAuthFixture(DefaultAuthServiceConfig())
		user := activeUser(t)
		f.users.On("FindByEmail", ctx, "anna@example.com").Return(user, nil)

		result, err := f.svc.Login(ctx, LoginRequest{Email: "anna@example.com", Password: testPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "Bearer", result.TokenType)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "buyer", claims.UserType)
	})

	failures := map[string]func(t *testing.T, f *authFixture) LoginRequest{
		"wrong password": func(t *testing.T, f *authFixture) LoginRequest {
			f.users.On("FindByEmail", ctx, mock.Anything).Return(activeUser(t), nil)
			return LoginRequest{Email: "anna@example.com", Password: "nope"}
		},
		"inactive user": func(t *testing.T, f *authFixture) LoginRequest {
			user, err := identity.NewUser("anna@example.com", "Anna", "Smirnova", "Acme", "Buyer", "")
			require.NoError(t, err)
			require.NoError(t, user.SetPassword(testPassword))
			f.users.On("FindByEmail", ctx, mock.Anything).Return(user, nil)
			return LoginRequest{Email: "anna@example.com", Password: testPassword}
		},
		"unknown e-mail": func(t *testing.T, f *authFixture) LoginRequest {
			f.users.On("FindByEmail", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
			return LoginRequest{Email: "ghost@example.com", Password: testPassword}
		},
	}
	for name, setup := range failures {
		t.Run(name, func(t *testing.T) {
			f := newAuthFixture(DefaultAuthServiceConfig())
			_, err := f.svc.Login(ctx, setup(t, f))
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "LOGIN_FAILED", domainErr.Code)
		})
	}
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(DefaultAuthServiceConfig())
	user := activeUser(t)
	f.users.On("FindByEmail", ctx, mock.Anything).Return(user, nil)
	f.users.On("FindByID", ctx, user.ID).Return(user, nil)

	login, err := f.svc.Login(ctx, LoginRequest{Email: user.Email, Password: testPassword})
	require.NoError(t, err)

	t.Run("refresh issues a new pair", func(t *testing.T) {
		pair, err := f.svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, RefreshRequest{RefreshToken: login.AccessToken})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("logout revokes the access token", func(t *testing.T) {
		claims, err := f.jwt.ValidateAccessToken(login.AccessToken)
		require.NoError(t, err)

		err = f.svc.Logout(ctx, LogoutInput{UserID: user.ID, TokenJTI: claims.ID, ExpiresIn: claims.GetRemainingTTL()})
		require.NoError(t, err)

		revoked, err := f.blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
