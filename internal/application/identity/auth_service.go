package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	ConfirmTokenTTL    time.Duration // Zero keeps tokens valid until used
	ReturnConfirmToken bool          // Echo the confirmation key in the register result
	PasswordMinLength  int
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		ConfirmTokenTTL:   72 * time.Hour,
		PasswordMinLength: identity.DefaultPasswordMinLength,
	}
}

// ConfirmationSender delivers the e-mail confirmation key to a new user
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, user *identity.User, token *identity.ConfirmEmailToken) error
}

// AuthService handles registration, e-mail confirmation and token issuing
type AuthService struct {
	userRepo       identity.UserRepository
	tokenRepo      identity.ConfirmTokenRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	mailer         ConfirmationSender
	eventPublisher shared.EventPublisher
	policy         identity.PasswordPolicy
	config         AuthServiceConfig
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	tokenRepo identity.ConfirmTokenRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer ConfirmationSender,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		mailer:     mailer,
		policy:     identity.NewPasswordPolicy(config.PasswordMinLength),
		config:     config,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for user events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates an inactive user and sends the confirmation key
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	required := []string{req.FirstName, req.LastName, req.Email, req.Password, req.Company, req.Position}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Required fields missing")
		}
	}

	user, err := identity.NewUser(req.Email, req.FirstName, req.LastName, req.Company, req.Position, identity.UserType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := s.policy.Validate(req.Password, user.Email, user.FirstName, user.LastName); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "A user with this email already exists")
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "A user with this email already exists")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}

	token := identity.NewConfirmEmailToken(user.ID)
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		s.logger.Error("Failed to save confirmation token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendConfirmation(ctx, user, token); err != nil {
			s.logger.Warn("Failed to send confirmation e-mail", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
	s.publishEvents(ctx, user)

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("type", string(user.Type)))

	result := &RegisterResult{User: ToUserInfo(user)}
	if s.config.ReturnConfirmToken {
		result.ConfirmToken = token.Key
	}
	return result, nil
}

// ConfirmEmail activates the user owning the token; the token is consumed
func (s *AuthService) ConfirmEmail(ctx context.Context, req ConfirmEmailRequest) error {
	invalid := shared.NewDomainError("INVALID_CONFIRM_TOKEN", "Invalid email or token")

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return invalid
		}
		return err
	}

	token, err := s.tokenRepo.FindByUserAndKey(ctx, user.ID, strings.TrimSpace(req.Token))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return invalid
		}
		return err
	}

	if token.IsExpired(s.config.ConfirmTokenTTL) {
		if err := s.tokenRepo.Delete(ctx, token.ID); err != nil {
			s.logger.Warn("Failed to delete expired token", zap.Error(err))
		}
		return shared.NewDomainError("INVALID_CONFIRM_TOKEN", "Confirmation token has expired")
	}

	if !user.IsActive {
		if err := user.Activate(); err != nil {
			return err
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
	}
	if err := s.tokenRepo.Delete(ctx, token.ID); err != nil {
		return err
	}

	s.publishEvents(ctx, user)
	s.logger.Info("User e-mail confirmed", zap.String("user_id", user.ID.String()))
	return nil
}

// Login authenticates an active user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	failed := shared.NewDomainError("LOGIN_FAILED", "Failed to log in")

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown e-mail")
			return nil, failed
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, failed
	}
	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account", zap.String("user_id", user.ID.String()))
		return nil, failed
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: string(user.Type),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{TokenResult: toTokenResult(pair), User: ToUserInfo(user)}, nil
}

// Refresh exchanges a refresh token for a new pair while the user stays active
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidToken)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, tokenError(auth.ErrInvalidToken)
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, _, err := s.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))
	result := toTokenResult(pair)
	return &result, nil
}

// Logout revokes the access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil || input.TokenJTI == "" || input.ExpiresIn <= 0 {
		s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.ExpiresIn); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	s.logger.Info("User logged out, token revoked", zap.String("user_id", input.UserID.String()))
	return nil
}

func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}

func toTokenResult(pair *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

// tokenError maps JWT failures to domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
