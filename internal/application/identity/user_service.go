package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// UserService manages the caller's own profile
type UserService struct {
	userRepo identity.UserRepository
	policy   identity.PasswordPolicy
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, passwordMinLength int, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		policy:   identity.NewPasswordPolicy(passwordMinLength),
		logger:   logger,
	}
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// UpdateProfile applies partial changes. A new password must pass the policy.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	upd := identity.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Position:  req.Position,
	}
	if req.Type != nil {
		t := identity.UserType(*req.Type)
		upd.Type = &t
	}
	if err := user.UpdateProfile(upd); err != nil {
		return nil, err
	}

	if req.Password != nil {
		if err := s.policy.Validate(*req.Password, user.Email, user.FirstName, user.LastName); err != nil {
			return nil, err
		}
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}
