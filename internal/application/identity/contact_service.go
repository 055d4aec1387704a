package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContactService manages a user's delivery contacts. Every operation is
// scoped to the caller; other users' contacts behave as missing.
type ContactService struct {
	contactRepo identity.ContactRepository
	logger      *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo identity.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, logger: logger}
}

// List returns the user's contacts
func (s *ContactService) List(ctx context.Context, userID uuid.UUID) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]ContactResponse, len(contacts))
	for i, c := range contacts {
		result[i] = ToContactResponse(c)
	}
	return result, nil
}

// Create adds a contact for the user
func (s *ContactService) Create(ctx context.Context, userID uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	contact, err := identity.NewContact(userID, req.fields())
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Update changes one of the user's contacts
func (s *ContactService) Update(ctx context.Context, userID uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "A valid contact id is required")
	}

	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Contact not found")
		}
		return nil, err
	}
	if !contact.BelongsTo(userID) {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Contact not found")
	}

	if err := contact.Update(req.fields()); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Delete removes the listed contacts of the user and returns how many were deleted
func (s *ContactService) Delete(ctx context.Context, userID uuid.UUID, rawIDs string) (int64, error) {
	ids, invalid := shared.ParseIDList(rawIDs)
	if len(invalid) > 0 || len(ids) == 0 {
		return 0, shared.NewDomainError(shared.ErrInvalidInput.Code, "items must be a comma-separated list of contact ids")
	}

	deleted, err := s.contactRepo.DeleteForUser(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Contacts deleted", zap.String("user_id", userID.String()), zap.Int64("count", deleted))
	return deleted, nil
}
