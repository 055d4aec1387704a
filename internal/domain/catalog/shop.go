package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/shared"
)

const maxShopNameLength = 50

// Shop is a partner that publishes a price list and receives orders.
// State reports whether the shop currently accepts orders.
type Shop struct {
	shared.BaseAggregateRoot
	Name   string
	URL    string
	UserID *uuid.UUID
	State  bool
}

// NewShop creates an active shop owned by the given user
func NewShop(name, url string, userID uuid.UUID) (*Shop, error) {
	name = strings.TrimSpace(name)
	if err := validateShopName(name); err != nil {
		return nil, err
	}
	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		URL:               url,
		UserID:            &userID,
		State:             true,
	}, nil
}

// SetState toggles order acceptance
func (s *Shop) SetState(state bool) {
	if s.State == state {
		return
	}
	s.State = state
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewShopStateChangedEvent(s))
}

// UpdateURL records the location of the latest price list
func (s *Shop) UpdateURL(url string) {
	s.URL = url
	s.Touch()
	s.IncrementVersion()
}

// IsOwnedBy reports whether the user owns the shop
func (s *Shop) IsOwnedBy(userID uuid.UUID) bool {
	return s.UserID != nil && *s.UserID == userID
}

func validateShopName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	if len([]rune(name)) > maxShopNameLength {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot exceed 50 characters")
	}
	return nil
}
