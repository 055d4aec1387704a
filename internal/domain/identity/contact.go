package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/shared"
)

// Contact is a buyer's delivery address and phone
type Contact struct {
	shared.BaseEntity
	UserID    uuid.UUID
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// ContactFields holds the editable fields; nil pointers mean "unchanged"
type ContactFields struct {
	City      *string
	Street    *string
	House     *string
	Structure *string
	Building  *string
	Apartment *string
	Phone     *string
}

var contactLimits = map[string]int{
	"city":      50,
	"street":    100,
	"house":     15,
	"structure": 15,
	"building":  15,
	"apartment": 15,
	"phone":     20,
}

// NewContact creates a contact; city, street and phone are required
func NewContact(userID uuid.UUID, fields ContactFields) (*Contact, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	c := &Contact{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
	if err := c.Update(fields); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial change and re-validates the result
func (c *Contact) Update(fields ContactFields) error {
	next := *c
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&next.City, fields.City)
	assign(&next.Street, fields.Street)
	assign(&next.House, fields.House)
	assign(&next.Structure, fields.Structure)
	assign(&next.Building, fields.Building)
	assign(&next.Apartment, fields.Apartment)
	assign(&next.Phone, fields.Phone)

	if err := next.validate(); err != nil {
		return err
	}
	next.Touch()
	*c = next
	return nil
}

// BelongsTo reports whether the contact is owned by the user
func (c *Contact) BelongsTo(userID uuid.UUID) bool {
	return c.UserID == userID
}

func (c *Contact) validate() error {
	required := []struct{ name, value string }{{"city", c.City}, {"street", c.Street}, {"phone", c.Phone}}
	for _, f := range required {
		if f.value == "" {
			return shared.NewDomainError("INVALID_CONTACT", f.name+" is required")
		}
	}
	values := map[string]string{
		"city": c.City, "street": c.Street, "house": c.House, "structure": c.Structure,
		"building": c.Building, "apartment": c.Apartment, "phone": c.Phone,
	}
	for name, v := range values {
		if len([]rune(v)) > contactLimits[name] {
			return shared.NewDomainError("INVALID_CONTACT", name+" is too long")
		}
	}
	return nil
}
