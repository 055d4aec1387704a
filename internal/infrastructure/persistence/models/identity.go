package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/identity"
)

// UserModel maps users
type UserModel struct {
	AggregateModel
	Email        string            `gorm:"type:varchar(254);not null;uniqueIndex:uq_users_email"`
	PasswordHash string            `gorm:"type:varchar(255);not null"`
	FirstName    string            `gorm:"type:varchar(40);not null"`
	LastName     string            `gorm:"type:varchar(40);not null"`
	Company      string            `gorm:"type:varchar(40);not null"`
	Position     string            `gorm:"type:varchar(40);not null"`
	Type         identity.UserType `gorm:"type:varchar(5);not null;default:'buyer'"`
	IsActive     bool              `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregate(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Company:           m.Company,
		Position:          m.Position,
		Type:              m.Type,
		IsActive:          m.IsActive,
	}
}

// UserModelFromDomain builds a model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Company:      u.Company,
		Position:     u.Position,
		Type:         u.Type,
		IsActive:     u.IsActive,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// ConfirmEmailTokenModel maps confirm_email_tokens
type ConfirmEmailTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_confirm_tokens_user"`
	Key       string    `gorm:"column:token_key;type:varchar(64);not null;uniqueIndex:uq_confirm_tokens_key"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConfirmEmailTokenModel) TableName() string {
	return "confirm_email_tokens"
}

// ToDomain converts to a domain ConfirmEmailToken
func (m *ConfirmEmailTokenModel) ToDomain() *identity.ConfirmEmailToken {
	return &identity.ConfirmEmailToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Key:       m.Key,
		CreatedAt: m.CreatedAt,
	}
}

// ConfirmEmailTokenModelFromDomain builds a model from a domain token
func ConfirmEmailTokenModelFromDomain(t *identity.ConfirmEmailToken) *ConfirmEmailTokenModel {
	return &ConfirmEmailTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Key:       t.Key,
		CreatedAt: t.CreatedAt,
	}
}

// ContactModel maps contacts
type ContactModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_contacts_user"`
	City      string    `gorm:"type:varchar(50);not null"`
	Street    string    `gorm:"type:varchar(100);not null"`
	House     string    `gorm:"type:varchar(15)"`
	Structure string    `gorm:"type:varchar(15)"`
	Building  string    `gorm:"type:varchar(15)"`
	Apartment string    `gorm:"type:varchar(15)"`
	Phone     string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts to a domain Contact
func (m *ContactModel) ToDomain() *identity.Contact {
	return &identity.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		City:       m.City,
		Street:     m.Street,
		House:      m.House,
		Structure:  m.Structure,
		Building:   m.Building,
		Apartment:  m.Apartment,
		Phone:      m.Phone,
	}
}

// ContactModelFromDomain builds a model from a domain Contact
func ContactModelFromDomain(c *identity.Contact) *ContactModel {
	m := &ContactModel{
		UserID:    c.UserID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
