package models

import (
	"fmt"
	"strings"

	"github.com/amosley/joinboard/internal/shared"
)

// Contact represents an address book entry owned by exactly one user.
type Contact struct {
	base
	ownerUserID string
	name        string
	email       string
	phone       string
	initials    string
	color       string
}

// NewContact creates a Contact owned by the given user, with initials derived
// from the name. Explicit initials from legacy data can be restored with
// [Contact.SetInitials].
func NewContact(sequence int, ownerUserID, name string) *Contact {
	return &Contact{
		base:        newBase(sequence),
		ownerUserID: ownerUserID,
		name:        name,
		initials:    shared.DeriveInitials(name),
	}
}

func (c *Contact) OwnerUserID() string { return c.ownerUserID }
func (c *Contact) Name() string        { return c.name }
func (c *Contact) Email() string       { return c.email }
func (c *Contact) Phone() string       { return c.phone }
func (c *Contact) Initials() string    { return c.initials }
func (c *Contact) Color() string       { return c.color }

// SetName updates the name and recomputes initials.
func (c *Contact) SetName(name string) {
	c.name = name
	c.initials = shared.DeriveInitials(name)
}

func (c *Contact) SetOwnerUserID(id string)    { c.ownerUserID = id }
func (c *Contact) SetEmail(email string)       { c.email = email }
func (c *Contact) SetPhone(phone string)       { c.phone = phone }
func (c *Contact) SetInitials(initials string) { c.initials = initials }
func (c *Contact) SetColor(color string)       { c.color = color }

// Validate checks required fields.
func (c *Contact) Validate() error {
	if c.ownerUserID == "" {
		return fmt.Errorf("%w: contact owner is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(c.name) == "" {
		return fmt.Errorf("%w: contact name is required", shared.ErrInvalidInput)
	}
	return nil
}
