package models

import (
	"fmt"
	"strings"

	"github.com/amosley/joinboard/internal/shared"
)

// User represents an account holder. Initials are always derived from the
// name; changing the name recomputes them.
type User struct {
	base
	name         string
	initials     string
	email        string
	passwordHash string
}

// NewUser creates a User with derived initials and creation timestamps set.
func NewUser(sequence int, email, name string) *User {
	return &User{
		base:     newBase(sequence),
		name:     name,
		initials: shared.DeriveInitials(name),
		email:    email,
	}
}

func (u *User) Name() string         { return u.name }
func (u *User) Initials() string     { return u.initials }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }

// SetName updates the name and recomputes initials to stay consistent.
func (u *User) SetName(name string) {
	u.name = name
	u.initials = shared.DeriveInitials(name)
}

func (u *User) SetEmail(email string)    { u.email = email }
func (u *User) SetPasswordHash(h string) { u.passwordHash = h }

// Validate checks required fields and initials consistency.
func (u *User) Validate() error {
	if strings.TrimSpace(u.name) == "" {
		return fmt.Errorf("%w: user name is required", shared.ErrInvalidInput)
	}
	if !strings.Contains(u.email, "@") {
		return fmt.Errorf("%w: invalid email %q", shared.ErrInvalidInput, u.email)
	}
	if u.passwordHash == "" {
		return fmt.Errorf("%w: password hash is required", shared.ErrInvalidInput)
	}
	return nil
}
