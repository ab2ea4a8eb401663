package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Well-known role names seeded at startup.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Common role validation errors
var (
	ErrEmptyRoleID   = errors.New("role ID cannot be empty")
	ErrEmptyRoleName = errors.New("role name cannot be empty")
)

// Role is a named grant referenced by zero or more users. Immutable
// after creation except for rename.
type Role struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewRole creates a Role with a fresh ID.
func NewRole(name string) (*Role, error) {
	role := &Role{
		ID:   uuid.New(),
		Name: name,
	}

	if err := role.Validate(); err != nil {
		return nil, err
	}

	return role, nil
}

// Validate checks the role's fields.
func (r *Role) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRoleID
	}

	if r.Name == "" {
		return ErrEmptyRoleName
	}

	return nil
}
