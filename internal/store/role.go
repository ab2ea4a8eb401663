package store

import (
	"context"
	"database/sql"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/google/uuid"
)

// RoleStore defines the interface for role data persistence.
type RoleStore interface {
	// Create saves a new role.
	// Returns ErrRoleNameExists if the name is already taken.
	Create(ctx context.Context, role *domain.Role) error

	// GetByID retrieves a role by its unique ID.
	// Returns ErrRoleNotFound if the role does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)

	// GetByName retrieves a role by its unique name.
	// Returns ErrRoleNotFound if the role does not exist.
	GetByName(ctx context.Context, name string) (*domain.Role, error)

	// Rename changes a role's name, the only mutation roles support.
	// Returns ErrRoleNotFound if the role does not exist and
	// ErrRoleNameExists if the new name is taken.
	Rename(ctx context.Context, id uuid.UUID, name string) error

	// WithTx returns a RoleStore bound to the provided transaction.
	WithTx(tx *sql.Tx) RoleStore
}
