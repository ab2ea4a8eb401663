package store

import (
	"context"
	"database/sql"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/google/uuid"
)

// ListParams controls pagination and ordering for list operations.
// Page is zero-based. SortField must be one of the store's whitelisted
// columns; implementations fall back to a stable default otherwise.
type ListParams struct {
	Page      int
	Size      int
	SortField string
	SortDesc  bool
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store, including any roles already
	// attached to it. The user must carry a HashedPassword.
	// Returns ErrUsernameExists or ErrEmailExists on unique violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user with their roles by unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user with their roles by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user with their roles by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns a page of users (with roles) and the total user count.
	List(ctx context.Context, params ListParams) ([]*domain.User, int, error)

	// Update modifies an existing user's username, email, hashed password
	// and update timestamp. Role attachments are not touched by this path.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrUsernameExists/ErrEmailExists on unique violations.
	Update(ctx context.Context, user *domain.User) error

	// AddRole attaches a role to a user. The operation is idempotent:
	// attaching a role the user already has is a no-op.
	// Returns ErrUserNotFound or ErrRoleNotFound when either side of the
	// attachment does not exist.
	AddRole(ctx context.Context, userID, roleID uuid.UUID) error

	// Delete removes a user by ID. The user's tasks and role attachments
	// are removed by the persistence layer's cascade rules.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByUsername reports whether a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// WithTx returns a UserStore bound to the provided transaction,
	// allowing multiple operations to execute atomically. The transaction
	// is created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
