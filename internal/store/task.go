package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines the interface for task data persistence.
// List-style methods return tasks ordered by creation time, newest
// first, and an empty slice (never an error) when nothing matches.
type TaskStore interface {
	// Create saves a new task. The caller stamps CreatedAt/UpdatedAt.
	// Returns ErrInvalidEntity if the owning user or parent task does
	// not exist (foreign key violation).
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListAll returns every task.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// ListByStatus returns tasks whose status equals the given value.
	ListByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)

	// ListByCategory returns tasks whose category equals the given value.
	ListByCategory(ctx context.Context, category string) ([]*domain.Task, error)

	// ListByUser returns tasks owned by the given user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListByPriority returns tasks whose priority equals the given value.
	ListByPriority(ctx context.Context, priority int) ([]*domain.Task, error)

	// ListOverdue returns tasks whose due date is strictly before now.
	// Tasks with no due date are not overdue and are excluded.
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// ListCreatedAfter returns tasks created strictly after the given
	// instant.
	ListCreatedAfter(ctx context.Context, after time.Time) ([]*domain.Task, error)

	// Update modifies an existing task's title, description, status,
	// category, priority, due date and update timestamp. The owning user
	// and parent task are preserved by contract.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID. Sub-tasks are removed with it: the
	// cascade is part of this contract and is enforced by the storage
	// schema, not by service logic.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
