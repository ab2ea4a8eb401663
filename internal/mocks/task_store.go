package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	CreateFn           func(ctx context.Context, task *domain.Task) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListAllFn          func(ctx context.Context) ([]*domain.Task, error)
	ListByStatusFn     func(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)
	ListByCategoryFn   func(ctx context.Context, category string) ([]*domain.Task, error)
	ListByUserFn       func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	ListByPriorityFn   func(ctx context.Context, priority int) ([]*domain.Task, error)
	ListOverdueFn      func(ctx context.Context, now time.Time) ([]*domain.Task, error)
	ListCreatedAfterFn func(ctx context.Context, after time.Time) ([]*domain.Task, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error

	// Data for the default in-memory implementation, keyed by task ID.
	Tasks map[uuid.UUID]*domain.Task

	// Call counters for write paths, for no-write assertions.
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.CreateCalls++

	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, ok := m.Tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// listWhere collects tasks matching the predicate, newest first.
func (m *MockTaskStore) listWhere(match func(*domain.Task) bool) []*domain.Task {
	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if match(task) {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

// ListAll implements the TaskStore interface
func (m *MockTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return m.listWhere(func(*domain.Task) bool { return true }), nil
}

// ListByStatus implements the TaskStore interface
func (m *MockTaskStore) ListByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return m.listWhere(func(t *domain.Task) bool { return t.Status == status }), nil
}

// ListByCategory implements the TaskStore interface
func (m *MockTaskStore) ListByCategory(ctx context.Context, category string) ([]*domain.Task, error) {
	if m.ListByCategoryFn != nil {
		return m.ListByCategoryFn(ctx, category)
	}
	return m.listWhere(func(t *domain.Task) bool { return t.Category == category }), nil
}

// ListByUser implements the TaskStore interface
func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return m.listWhere(func(t *domain.Task) bool { return t.UserID == userID }), nil
}

// ListByPriority implements the TaskStore interface
func (m *MockTaskStore) ListByPriority(ctx context.Context, priority int) ([]*domain.Task, error) {
	if m.ListByPriorityFn != nil {
		return m.ListByPriorityFn(ctx, priority)
	}
	return m.listWhere(func(t *domain.Task) bool { return t.Priority == priority }), nil
}

// ListOverdue implements the TaskStore interface
func (m *MockTaskStore) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	if m.ListOverdueFn != nil {
		return m.ListOverdueFn(ctx, now)
	}
	return m.listWhere(func(t *domain.Task) bool { return t.IsOverdue(now) }), nil
}

// ListCreatedAfter implements the TaskStore interface
func (m *MockTaskStore) ListCreatedAfter(ctx context.Context, after time.Time) ([]*domain.Task, error) {
	if m.ListCreatedAfterFn != nil {
		return m.ListCreatedAfterFn(ctx, after)
	}
	return m.listWhere(func(t *domain.Task) bool { return t.CreatedAt.After(after) }), nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.UpdateCalls++

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if _, ok := m.Tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// Delete implements the TaskStore interface. The default cascades to
// sub-tasks the way the real store's schema does.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalls++

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, ok := m.Tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	for childID, task := range m.Tasks {
		if task.ParentTaskID != nil && *task.ParentTaskID == id {
			delete(m.Tasks, childID)
		}
	}
	return nil
}

// WithTx implements the TaskStore interface; the mock has no real
// transactions, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
