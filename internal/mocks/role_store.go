package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/store"
)

// MockRoleStore implements store.RoleStore for testing
type MockRoleStore struct {
	CreateFn    func(ctx context.Context, role *domain.Role) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	GetByNameFn func(ctx context.Context, name string) (*domain.Role, error)
	RenameFn    func(ctx context.Context, id uuid.UUID, name string) error

	// Data for the default in-memory implementation, keyed by role ID.
	Roles map[uuid.UUID]*domain.Role
}

var _ store.RoleStore = (*MockRoleStore)(nil)

// NewMockRoleStore creates a new mock store with initialized defaults
func NewMockRoleStore() *MockRoleStore {
	return &MockRoleStore{
		Roles: make(map[uuid.UUID]*domain.Role),
	}
}

// Seed adds a role with the given name and returns it.
func (m *MockRoleStore) Seed(name string) *domain.Role {
	role := &domain.Role{ID: uuid.New(), Name: name}
	m.Roles[role.ID] = role
	return role
}

// Create implements the RoleStore interface
func (m *MockRoleStore) Create(ctx context.Context, role *domain.Role) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, role)
	}

	for _, existing := range m.Roles {
		if existing.Name == role.Name {
			return store.ErrRoleNameExists
		}
	}
	m.Roles[role.ID] = role
	return nil
}

// GetByID implements the RoleStore interface
func (m *MockRoleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	role, ok := m.Roles[id]
	if !ok {
		return nil, store.ErrRoleNotFound
	}
	return role, nil
}

// GetByName implements the RoleStore interface
func (m *MockRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}

	for _, role := range m.Roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, store.ErrRoleNotFound
}

// Rename implements the RoleStore interface
func (m *MockRoleStore) Rename(ctx context.Context, id uuid.UUID, name string) error {
	if m.RenameFn != nil {
		return m.RenameFn(ctx, id, name)
	}

	role, ok := m.Roles[id]
	if !ok {
		return store.ErrRoleNotFound
	}
	for _, existing := range m.Roles {
		if existing.ID != id && existing.Name == name {
			return store.ErrRoleNameExists
		}
	}
	role.Name = name
	return nil
}

// WithTx implements the RoleStore interface; the mock has no real
// transactions, so it returns itself.
func (m *MockRoleStore) WithTx(tx *sql.Tx) store.RoleStore {
	return m
}
