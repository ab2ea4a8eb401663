package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/platform/logger"
	"github.com/Tooflex/task-manager-server/internal/store"
	"github.com/google/uuid"
)

const rolesNameKey = "roles_name_key"

// PostgresRoleStore implements the store.RoleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRoleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRoleStore creates a new PostgreSQL implementation of the
// RoleStore interface.
func NewPostgresRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRoleStore{
		db:     db,
		logger: logger.With(slog.String("component", "role_store")),
	}
}

// Ensure PostgresRoleStore implements store.RoleStore interface
var _ store.RoleStore = (*PostgresRoleStore)(nil)

// WithTx implements store.RoleStore.WithTx
func (s *PostgresRoleStore) WithTx(tx *sql.Tx) store.RoleStore {
	return &PostgresRoleStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.RoleStore.Create
func (s *PostgresRoleStore) Create(ctx context.Context, role *domain.Role) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := role.Validate(); err != nil {
		log.Warn("role validation failed during create",
			slog.String("error", err.Error()),
			slog.String("role_id", role.ID.String()))
		return err
	}

	query := `INSERT INTO roles (id, name) VALUES ($1, $2)`

	_, err := s.db.ExecContext(ctx, query, role.ID, role.Name)
	if err != nil {
		if isUniqueViolation(err, rolesNameKey) {
			log.Debug("duplicate role name during create",
				slog.String("name", role.Name))
			return store.ErrRoleNameExists
		}

		log.Error("failed to create role",
			slog.String("error", err.Error()),
			slog.String("name", role.Name))
		return err
	}

	log.Info("role created successfully",
		slog.String("role_id", role.ID.String()),
		slog.String("name", role.Name))
	return nil
}

// GetByID implements store.RoleStore.GetByID
func (s *PostgresRoleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var role domain.Role
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("role not found", slog.String("role_id", id.String()))
			return nil, store.ErrRoleNotFound
		}
		log.Error("failed to get role by ID",
			slog.String("error", err.Error()),
			slog.String("role_id", id.String()))
		return nil, err
	}

	return &role, nil
}

// GetByName implements store.RoleStore.GetByName
func (s *PostgresRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var role domain.Role
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM roles WHERE name = $1`, name).
		Scan(&role.ID, &role.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("role not found", slog.String("name", name))
			return nil, store.ErrRoleNotFound
		}
		log.Error("failed to get role by name",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, err
	}

	return &role, nil
}

// Rename implements store.RoleStore.Rename
func (s *PostgresRoleStore) Rename(ctx context.Context, id uuid.UUID, name string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE roles SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if isUniqueViolation(err, rolesNameKey) {
			log.Debug("duplicate role name during rename",
				slog.String("name", name))
			return store.ErrRoleNameExists
		}

		log.Error("failed to rename role",
			slog.String("error", err.Error()),
			slog.String("role_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("role_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("role not found for rename",
			slog.String("role_id", id.String()))
		return store.ErrRoleNotFound
	}

	log.Info("role renamed successfully",
		slog.String("role_id", id.String()),
		slog.String("name", name))
	return nil
}
