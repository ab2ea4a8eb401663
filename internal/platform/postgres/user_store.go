package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/platform/logger"
	"github.com/Tooflex/task-manager-server/internal/store"
	"github.com/google/uuid"
)

// Constraint names from the migrations, used to map unique and foreign
// key violations to typed store errors.
const (
	usersUsernameKey     = "users_username_key"
	usersEmailKey        = "users_email_key"
	userRolesUserFK      = "user_roles_user_id_fkey"
	userRolesRoleFK      = "user_roles_role_id_fkey"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It saves a new user and any roles already attached to it.
// Returns store.ErrUsernameExists or store.ErrEmailExists on unique
// constraint violations.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if mapped := mapUserUniqueViolation(err); mapped != nil {
			log.Debug("unique violation during user creation",
				slog.String("user_id", user.ID.String()),
				slog.String("error", mapped.Error()))
			return mapped
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	for _, role := range user.Roles {
		if err := s.AddRole(ctx, user.ID, role.ID); err != nil {
			return err
		}
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getUserBy(ctx, "id = $1", id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserBy(ctx, "username = $1", username)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserBy(ctx, "email = $1", email)
}

// getUserBy retrieves a single user matching the given predicate and
// loads their roles. Returns store.ErrUserNotFound when no row matches.
func (s *PostgresUserStore) getUserBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT id, username, email, hashed_password, created_at, updated_at
		FROM users
		WHERE %s
	`, where)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("predicate", where))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("predicate", where))
		return nil, err
	}

	roles, err := s.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return &user, nil
}

// loadRoles fetches the role set attached to a user.
func (s *PostgresUserStore) loadRoles(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query user roles",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			log.Error("failed to scan role row", slog.String("error", err.Error()))
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning role rows", slog.String("error", err.Error()))
		return nil, err
	}

	return roles, nil
}

// userSortColumns whitelists the sortable columns for List. Anything
// else falls back to created_at.
var userSortColumns = map[string]string{
	"id":         "id",
	"username":   "username",
	"email":      "email",
	"created_at": "created_at",
}

// List implements store.UserStore.List
// It returns a page of users with their roles and the total user count.
func (s *PostgresUserStore) List(ctx context.Context, params store.ListParams) ([]*domain.User, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if params.Size <= 0 {
		params.Size = 10
	}
	if params.Page < 0 {
		params.Page = 0
	}

	column, ok := userSortColumns[params.SortField]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		log.Error("failed to count users", slog.String("error", err.Error()))
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, username, email, hashed_password, created_at, updated_at
		FROM users
		ORDER BY %s %s
		LIMIT $1 OFFSET $2
	`, column, direction)

	rows, err := s.db.QueryContext(ctx, query, params.Size, params.Page*params.Size)
	if err != nil {
		log.Error("failed to query users",
			slog.String("error", err.Error()))
		return nil, 0, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.HashedPassword,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning user rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	for _, user := range users {
		roles, err := s.loadRoles(ctx, user.ID)
		if err != nil {
			return nil, 0, err
		}
		user.Roles = roles
	}

	if users == nil {
		users = []*domain.User{}
	}

	log.Debug("listed users",
		slog.Int("count", len(users)),
		slog.Int("total", total))
	return users, total, nil
}

// Update implements store.UserStore.Update
// It overwrites username, email, hashed password and the update
// timestamp. Role attachments are managed separately via AddRole.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		UPDATE users
		SET username = $1, email = $2, hashed_password = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		if mapped := mapUserUniqueViolation(err); mapped != nil {
			log.Debug("unique violation during user update",
				slog.String("user_id", user.ID.String()),
				slog.String("error", mapped.Error()))
			return mapped
		}

		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user not found for update",
			slog.String("user_id", user.ID.String()))
		return store.ErrUserNotFound
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// AddRole implements store.UserStore.AddRole
// The insert is idempotent: re-attaching an existing role is a no-op.
func (s *PostgresUserStore) AddRole(ctx context.Context, userID, roleID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, userID, roleID)
	if err != nil {
		switch {
		case isForeignKeyViolation(err, userRolesUserFK):
			log.Debug("role attachment to missing user",
				slog.String("user_id", userID.String()))
			return store.ErrUserNotFound
		case isForeignKeyViolation(err, userRolesRoleFK):
			log.Debug("attachment of missing role",
				slog.String("role_id", roleID.String()))
			return store.ErrRoleNotFound
		}

		log.Error("failed to attach role to user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("role_id", roleID.String()))
		return err
	}

	log.Debug("role attached to user",
		slog.String("user_id", userID.String()),
		slog.String("role_id", roleID.String()))
	return nil
}

// Delete implements store.UserStore.Delete
// The user's tasks and role attachments are removed by ON DELETE CASCADE.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user not found for delete",
			slog.String("user_id", id.String()))
		return store.ErrUserNotFound
	}

	log.Info("user deleted successfully",
		slog.String("user_id", id.String()))
	return nil
}

// ExistsByUsername implements store.UserStore.ExistsByUsername
func (s *PostgresUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username = $1", username)
}

// ExistsByEmail implements store.UserStore.ExistsByEmail
func (s *PostgresUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email = $1", email)
}

func (s *PostgresUserStore) exists(ctx context.Context, where string, arg any) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM users WHERE %s)`, where)

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		log.Error("failed to check user existence",
			slog.String("error", err.Error()),
			slog.String("predicate", where))
		return false, err
	}

	return exists, nil
}

// mapUserUniqueViolation translates unique constraint violations on the
// users table to typed store errors, or returns nil for other errors.
func mapUserUniqueViolation(err error) error {
	switch {
	case isUniqueViolation(err, usersUsernameKey):
		return store.ErrUsernameExists
	case isUniqueViolation(err, usersEmailKey):
		return store.ErrEmailExists
	case isUniqueViolation(err, ""):
		return store.ErrDuplicate
	}
	return nil
}
