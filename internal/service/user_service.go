package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/service/auth"
	"github.com/Tooflex/task-manager-server/internal/store"
	"github.com/google/uuid"
)

// UserService provides user lifecycle, role assignment and
// authentication lookup operations.
type UserService interface {
	// ListUsers returns a page of users and the total user count.
	ListUsers(ctx context.Context, params store.ListParams) ([]*domain.User, int, error)

	// GetUserByID retrieves a user by ID.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email address.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUser creates a new user with no roles attached.
	// Returns store.ErrUsernameExists or store.ErrEmailExists when the
	// username or email is already taken; no write occurs in that case.
	CreateUser(ctx context.Context, username, email, password string) (*domain.User, error)

	// CreateUserWithRole creates a new user and attaches the named role
	// in a single transaction.
	// Returns store.ErrRoleNotFound if the role does not exist.
	CreateUserWithRole(ctx context.Context, username, email, password, roleName string) (*domain.User, error)

	// AddRoleToUser attaches the named role to an existing user. The
	// operation is idempotent. Returns the updated user.
	// Returns store.ErrUserNotFound or store.ErrRoleNotFound.
	AddRoleToUser(ctx context.Context, userID uuid.UUID, roleName string) (*domain.User, error)

	// UpdateUser overwrites the user's username and email and rehashes
	// the password only if a non-empty one is supplied.
	// Returns store.ErrUserNotFound if the user does not exist.
	UpdateUser(ctx context.Context, id uuid.UUID, username, email, password string) (*domain.User, error)

	// DeleteUser removes a user. Returns false (and no error) when the
	// user does not exist; no write occurs in that case.
	DeleteUser(ctx context.Context, id uuid.UUID) (bool, error)

	// LoadUserForAuthentication returns the authentication-ready
	// principal for the given username: username, password hash and
	// role-derived authorities.
	// Returns store.ErrUserNotFound if the user does not exist.
	LoadUserForAuthentication(ctx context.Context, username string) (auth.Principal, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	roleStore store.RoleStore
	hasher    auth.PasswordHasher
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	roleStore store.RoleStore,
	hasher auth.PasswordHasher,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		roleStore: roleStore,
		hasher:    hasher,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

// ListUsers returns a page of users and the total count.
func (s *UserServiceImpl) ListUsers(ctx context.Context, params store.ListParams) ([]*domain.User, int, error) {
	users, total, err := s.userStore.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list users",
			"error", err,
			"page", params.Page,
			"size", params.Size)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// GetUserByID retrieves a user by their ID.
func (s *UserServiceImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found", "user_id", id)
		} else {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", id)
		}
		return nil, err
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username.
func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by username", "username", username)
		} else {
			s.logger.Error("failed to retrieve user by username",
				"error", err,
				"username", username)
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by email", "email", email)
		} else {
			s.logger.Error("failed to retrieve user by email",
				"error", err,
				"email", email)
		}
		return nil, err
	}

	return user, nil
}

// CreateUser creates a new user. Duplicate checks run before the write
// so a conflicting request performs no persistence write; the store's
// unique constraints remain as a backstop under concurrency.
func (s *UserServiceImpl) CreateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.createUser(ctx, username, email, password, nil)
}

// CreateUserWithRole creates a new user and attaches the named role.
// The role lookup happens first so a missing role fails fast, and the
// user insert plus role attachment run in one transaction.
func (s *UserServiceImpl) CreateUserWithRole(
	ctx context.Context,
	username, email, password, roleName string,
) (*domain.User, error) {
	role, err := s.roleStore.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			s.logger.Debug("role not found for user creation", "role", roleName)
		} else {
			s.logger.Error("failed to look up role",
				"error", err,
				"role", roleName)
		}
		return nil, err
	}

	return s.createUser(ctx, username, email, password, role)
}

// runInTx executes fn in a database transaction when a handle is
// present. Without one (mock-backed tests) fn runs directly; the mock
// stores ignore the nil transaction.
func (s *UserServiceImpl) runInTx(ctx context.Context, fn store.TxFn) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.db, fn)
}

func (s *UserServiceImpl) createUser(
	ctx context.Context,
	username, email, password string,
	role *domain.Role,
) (*domain.User, error) {
	if taken, err := s.userStore.ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		s.logger.Debug("attempted to create user with existing username",
			"username", username)
		return nil, store.ErrUsernameExists
	}

	if taken, err := s.userStore.ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		s.logger.Debug("attempted to create user with existing email",
			"email", email)
		return nil, store.ErrEmailExists
	}

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		s.logger.Warn("invalid user data",
			"error", err,
			"username", username)
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""
	if role != nil {
		user.Roles = []domain.Role{*role}
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("duplicate user during create", "username", username)
		} else {
			s.logger.Error("failed to save user",
				"error", err,
				"username", username)
		}
		return nil, err
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// AddRoleToUser attaches the named role to an existing user.
func (s *UserServiceImpl) AddRoleToUser(ctx context.Context, userID uuid.UUID, roleName string) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("role assignment to missing user", "user_id", userID)
		}
		return nil, err
	}

	role, err := s.roleStore.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			s.logger.Debug("assignment of missing role", "role", roleName)
		}
		return nil, err
	}

	if err := s.userStore.AddRole(ctx, user.ID, role.ID); err != nil {
		s.logger.Error("failed to attach role",
			"error", err,
			"user_id", userID,
			"role", roleName)
		return nil, err
	}

	s.logger.Info("role attached to user",
		"user_id", userID,
		"role", roleName)

	// Re-read so the returned user reflects the attachment.
	return s.userStore.GetByID(ctx, user.ID)
}

// UpdateUser overwrites the user's username and email unconditionally
// and rehashes the password only when a non-empty one is supplied.
// Username/email uniqueness is not re-checked here; the store's unique
// constraints surface duplicates as typed errors at the boundary.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	username, email, password string,
) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("update of missing user", "user_id", id)
		}
		return nil, err
	}

	user.Username = username
	user.Email = email
	if password != "" {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("duplicate username or email during update",
				"user_id", id)
		} else {
			s.logger.Error("failed to update user",
				"error", err,
				"user_id", id)
		}
		return nil, err
	}

	s.logger.Info("user updated successfully",
		"user_id", id,
		"username", username)

	return user, nil
}

// DeleteUser removes a user by ID. Returns false without error when the
// user does not exist.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	err := s.userStore.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("attempted to delete non-existent user", "user_id", id)
			return false, nil
		}
		s.logger.Error("failed to delete user",
			"error", err,
			"user_id", id)
		return false, err
	}

	s.logger.Info("user deleted successfully", "user_id", id)
	return true, nil
}

// LoadUserForAuthentication builds the authentication-ready principal
// for the given username. Each role name is mapped to an authority with
// the ROLE_ prefix applied unless already present.
func (s *UserServiceImpl) LoadUserForAuthentication(ctx context.Context, username string) (auth.Principal, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("authentication lookup for unknown username",
				"username", username)
		} else {
			s.logger.Error("failed to load user for authentication",
				"error", err,
				"username", username)
		}
		return auth.Principal{}, err
	}

	return auth.Principal{
		Username:       user.Username,
		HashedPassword: user.HashedPassword,
		Authorities:    auth.AuthoritiesForRoles(user.RoleNames()),
	}, nil
}
