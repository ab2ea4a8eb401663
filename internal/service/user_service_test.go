package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/mocks"
	"github.com/Tooflex/task-manager-server/internal/service/auth"
	"github.com/Tooflex/task-manager-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type userServiceFixture struct {
	userStore *mocks.MockUserStore
	roleStore *mocks.MockRoleStore
	hasher    *mocks.MockPasswordHasher
	service   *UserServiceImpl
}

func newUserServiceFixture() *userServiceFixture {
	userStore := mocks.NewMockUserStore()
	roleStore := mocks.NewMockRoleStore()
	hasher := &mocks.MockPasswordHasher{}

	return &userServiceFixture{
		userStore: userStore,
		roleStore: roleStore,
		hasher:    hasher,
		service:   NewUserService(userStore, roleStore, hasher, nil, testLogger()),
	}
}

// seedUser puts a persisted-looking user in the mock store.
func (f *userServiceFixture) seedUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, email, "secure-password")
	require.NoError(t, err)
	user.HashedPassword = "hashed:secure-password"
	user.Password = ""
	f.userStore.Users[user.ID] = user
	// Keep role maps in sync for AddRole defaults.
	f.userStore.Roles = f.roleStore.Roles
	return user
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("round trip preserves username and email", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()

		created, err := f.service.CreateUser(context.Background(), "alice", "alice@example.com", "secure-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "alice@example.com", created.Email)
		assert.Empty(t, created.Password, "plaintext must be cleared before persisting")
		assert.Equal(t, "hashed:secure-password", created.HashedPassword)

		got, err := f.service.GetUserByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Username, got.Username)
		assert.Equal(t, created.Email, got.Email)
	})

	t.Run("duplicate username writes nothing", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		f.seedUser(t, "alice", "alice@example.com")

		_, err := f.service.CreateUser(context.Background(), "alice", "other@example.com", "secure-password")
		require.ErrorIs(t, err, store.ErrUsernameExists)
		assert.Equal(t, 0, f.userStore.CreateCalls, "no create should reach the store")
		assert.Equal(t, 0, f.hasher.HashCallCount, "password should not be hashed for a rejected create")
	})

	t.Run("duplicate email writes nothing", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		f.seedUser(t, "alice", "alice@example.com")

		_, err := f.service.CreateUser(context.Background(), "bob", "alice@example.com", "secure-password")
		require.ErrorIs(t, err, store.ErrEmailExists)
		assert.Equal(t, 0, f.userStore.CreateCalls)
	})

	t.Run("invalid password rejected before any store write", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()

		_, err := f.service.CreateUser(context.Background(), "alice", "alice@example.com", "short")
		require.ErrorIs(t, err, domain.ErrPasswordTooShort)
		assert.Equal(t, 0, f.userStore.CreateCalls)
	})
}

func TestCreateUserWithRole(t *testing.T) {
	t.Parallel()

	t.Run("attaches the named role", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		f.roleStore.Seed(domain.RoleAdmin)

		created, err := f.service.CreateUserWithRole(
			context.Background(), "alice", "alice@example.com", "secure-password", domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, []string{domain.RoleAdmin}, created.RoleNames())
	})

	t.Run("missing role fails before any user write", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()

		_, err := f.service.CreateUserWithRole(
			context.Background(), "alice", "alice@example.com", "secure-password", "GHOST")
		require.ErrorIs(t, err, store.ErrRoleNotFound)
		assert.Equal(t, 0, f.userStore.CreateCalls)
	})
}

func TestAddRoleToUser(t *testing.T) {
	t.Parallel()

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		f.roleStore.Seed(domain.RoleAdmin)
		user := f.seedUser(t, "alice", "alice@example.com")

		first, err := f.service.AddRoleToUser(context.Background(), user.ID, domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, []string{domain.RoleAdmin}, first.RoleNames())

		second, err := f.service.AddRoleToUser(context.Background(), user.ID, domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, []string{domain.RoleAdmin}, second.RoleNames(),
			"attaching the same role twice must not duplicate it")
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		f.roleStore.Seed(domain.RoleAdmin)

		_, err := f.service.AddRoleToUser(context.Background(), uuid.New(), domain.RoleAdmin)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("missing role", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		user := f.seedUser(t, "alice", "alice@example.com")

		_, err := f.service.AddRoleToUser(context.Background(), user.ID, "GHOST")
		require.ErrorIs(t, err, store.ErrRoleNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	t.Run("missing user writes nothing", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()

		_, err := f.service.UpdateUser(context.Background(), uuid.New(), "alice", "alice@example.com", "")
		require.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Equal(t, 0, f.userStore.UpdateCalls)
	})

	t.Run("blank password keeps existing hash", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		user := f.seedUser(t, "alice", "alice@example.com")
		before := user.UpdatedAt

		updated, err := f.service.UpdateUser(context.Background(), user.ID, "alice2", "alice2@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.Username)
		assert.Equal(t, "alice2@example.com", updated.Email)
		assert.Equal(t, "hashed:secure-password", updated.HashedPassword)
		assert.Equal(t, 0, f.hasher.HashCallCount)
		assert.True(t, updated.UpdatedAt.After(before) || updated.UpdatedAt.Equal(before))
	})

	t.Run("non-empty password is rehashed", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		user := f.seedUser(t, "alice", "alice@example.com")

		updated, err := f.service.UpdateUser(context.Background(), user.ID, "alice", "alice@example.com", "new-password")
		require.NoError(t, err)
		assert.Equal(t, "hashed:new-password", updated.HashedPassword)
	})

	t.Run("store duplicate surfaces as conflict error", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		user := f.seedUser(t, "alice", "alice@example.com")
		f.userStore.UpdateFn = func(ctx context.Context, u *domain.User) error {
			return store.ErrEmailExists
		}

		_, err := f.service.UpdateUser(context.Background(), user.ID, "alice", "taken@example.com", "")
		require.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing user", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		user := f.seedUser(t, "alice", "alice@example.com")

		deleted, err := f.service.DeleteUser(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = f.service.GetUserByID(context.Background(), user.ID)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("missing user reports false without error", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()

		deleted, err := f.service.DeleteUser(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestLoadUserForAuthentication(t *testing.T) {
	t.Parallel()

	t.Run("builds principal with prefixed authorities", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()
		user := f.seedUser(t, "alice", "alice@example.com")
		user.Roles = []domain.Role{
			{ID: uuid.New(), Name: domain.RoleUser},
			{ID: uuid.New(), Name: "ROLE_ADMIN"},
		}

		principal, err := f.service.LoadUserForAuthentication(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", principal.Username)
		assert.Equal(t, "hashed:secure-password", principal.HashedPassword)
		assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, principal.Authorities)
	})

	t.Run("unknown username", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture()

		_, err := f.service.LoadUserForAuthentication(context.Background(), "ghost")
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

// Compile-time check that the bcrypt hasher satisfies both interfaces
// the service stack needs.
var (
	_ auth.PasswordHasher   = (*auth.BcryptHasher)(nil)
	_ auth.PasswordVerifier = (*auth.BcryptHasher)(nil)
)
