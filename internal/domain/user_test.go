package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid user",
			username: "alice",
			email:    "alice@example.com",
			password: "secure-password",
			wantErr:  nil,
		},
		{
			name:     "empty username",
			username: "",
			email:    "alice@example.com",
			password: "secure-password",
			wantErr:  ErrEmptyUsername,
		},
		{
			name:     "empty email",
			username: "alice",
			email:    "",
			password: "secure-password",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "email without at sign",
			username: "alice",
			email:    "alice.example.com",
			password: "secure-password",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "email without domain dot",
			username: "alice",
			email:    "alice@example",
			password: "secure-password",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "password too short",
			username: "alice",
			email:    "alice@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			username: "alice",
			email:    "alice@example.com",
			password: strings.Repeat("x", 73),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "empty password",
			username: "alice",
			email:    "alice@example.com",
			password: "",
			wantErr:  ErrEmptyPassword,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			user, err := NewUser(tc.username, tc.email, tc.password)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")
			assert.Equal(t, tc.username, user.Username)
			assert.Equal(t, tc.email, user.Email)
			assert.False(t, user.CreatedAt.IsZero())
			assert.Equal(t, user.CreatedAt, user.UpdatedAt)
		})
	}
}

func TestUserValidateWithHashedPasswordOnly(t *testing.T) {
	t.Parallel()

	user, err := NewUser("alice", "alice@example.com", "secure-password")
	require.NoError(t, err)

	// Simulate the persisted form: hash set, plaintext cleared.
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	user.Password = ""

	assert.NoError(t, user.Validate())
}

func TestUserRoles(t *testing.T) {
	t.Parallel()

	user, err := NewUser("alice", "alice@example.com", "secure-password")
	require.NoError(t, err)

	assert.False(t, user.HasRole(RoleAdmin))
	assert.Empty(t, user.RoleNames())

	userRole, err := NewRole(RoleUser)
	require.NoError(t, err)
	adminRole, err := NewRole(RoleAdmin)
	require.NoError(t, err)

	user.Roles = []Role{*userRole, *adminRole}

	assert.True(t, user.HasRole(RoleUser))
	assert.True(t, user.HasRole(RoleAdmin))
	assert.False(t, user.HasRole("AUDITOR"))
	assert.Equal(t, []string{RoleUser, RoleAdmin}, user.RoleNames())
}
