package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/mocks"
	"github.com/Tooflex/task-manager-server/internal/service"
)

type userHandlerFixture struct {
	userStore *mocks.MockUserStore
	roleStore *mocks.MockRoleStore
	handler   *UserHandler
}

func newUserHandlerFixture() *userHandlerFixture {
	userStore := mocks.NewMockUserStore()
	roleStore := mocks.NewMockRoleStore()
	hasher := &mocks.MockPasswordHasher{}
	userService := service.NewUserService(userStore, roleStore, hasher, nil, testLogger())

	// Share the role map so the user store's AddRole default sees roles
	// seeded on the role store.
	userStore.Roles = roleStore.Roles

	return &userHandlerFixture{
		userStore: userStore,
		roleStore: roleStore,
		handler:   NewUserHandler(userService, testLogger()),
	}
}

func (f *userHandlerFixture) seedUser(t *testing.T, username, email string, roles ...string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, email, "secure-password")
	require.NoError(t, err)
	user.HashedPassword = "hashed:secure-password"
	user.Password = ""
	for _, name := range roles {
		role, err := f.roleStore.GetByName(context.Background(), name)
		if err != nil {
			role = f.roleStore.Seed(name)
		}
		user.Roles = append(user.Roles, *role)
	}
	f.userStore.Users[user.ID] = user
	return user
}

func (f *userHandlerFixture) routes(r chi.Router) {
	r.Get("/users", f.handler.ListUsers)
	r.Post("/users", f.handler.CreateUser)
	r.Post("/users/role/{roleName}", f.handler.CreateUserWithRole)
	r.Get("/users/username/{username}", f.handler.GetUserByUsername)
	r.Get("/users/email/{email}", f.handler.GetUserByEmail)
	r.Get("/users/{id}", f.handler.GetUser)
	r.Put("/users/{id}", f.handler.UpdateUser)
	r.Delete("/users/{id}", f.handler.DeleteUser)
	r.Get("/users/{id}/roles", f.handler.GetUserRoles)
	r.Put("/users/{id}/roles/{roleName}", f.handler.AddRoleToUser)
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	f := newUserHandlerFixture()
	f.seedUser(t, "alice", "alice@example.com", domain.RoleAdmin)
	f.seedUser(t, "bob", "bob@example.com")

	recorder := serve(f.routes, httptest.NewRequest("GET", "/users?page=0&size=10", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var page UserPageResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&page))
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "alice", page.Content[0].Username)
	assert.Equal(t, []string{domain.RoleAdmin}, page.Content[0].Roles)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	f := newUserHandlerFixture()
	user := f.seedUser(t, "alice", "alice@example.com", domain.RoleUser)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		recorder := serve(f.routes, httptest.NewRequest("GET", "/users/"+user.ID.String(), nil))
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, user.ID, resp.ID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, []string{domain.RoleUser}, resp.Roles)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		recorder := serve(f.routes, httptest.NewRequest("GET", "/users/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		recorder := serve(f.routes, httptest.NewRequest("GET", "/users/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetUserByUsernameAndEmail(t *testing.T) {
	t.Parallel()

	f := newUserHandlerFixture()
	f.seedUser(t, "alice", "alice@example.com")

	recorder := serve(f.routes, httptest.NewRequest("GET", "/users/username/alice", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(f.routes, httptest.NewRequest("GET", "/users/username/ghost", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(f.routes, httptest.NewRequest("GET", "/users/email/alice@example.com", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(f.routes, httptest.NewRequest("GET", "/users/email/ghost@example.com", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		seed       bool
		wantStatus int
	}{
		{
			name: "valid create",
			payload: map[string]interface{}{
				"username": "carol",
				"email":    "carol@example.com",
				"password": "secure-password",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate username",
			payload: map[string]interface{}{
				"username": "alice",
				"email":    "new@example.com",
				"password": "secure-password",
			},
			seed:       true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			payload: map[string]interface{}{
				"username": "newuser",
				"email":    "alice@example.com",
				"password": "secure-password",
			},
			seed:       true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"username": "carol",
				"email":    "not-an-email",
				"password": "secure-password",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"username": "carol",
				"email":    "carol@example.com",
				"password": "short",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newUserHandlerFixture()
			if tc.seed {
				f.seedUser(t, "alice", "alice@example.com")
			}

			body, err := json.Marshal(tc.payload)
			require.NoError(t, err)
			req := httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			recorder := serve(f.routes, req)
			assert.Equal(t, tc.wantStatus, recorder.Code)

			if tc.wantStatus == http.StatusCreated {
				var resp UserResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, tc.payload["username"], resp.Username)
				assert.Empty(t, resp.Roles)
			}
		})
	}
}

func TestCreateUserWithRoleEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("attaches role", func(t *testing.T) {
		t.Parallel()
		f := newUserHandlerFixture()
		f.roleStore.Seed(domain.RoleAdmin)

		body, _ := json.Marshal(map[string]string{
			"username": "carol",
			"email":    "carol@example.com",
			"password": "secure-password",
		})
		req := httptest.NewRequest("POST", "/users/role/ADMIN", bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, []string{domain.RoleAdmin}, resp.Roles)
	})

	t.Run("unknown role is a bad request", func(t *testing.T) {
		t.Parallel()
		f := newUserHandlerFixture()

		body, _ := json.Marshal(map[string]string{
			"username": "carol",
			"email":    "carol@example.com",
			"password": "secure-password",
		})
		req := httptest.NewRequest("POST", "/users/role/GHOST", bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateUserEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("updates existing user", func(t *testing.T) {
		t.Parallel()
		f := newUserHandlerFixture()
		user := f.seedUser(t, "alice", "alice@example.com")

		body, _ := json.Marshal(map[string]string{
			"username": "alice2",
			"email":    "alice2@example.com",
		})
		req := httptest.NewRequest("PUT", "/users/"+user.ID.String(), bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "alice2", resp.Username)
		assert.Equal(t, "alice2@example.com", resp.Email)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		f := newUserHandlerFixture()

		body, _ := json.Marshal(map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
		})
		req := httptest.NewRequest("PUT", "/users/"+uuid.NewString(), bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestAddRoleToUserEndpoint(t *testing.T) {
	t.Parallel()

	f := newUserHandlerFixture()
	f.roleStore.Seed(domain.RoleAdmin)
	user := f.seedUser(t, "alice", "alice@example.com")

	req := httptest.NewRequest("PUT", "/users/"+user.ID.String()+"/roles/ADMIN", nil)
	recorder := serve(f.routes, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp UserResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, []string{domain.RoleAdmin}, resp.Roles)

	// Second attach is a no-op success.
	recorder = serve(f.routes, httptest.NewRequest("PUT", "/users/"+user.ID.String()+"/roles/ADMIN", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, []string{domain.RoleAdmin}, resp.Roles)
}

func TestGetUserRolesEndpoint(t *testing.T) {
	t.Parallel()

	f := newUserHandlerFixture()
	user := f.seedUser(t, "alice", "alice@example.com", domain.RoleUser, domain.RoleAdmin)

	recorder := serve(f.routes, httptest.NewRequest("GET", "/users/"+user.ID.String()+"/roles", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var roles []string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&roles))
	assert.Equal(t, []string{domain.RoleUser, domain.RoleAdmin}, roles)
}

func TestDeleteUserEndpoint(t *testing.T) {
	t.Parallel()

	f := newUserHandlerFixture()
	user := f.seedUser(t, "alice", "alice@example.com")

	recorder := serve(f.routes, httptest.NewRequest("DELETE", "/users/"+user.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = serve(f.routes, httptest.NewRequest("DELETE", "/users/"+user.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
