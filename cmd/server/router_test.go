package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tooflex/task-manager-server/internal/config"
	"github.com/Tooflex/task-manager-server/internal/mocks"
	"github.com/Tooflex/task-manager-server/internal/service"
	"github.com/Tooflex/task-manager-server/internal/service/auth"
)

// newTestApplication wires an application over in-memory stores so the
// router can be exercised without a database.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins: []string{"*"},
		},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-key-thats-long-enough-for-hmac",
			TokenLifetimeMinutes: 60,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	userStore := mocks.NewMockUserStore()
	roleStore := mocks.NewMockRoleStore()
	taskStore := mocks.NewMockTaskStore()
	userStore.Roles = roleStore.Roles
	hasher := auth.NewBcryptHasher()

	return &application{
		config:      cfg,
		logger:      logger,
		userStore:   userStore,
		roleStore:   roleStore,
		taskStore:   taskStore,
		jwtService:  jwtService,
		hasher:      hasher,
		userService: service.NewUserService(userStore, roleStore, hasher, nil, logger),
		taskService: service.NewTaskService(taskStore, logger),
	}
}

func (app *application) issueToken(t *testing.T, authorities ...string) string {
	t.Helper()

	token, err := app.jwtService.GenerateToken(context.Background(), auth.Principal{
		Username:    "alice",
		Authorities: authorities,
	})
	require.NoError(t, err)
	return token
}

// Paths outside the registered routes are not public: without a valid
// bearer token they return 401, never a bare 404.
func TestRouterUnmatchedPathsRequireAuthentication(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()
	token := app.issueToken(t, "ROLE_USER")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{
			name:       "unmatched path without token",
			method:     http.MethodGet,
			path:       "/api/v2/anything",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unmatched path with token",
			method:     http.MethodGet,
			path:       "/api/v2/anything",
			token:      token,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown root path without token",
			method:     http.MethodGet,
			path:       "/admin",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong method without token",
			method:     http.MethodPost,
			path:       "/health",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong method with token",
			method:     http.MethodPost,
			path:       "/health",
			token:      token,
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

// The public surface stays public: login and health never demand a token.
func TestRouterPublicEndpoints(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Login with an unknown user is a 401 from the handler, not a
	// middleware rejection for the missing token.
	req = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"ghost","password":"whatever"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid credentials")
}
