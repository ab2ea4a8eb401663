package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tooflex/task-manager-server/internal/api"
	apiMiddleware "github.com/Tooflex/task-manager-server/internal/api/middleware"
	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/service/auth"
)

// setupRouter creates and configures the application router with all
// routes and middleware. The route policy is static: /auth and /health
// are public, /api/v1/users requires ROLE_ADMIN, /api/v1/tasks requires
// ROLE_USER or ROLE_ADMIN, and everything else requires a valid token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.hasher, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	adminAuthority := auth.AuthorityForRole(domain.RoleAdmin)
	userAuthority := auth.AuthorityForRole(domain.RoleUser)

	// Authentication endpoints (public)
	r.Post("/auth/login", authHandler.Login)

	// Health check endpoint (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Every API route requires a valid bearer token.
		r.Use(authMiddleware.Authenticate)

		// User management (admin only)
		r.Route("/users", func(r chi.Router) {
			r.Use(apiMiddleware.RequireAnyAuthority(adminAuthority))

			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Post("/role/{roleName}", userHandler.CreateUserWithRole)
			r.Get("/username/{username}", userHandler.GetUserByUsername)
			r.Get("/email/{email}", userHandler.GetUserByEmail)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
			r.Get("/{id}/roles", userHandler.GetUserRoles)
			r.Put("/{id}/roles/{roleName}", userHandler.AddRoleToUser)
		})

		// Task management (any authenticated role)
		r.Route("/tasks", func(r chi.Router) {
			r.Use(apiMiddleware.RequireAnyAuthority(userAuthority, adminAuthority))

			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/status/{status}", taskHandler.ListTasksByStatus)
			r.Get("/category/{category}", taskHandler.ListTasksByCategory)
			r.Get("/user/{userID}", taskHandler.ListTasksByUser)
			r.Get("/priority/{priority}", taskHandler.ListTasksByPriority)
			r.Get("/overdue", taskHandler.ListOverdueTasks)
			r.Get("/created-after", taskHandler.ListTasksCreatedAfter)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})
	})

	// Unmatched paths and methods still require a valid token before
	// revealing that nothing lives there: no public surface exists
	// outside the routes above.
	r.NotFound(authMiddleware.Authenticate(http.NotFoundHandler()).ServeHTTP)
	r.MethodNotAllowed(authMiddleware.Authenticate(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		},
	)).ServeHTTP)

	return r
}
