package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Tooflex/task-manager-server/internal/api/shared"
	"github.com/Tooflex/task-manager-server/internal/service"
	"github.com/Tooflex/task-manager-server/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// UserHandler handles user management API requests. All routes behind
// it require the ROLE_ADMIN authority; the router enforces that.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.With("component", "user_handler"),
	}
}

// parseListParams extracts page, size and sort from the query string.
// Sort uses the "field,direction" form, e.g. "username,desc"; unknown
// fields are rejected by the store's whitelist.
func parseListParams(r *http.Request) store.ListParams {
	params := store.ListParams{
		Page: 0,
		Size: defaultPageSize,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page >= 0 {
			params.Page = page
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			if size > maxPageSize {
				size = maxPageSize
			}
			params.Size = size
		}
	}
	if v := r.URL.Query().Get("sort"); v != "" {
		field, direction, _ := strings.Cut(v, ",")
		params.SortField = strings.TrimSpace(field)
		params.SortDesc = strings.EqualFold(strings.TrimSpace(direction), "desc")
	}

	return params
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	users, total, err := h.userService.ListUsers(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	totalPages := 0
	if params.Size > 0 {
		totalPages = (total + params.Size - 1) / params.Size
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserPageResponse{
		Content:       ToUserResponses(users),
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	})
}

// GetUser handles GET /api/v1/users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		h.respondUserError(w, r, err, id)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToUserResponse(user))
}

// GetUserByUsername handles GET /api/v1/users/username/{username}.
func (h *UserHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to get user by username", "error", err, "username", username)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToUserResponse(user))
}

// GetUserByEmail handles GET /api/v1/users/email/{email}.
func (h *UserHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.userService.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to get user by email", "error", err, "email", email)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToUserResponse(user))
}

// GetUserRoles handles GET /api/v1/users/{id}/roles.
func (h *UserHandler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		h.respondUserError(w, r, err, id)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user.RoleNames())
}

// CreateUser handles POST /api/v1/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if store.IsDuplicateError(err) {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}
		h.logger.Error("failed to create user", "error", err, "username", req.Username)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ToUserResponse(user))
}

// CreateUserWithRole handles POST /api/v1/users/role/{roleName}.
func (h *UserHandler) CreateUserWithRole(w http.ResponseWriter, r *http.Request) {
	roleName := chi.URLParam(r, "roleName")

	var req CreateUserRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.CreateUserWithRole(r.Context(), req.Username, req.Email, req.Password, roleName)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRoleNotFound):
			// The role is a reference here, not the requested resource.
			shared.RespondWithError(w, r, http.StatusBadRequest, "Role not found")
		case store.IsDuplicateError(err):
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		default:
			h.logger.Error("failed to create user with role",
				"error", err,
				"username", req.Username,
				"role", roleName)
			shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ToUserResponse(user))
}

// UpdateUser handles PUT /api/v1/users/{id}.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateUserRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
		case store.IsDuplicateError(err):
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		default:
			h.logger.Error("failed to update user", "error", err, "user_id", id)
			shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToUserResponse(user))
}

// AddRoleToUser handles PUT /api/v1/users/{id}/roles/{roleName}.
// Attaching a role the user already holds is a no-op success.
func (h *UserHandler) AddRoleToUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}
	roleName := chi.URLParam(r, "roleName")

	user, err := h.userService.AddRoleToUser(r.Context(), id, roleName)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrRoleNotFound):
			shared.RespondWithError(w, r, http.StatusBadRequest, "Role not found")
		default:
			h.logger.Error("failed to add role to user",
				"error", err,
				"user_id", id,
				"role", roleName)
			shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToUserResponse(user))
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	deleted, err := h.userService.DeleteUser(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete user", "error", err, "user_id", id)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	if !deleted {
		shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondUserError maps lookup failures for a user ID, logging only the
// unexpected ones.
func (h *UserHandler) respondUserError(w http.ResponseWriter, r *http.Request, err error, id uuid.UUID) {
	if errors.Is(err, store.ErrUserNotFound) {
		shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
		return
	}
	h.logger.Error("failed to get user", "error", err, "user_id", id)
	shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
}
