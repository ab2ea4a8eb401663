package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Tooflex/task-manager-server/internal/api/shared"
	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/service"
	"github.com/Tooflex/task-manager-server/internal/store"
)

// TaskHandler handles task management API requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// ListTasks handles GET /api/v1/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetAllTasks(r.Context())
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponses(tasks))
}

// ListTasksByStatus handles GET /api/v1/tasks/status/{status}.
func (h *TaskHandler) ListTasksByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseTaskStatus(chi.URLParam(r, "status"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task status")
		return
	}

	tasks, err := h.taskService.GetTasksByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list tasks by status", "error", err, "status", status)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponses(tasks))
}

// ListTasksByCategory handles GET /api/v1/tasks/category/{category}.
func (h *TaskHandler) ListTasksByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	tasks, err := h.taskService.GetTasksByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list tasks by category", "error", err, "category", category)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponses(tasks))
}

// ListTasksByUser handles GET /api/v1/tasks/user/{userID}.
func (h *TaskHandler) ListTasksByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	tasks, err := h.taskService.GetTasksByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list tasks by user", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponses(tasks))
}

// ListTasksByPriority handles GET /api/v1/tasks/priority/{priority}.
func (h *TaskHandler) ListTasksByPriority(w http.ResponseWriter, r *http.Request) {
	priority, err := strconv.Atoi(chi.URLParam(r, "priority"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid priority")
		return
	}

	tasks, err := h.taskService.GetTasksByPriority(r.Context(), priority)
	if err != nil {
		h.logger.Error("failed to list tasks by priority", "error", err, "priority", priority)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponses(tasks))
}

// ListOverdueTasks handles GET /api/v1/tasks/overdue.
func (h *TaskHandler) ListOverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetOverdueTasks(r.Context())
	if err != nil {
		h.logger.Error("failed to list overdue tasks", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponses(tasks))
}

// ListTasksCreatedAfter handles GET /api/v1/tasks/created-after. The
// cutoff comes from the "after" query parameter in RFC 3339 form.
func (h *TaskHandler) ListTasksCreatedAfter(w http.ResponseWriter, r *http.Request) {
	after, err := time.Parse(time.RFC3339, r.URL.Query().Get("after"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or missing 'after' timestamp; expected RFC 3339")
		return
	}

	tasks, err := h.taskService.GetTasksCreatedAfter(r.Context(), after)
	if err != nil {
		h.logger.Error("failed to list tasks created after", "error", err, "after", after)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponses(tasks))
}

// CreateTask handles POST /api/v1/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := domain.NewTask(req.Title, req.Description, req.Category, req.Priority, req.UserID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}
	if req.Status != "" {
		status, err := domain.ParseTaskStatus(req.Status)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task status")
			return
		}
		task.Status = status
	}
	task.DueDate = req.DueDate
	task.ParentTaskID = req.ParentTaskID

	created, err := h.taskService.CreateTask(r.Context(), task)
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			// Owner or parent reference does not exist.
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid entity data")
			return
		}
		h.logger.Error("failed to create task", "error", err, "title", req.Title)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ToTaskResponse(created))
}

// UpdateTask handles PUT /api/v1/tasks/{id}. Ownership and parent
// linkage are never changed by an update.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task status")
		return
	}

	in := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}

	updated, err := h.taskService.UpdateTask(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to update task", "error", err, "task_id", id)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToTaskResponse(updated))
}

// DeleteTask handles DELETE /api/v1/tasks/{id}. Sub-tasks of the
// deleted task go with it.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	deleted, err := h.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete task", "error", err, "task_id", id)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	if !deleted {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
