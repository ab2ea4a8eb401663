package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/store"
	"github.com/google/uuid"
)

// TaskService provides task lifecycle and filtered query operations.
// Query methods return an empty slice, never an error, when nothing
// matches.
type TaskService interface {
	// GetAllTasks returns every task, newest first.
	GetAllTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTasksByStatus returns tasks whose status equals the given value.
	GetTasksByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)

	// GetTasksByCategory returns tasks whose category equals the given value.
	GetTasksByCategory(ctx context.Context, category string) ([]*domain.Task, error)

	// GetTasksByUser returns tasks owned by the given user.
	GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// GetTasksByPriority returns tasks whose priority equals the given value.
	GetTasksByPriority(ctx context.Context, priority int) ([]*domain.Task, error)

	// GetOverdueTasks returns tasks whose due date is strictly before the
	// current time. Tasks without a due date are never overdue.
	GetOverdueTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTasksCreatedAfter returns tasks created strictly after the given
	// instant.
	GetTasksCreatedAfter(ctx context.Context, after time.Time) ([]*domain.Task, error)

	// CreateTask stamps creation timestamps on the task and persists it.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// UpdateTask copies title, description, status, category, priority
	// and due date from in onto the stored task, stamps UpdatedAt and
	// persists. The owning user and parent task are preserved.
	// Returns store.ErrTaskNotFound (with no write) if the id is absent.
	UpdateTask(ctx context.Context, id uuid.UUID, in *domain.Task) (*domain.Task, error)

	// DeleteTask removes a task (and its sub-tasks, via the store's
	// cascade contract). Returns false without error when the id is
	// absent; no write occurs in that case.
	DeleteTask(ctx context.Context, id uuid.UUID) (bool, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	timeFunc  func() time.Time // Injectable for testing
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		timeFunc:  time.Now,
		logger:    logger.With("component", "task_service"),
	}
}

// GetAllTasks returns every task.
func (s *TaskServiceImpl) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTasksByStatus returns tasks in the given status.
func (s *TaskServiceImpl) GetTasksByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByStatus(ctx, status)
	if err != nil {
		s.logger.Error("failed to list tasks by status",
			"error", err,
			"status", string(status))
		return nil, fmt.Errorf("failed to list tasks by status: %w", err)
	}
	return tasks, nil
}

// GetTasksByCategory returns tasks in the given category.
func (s *TaskServiceImpl) GetTasksByCategory(ctx context.Context, category string) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByCategory(ctx, category)
	if err != nil {
		s.logger.Error("failed to list tasks by category",
			"error", err,
			"category", category)
		return nil, fmt.Errorf("failed to list tasks by category: %w", err)
	}
	return tasks, nil
}

// GetTasksByUser returns the tasks owned by a user.
func (s *TaskServiceImpl) GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tasks by user",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tasks by user: %w", err)
	}
	return tasks, nil
}

// GetTasksByPriority returns tasks with the given priority.
func (s *TaskServiceImpl) GetTasksByPriority(ctx context.Context, priority int) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByPriority(ctx, priority)
	if err != nil {
		s.logger.Error("failed to list tasks by priority",
			"error", err,
			"priority", priority)
		return nil, fmt.Errorf("failed to list tasks by priority: %w", err)
	}
	return tasks, nil
}

// GetOverdueTasks returns tasks whose due date has passed.
func (s *TaskServiceImpl) GetOverdueTasks(ctx context.Context) ([]*domain.Task, error) {
	now := s.timeFunc().UTC()
	tasks, err := s.taskStore.ListOverdue(ctx, now)
	if err != nil {
		s.logger.Error("failed to list overdue tasks", "error", err)
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	return tasks, nil
}

// GetTasksCreatedAfter returns tasks created after the given instant.
func (s *TaskServiceImpl) GetTasksCreatedAfter(ctx context.Context, after time.Time) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListCreatedAfter(ctx, after)
	if err != nil {
		s.logger.Error("failed to list tasks created after",
			"error", err,
			"after", after)
		return nil, fmt.Errorf("failed to list tasks created after: %w", err)
	}
	return tasks, nil
}

// CreateTask stamps timestamps and persists the task.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	now := s.timeFunc().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.taskStore.Create(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			s.logger.Debug("task creation with invalid reference",
				"task_id", task.ID,
				"user_id", task.UserID)
		} else {
			s.logger.Error("failed to create task",
				"error", err,
				"task_id", task.ID)
		}
		return nil, err
	}

	s.logger.Info("task created successfully",
		"task_id", task.ID,
		"user_id", task.UserID)

	return task, nil
}

// UpdateTask applies the mutable fields of in to the stored task.
// The owning user and parent task are never touched by this path.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id uuid.UUID, in *domain.Task) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("update of missing task", "task_id", id)
		}
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Status = in.Status
	task.Category = in.Category
	task.Priority = in.Priority
	task.DueDate = in.DueDate
	task.UpdatedAt = s.timeFunc().UTC()

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", id)
		return nil, err
	}

	s.logger.Info("task updated successfully",
		"task_id", id,
		"status", string(task.Status))

	return task, nil
}

// DeleteTask removes a task by ID. Returns false without error when the
// task does not exist.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	err := s.taskStore.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("attempted to delete non-existent task", "task_id", id)
			return false, nil
		}
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return false, err
	}

	s.logger.Info("task deleted successfully", "task_id", id)
	return true, nil
}
