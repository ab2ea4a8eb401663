package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// ParseTaskStatus converts a string into a TaskStatus, rejecting
// anything outside the known set.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s), nil
	}
	return "", ErrInvalidTaskStatus
}

// Common task validation errors
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrEmptyTaskOwner    = errors.New("task must belong to a user")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// Task is a unit of work owned by exactly one user. Tasks form a tree
// via ParentTaskID; deleting a parent removes its sub-tasks at the
// persistence layer.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       TaskStatus `json:"status"`
	Category     string     `json:"category"`
	Priority     int        `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	UserID       uuid.UUID  `json:"user_id"`
	ParentTaskID *uuid.UUID `json:"parent_task_id,omitempty"`
}

// NewTask creates a Task with a fresh ID in PENDING status. Creation
// timestamps are stamped by the service at persist time.
func NewTask(title, description, category string, priority int, userID uuid.UUID) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		Category:    category,
		Priority:    priority,
		UserID:      userID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task's fields.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if _, err := ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}

	return nil
}

// IsOverdue reports whether the task's due date is strictly before the
// given instant. Tasks with no due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}
