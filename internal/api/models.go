package api

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest carries the credentials posted to /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the successful login payload.
type AuthResponse struct {
	Token string `json:"token"`
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUserRequest is the payload for updating a user. A blank password
// leaves the stored hash untouched.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

// UserResponse is the outward representation of a user. The password
// hash never appears here; roles flatten to their names.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Roles    []string  `json:"roles"`
}

// UserPageResponse wraps one page of users together with paging totals.
type UserPageResponse struct {
	Content       []UserResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Description  string     `json:"description"`
	Status       string     `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS DONE"`
	Category     string     `json:"category" validate:"max=100"`
	Priority     int        `json:"priority" validate:"gte=0"`
	DueDate      *time.Time `json:"dueDate"`
	UserID       uuid.UUID  `json:"userId" validate:"required"`
	ParentTaskID *uuid.UUID `json:"parentTaskId"`
}

// UpdateTaskRequest is the payload for updating a task. Ownership and
// parent linkage are fixed at creation and absent here.
type UpdateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"required,oneof=PENDING IN_PROGRESS DONE"`
	Category    string     `json:"category" validate:"max=100"`
	Priority    int        `json:"priority" validate:"gte=0"`
	DueDate     *time.Time `json:"dueDate"`
}

// TaskResponse is the outward representation of a task.
type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Category     string     `json:"category"`
	Priority     int        `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	UserID       uuid.UUID  `json:"userId"`
	ParentTaskID *uuid.UUID `json:"parentTaskId"`
}
