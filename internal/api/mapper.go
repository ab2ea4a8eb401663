package api

import "github.com/Tooflex/task-manager-server/internal/domain"

// ToUserResponse converts a domain user into its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleNames(),
	}
}

// ToUserResponses converts a slice of domain users, preserving order.
func ToUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// ToTaskResponse converts a domain task into its API representation.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       string(task.Status),
		Category:     task.Category,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		UserID:       task.UserID,
		ParentTaskID: task.ParentTaskID,
	}
}

// ToTaskResponses converts a slice of domain tasks, preserving order.
func ToTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t))
	}
	return out
}
