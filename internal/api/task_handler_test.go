package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/mocks"
	"github.com/Tooflex/task-manager-server/internal/service"
)

type taskHandlerFixture struct {
	taskStore *mocks.MockTaskStore
	handler   *TaskHandler
}

func newTaskHandlerFixture() *taskHandlerFixture {
	taskStore := mocks.NewMockTaskStore()
	return &taskHandlerFixture{
		taskStore: taskStore,
		handler:   NewTaskHandler(service.NewTaskService(taskStore, testLogger()), testLogger()),
	}
}

func (f *taskHandlerFixture) seedTask(t *testing.T, title string, mutate func(*domain.Task)) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, "", "general", 0, uuid.New())
	require.NoError(t, err)
	task.CreatedAt = time.Now().UTC().Add(-time.Hour)
	task.UpdatedAt = task.CreatedAt
	if mutate != nil {
		mutate(task)
	}
	f.taskStore.Tasks[task.ID] = task
	return task
}

func (f *taskHandlerFixture) routes(r chi.Router) {
	r.Get("/tasks", f.handler.ListTasks)
	r.Post("/tasks", f.handler.CreateTask)
	r.Get("/tasks/status/{status}", f.handler.ListTasksByStatus)
	r.Get("/tasks/category/{category}", f.handler.ListTasksByCategory)
	r.Get("/tasks/user/{userID}", f.handler.ListTasksByUser)
	r.Get("/tasks/priority/{priority}", f.handler.ListTasksByPriority)
	r.Get("/tasks/overdue", f.handler.ListOverdueTasks)
	r.Get("/tasks/created-after", f.handler.ListTasksCreatedAfter)
	r.Put("/tasks/{id}", f.handler.UpdateTask)
	r.Delete("/tasks/{id}", f.handler.DeleteTask)
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture()
	f.seedTask(t, "first", nil)
	f.seedTask(t, "second", nil)

	recorder := serve(f.routes, httptest.NewRequest("GET", "/tasks", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var tasks []TaskResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tasks))
	assert.Len(t, tasks, 2)
}

func TestListTasksByStatusEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture()
	f.seedTask(t, "pending", nil)
	f.seedTask(t, "done", func(task *domain.Task) { task.Status = domain.TaskStatusDone })

	recorder := serve(f.routes, httptest.NewRequest("GET", "/tasks/status/DONE", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var tasks []TaskResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Title)

	// Unknown statuses are rejected, not treated as empty filters.
	recorder = serve(f.routes, httptest.NewRequest("GET", "/tasks/status/CANCELLED", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListTasksByUserEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture()
	task := f.seedTask(t, "mine", nil)
	f.seedTask(t, "theirs", nil)

	recorder := serve(f.routes, httptest.NewRequest("GET", "/tasks/user/"+task.UserID.String(), nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var tasks []TaskResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	recorder = serve(f.routes, httptest.NewRequest("GET", "/tasks/user/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListTasksByPriorityEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture()
	f.seedTask(t, "urgent", func(task *domain.Task) { task.Priority = 5 })
	f.seedTask(t, "normal", nil)

	recorder := serve(f.routes, httptest.NewRequest("GET", "/tasks/priority/5", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var tasks []TaskResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "urgent", tasks[0].Title)

	recorder = serve(f.routes, httptest.NewRequest("GET", "/tasks/priority/high", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListOverdueTasksEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture()
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	f.seedTask(t, "late", func(task *domain.Task) { task.DueDate = &yesterday })
	f.seedTask(t, "upcoming", func(task *domain.Task) { task.DueDate = &tomorrow })
	f.seedTask(t, "undated", nil)

	recorder := serve(f.routes, httptest.NewRequest("GET", "/tasks/overdue", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var tasks []TaskResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "late", tasks[0].Title)
}

func TestListTasksCreatedAfterEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture()
	f.seedTask(t, "recent", nil)

	cutoff := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)
	recorder := serve(f.routes, httptest.NewRequest("GET", "/tasks/created-after?after="+cutoff, nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var tasks []TaskResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tasks))
	assert.Len(t, tasks, 1)

	recorder = serve(f.routes, httptest.NewRequest("GET", "/tasks/created-after", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(f.routes, httptest.NewRequest("GET", "/tasks/created-after?after=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateTaskEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid create", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture()
		ownerID := uuid.New()

		body, _ := json.Marshal(map[string]interface{}{
			"title":    "Write report",
			"status":   "IN_PROGRESS",
			"category": "work",
			"priority": 3,
			"userId":   ownerID,
		})
		req := httptest.NewRequest("POST", "/tasks", bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Write report", resp.Title)
		assert.Equal(t, "IN_PROGRESS", resp.Status)
		assert.Equal(t, ownerID, resp.UserID)
		assert.False(t, resp.CreatedAt.IsZero())
		assert.Equal(t, resp.CreatedAt, resp.UpdatedAt)
	})

	t.Run("status defaults to pending", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture()

		body, _ := json.Marshal(map[string]interface{}{
			"title":  "Untracked",
			"userId": uuid.New(),
		})
		recorder := serve(f.routes, httptest.NewRequest("POST", "/tasks", bytes.NewBuffer(body)))
		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "PENDING", resp.Status)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture()

		body, _ := json.Marshal(map[string]interface{}{
			"userId": uuid.New(),
		})
		recorder := serve(f.routes, httptest.NewRequest("POST", "/tasks", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing owner", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture()

		body, _ := json.Marshal(map[string]interface{}{
			"title": "Orphan",
		})
		recorder := serve(f.routes, httptest.NewRequest("POST", "/tasks", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateTaskEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("updates existing task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture()
		task := f.seedTask(t, "original", nil)

		body, _ := json.Marshal(map[string]interface{}{
			"title":    "updated",
			"status":   "DONE",
			"priority": 1,
		})
		req := httptest.NewRequest("PUT", "/tasks/"+task.ID.String(), bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "updated", resp.Title)
		assert.Equal(t, "DONE", resp.Status)
		assert.Equal(t, task.UserID, resp.UserID, "owner must not change on update")
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture()

		body, _ := json.Marshal(map[string]interface{}{
			"title":  "updated",
			"status": "DONE",
		})
		req := httptest.NewRequest("PUT", "/tasks/"+uuid.NewString(), bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture()
		task := f.seedTask(t, "original", nil)

		body, _ := json.Marshal(map[string]interface{}{
			"title":  "updated",
			"status": "ARCHIVED",
		})
		req := httptest.NewRequest("PUT", "/tasks/"+task.ID.String(), bytes.NewBuffer(body))

		recorder := serve(f.routes, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestDeleteTaskEndpoint(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture()
	task := f.seedTask(t, "doomed", nil)

	recorder := serve(f.routes, httptest.NewRequest("DELETE", "/tasks/"+task.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = serve(f.routes, httptest.NewRequest("DELETE", "/tasks/"+task.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
