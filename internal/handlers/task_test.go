package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault-api/internal/auth"
	"github.com/taskvault/taskvault-api/internal/dto"
	"github.com/taskvault/taskvault-api/internal/middleware"
	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/repository"
	"github.com/taskvault/taskvault-api/internal/services"
)

type taskTestEnv struct {
	router *gin.Engine
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := services.NewAuthService(repository.NewMemoryUserRepository(), tokens, 4)
	taskService := services.NewTaskService(repository.NewMemoryTaskRepository())

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	r.POST("/api/users/register", authHandler.Register)
	r.POST("/api/users/login", authHandler.Login)

	tasks := r.Group("/api/tasks")
	tasks.Use(middleware.RequireAuth(tokens))
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return taskTestEnv{router: r}
}

// registerAndLogin creates an account and returns a valid session token.
func (env taskTestEnv) registerAndLogin(t *testing.T, username, email string) string {
	t.Helper()

	w := doJSON(t, env.router, http.MethodPost, "/api/users/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "Str0ng!Pass",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, env.router, http.MethodPost, "/api/users/login", map[string]string{
		"email":    email,
		"password": "Str0ng!Pass",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var tokenResp dto.TokenDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	return tokenResp.Token
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	env := setupTaskTestEnv(t)
	token := env.registerAndLogin(t, "alice", "alice@x.com")

	// Create with defaults.
	w := doJSON(t, env.router, http.MethodPost, "/api/tasks", map[string]string{
		"title": "Buy milk",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "Buy milk", created.Title)
	require.Equal(t, models.TaskCategoryOther, created.Category)
	require.Equal(t, models.TaskStatusPending, created.Status)
	require.Equal(t, models.TaskPriorityMedium, created.Priority)

	// The new task shows up in a status-filtered list.
	w = doJSON(t, env.router, http.MethodGet, "/api/tasks?status=Pending", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.TaskListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Tasks, 1)
	require.Equal(t, created.ID, list.Tasks[0].ID)

	// Partial update flips just the status.
	w = doJSON(t, env.router, http.MethodPut, "/api/tasks/"+created.ID, map[string]string{
		"status": "Completed",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.Equal(t, "Buy milk", updated.Title)

	// Delete returns the snapshot; a following get is 404.
	w = doJSON(t, env.router, http.MethodDelete, "/api/tasks/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var removed dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &removed))
	require.Equal(t, created.ID, removed.ID)

	w = doJSON(t, env.router, http.MethodGet, "/api/tasks/"+created.ID, nil, token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ValidationErrors(t *testing.T) {
	env := setupTaskTestEnv(t)
	token := env.registerAndLogin(t, "alice", "alice@x.com")

	// Missing title fails binding.
	w := doJSON(t, env.router, http.MethodPost, "/api/tasks", map[string]string{}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Title under the minimum length.
	w = doJSON(t, env.router, http.MethodPost, "/api/tasks", map[string]string{
		"title": "ab",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown enum value.
	w = doJSON(t, env.router, http.MethodPost, "/api/tasks", map[string]string{
		"title":    "Buy milk",
		"priority": "Urgent",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed task ID in the path.
	w = doJSON(t, env.router, http.MethodGet, "/api/tasks/not-an-id", nil, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_OwnerIsolation(t *testing.T) {
	env := setupTaskTestEnv(t)
	tokenA := env.registerAndLogin(t, "alice", "alice@x.com")
	tokenB := env.registerAndLogin(t, "bob", "bob@x.com")

	w := doJSON(t, env.router, http.MethodPost, "/api/tasks", map[string]string{
		"title": "Alice's task",
	}, tokenA)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Bob gets the same 404 body whether the task is foreign or absent.
	foreign := doJSON(t, env.router, http.MethodGet, "/api/tasks/"+created.ID, nil, tokenB)
	require.Equal(t, http.StatusNotFound, foreign.Code)

	absent := doJSON(t, env.router, http.MethodGet, "/api/tasks/64f1c2d4e5a6b7c8d9e0f1a2", nil, tokenB)
	require.Equal(t, http.StatusNotFound, absent.Code)
	require.Equal(t, absent.Body.String(), foreign.Body.String())

	w = doJSON(t, env.router, http.MethodPut, "/api/tasks/"+created.ID, map[string]string{
		"title": "hijacked",
	}, tokenB)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, env.router, http.MethodDelete, "/api/tasks/"+created.ID, nil, tokenB)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Bob's list never includes Alice's tasks.
	w = doJSON(t, env.router, http.MethodGet, "/api/tasks", nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.TaskListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Empty(t, list.Tasks)

	// Alice still owns it.
	w = doJSON(t, env.router, http.MethodGet, "/api/tasks/"+created.ID, nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskHandler_RequiresAuth(t *testing.T) {
	env := setupTaskTestEnv(t)

	w := doJSON(t, env.router, http.MethodGet, "/api/tasks", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, env.router, http.MethodPost, "/api/tasks", map[string]string{
		"title": "Buy milk",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
