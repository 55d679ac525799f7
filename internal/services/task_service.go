package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/repository"
)

const (
	MinTitleLength       = 3
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleLength         = errors.New("title must be between 3-100 characters")
	ErrDescriptionTooLong  = errors.New("description must be at most 500 characters")
	ErrInvalidTaskCategory = errors.New("invalid task category")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// TaskService handles owner-scoped task business logic. The owner ID on
// every method comes from the validated session token, never from client
// input, and every repository call is filtered by it.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task. Zero-valued
// optional fields take the system defaults.
type CreateTaskInput struct {
	Title       string
	Description string
	Category    models.TaskCategory
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// ListTasksInput represents filters for listing tasks. Empty fields mean
// no constraint; set fields compose with AND.
type ListTasksInput struct {
	Category string
	Status   string
	Search   string
}

// UpdateTaskInput represents input for partially updating a task. Only
// non-empty fields are applied; an empty string is indistinguishable from
// an omitted field, so a set description cannot be cleared back to empty.
type UpdateTaskInput struct {
	Title       string
	Description string
	Category    string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// Create validates the input, applies defaults, and persists a new task
// owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID primitive.ObjectID, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.Description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	if input.Category == "" {
		input.Category = models.TaskCategoryOther
	} else if !models.ValidCategory(input.Category) {
		return nil, ErrInvalidTaskCategory
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	} else if !models.ValidStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !models.ValidPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	now := time.Now()
	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Category:    input.Category,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List returns the owner's tasks matching the filters, newest first.
func (s *TaskService) List(ctx context.Context, ownerID primitive.ObjectID, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{Search: input.Search}
	if input.Category != "" {
		category := models.TaskCategory(input.Category)
		filter.Category = &category
	}
	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		filter.Status = &status
	}

	tasks, err := s.taskRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Get returns a single task. A task owned by someone else yields the same
// ErrTaskNotFound as a task that does not exist.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID primitive.ObjectID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// Update applies the supplied fields to an existing task under the same
// ownership rule as Get.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID primitive.ObjectID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != "" {
		title := strings.TrimSpace(input.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.Description != "" {
		if utf8.RuneCountInString(input.Description) > MaxDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		task.Description = input.Description
	}
	if input.Category != "" {
		category := models.TaskCategory(input.Category)
		if !models.ValidCategory(category) {
			return nil, ErrInvalidTaskCategory
		}
		task.Category = category
	}
	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		if !models.ValidStatus(status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = status
	}
	if input.Priority != "" {
		priority := models.TaskPriority(input.Priority)
		if !models.ValidPriority(priority) {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task under the same ownership rule as Get and returns
// the removed snapshot. Deleting an absent task is ErrTaskNotFound, not a
// silent success.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID primitive.ObjectID) (*models.Task, error) {
	task, err := s.taskRepo.Delete(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

func validateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < MinTitleLength || length > MaxTitleLength {
		return ErrTitleLength
	}
	return nil
}
