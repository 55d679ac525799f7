package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskvault/taskvault-api/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the query.
	ErrNotFound = errors.New("repository: document not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicateKey when the
	// username or email is already taken.
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsernameOrEmail finds a user matching either value, used for
	// registration conflict checks
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}

// TaskFilter holds the optional constraints for listing tasks. Nil or
// empty fields mean no constraint; set fields compose with AND.
type TaskFilter struct {
	Category *models.TaskCategory
	Status   *models.TaskStatus
	Search   string
}

// TaskRepository defines the interface for task data access. Every
// operation that addresses a single task is scoped by owner: a task
// belonging to someone else behaves exactly like a missing one.
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID for the given owner
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error)

	// List retrieves the owner's tasks matching the filter, newest first
	List(ctx context.Context, ownerID primitive.ObjectID, filter TaskFilter) ([]models.Task, error)

	// Update replaces a task, scoped by ID and owner
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task for the given owner and returns the removed
	// document
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error)
}
