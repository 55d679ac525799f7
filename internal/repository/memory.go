package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskvault/taskvault-api/internal/models"
)

// In-memory implementations used by the test suites in place of a live
// MongoDB instance. They mirror the Mongo repositories' semantics:
// unique username/email on insert, owner-scoped single-task lookups,
// and newest-first listing with latest-inserted winning created_at ties.

// MemoryUserRepository is a map-backed UserRepository
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

// Create inserts a new user
func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicateKey
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, *user)
	return nil
}

// FindByID finds a user by ID
func (r *MemoryUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

// FindByEmail finds a user by normalized email
func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

// FindByUsernameOrEmail finds a user matching either value
func (r *MemoryUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username || u.Email == email })
}

// Count returns the number of stored users
func (r *MemoryUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *MemoryUserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// MemoryTaskRepository is a slice-backed TaskRepository
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []models.Task
}

// NewMemoryTaskRepository creates an empty in-memory TaskRepository
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{}
}

// Create inserts a new task
func (r *MemoryTaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	r.tasks = append(r.tasks, *task)
	return nil
}

// FindByID finds a task by ID for the given owner
func (r *MemoryTaskRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id && t.UserID == ownerID {
			task := t
			return &task, nil
		}
	}
	return nil, ErrNotFound
}

// List retrieves the owner's tasks matching the filter, newest first
func (r *MemoryTaskRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter TaskFilter) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.Task{}
	for i := len(r.tasks) - 1; i >= 0; i-- {
		t := r.tasks[i]
		if t.UserID != ownerID {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// Update replaces a task, scoped by ID and owner
func (r *MemoryTaskRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == task.ID && t.UserID == task.UserID {
			r.tasks[i] = *task
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a task for the given owner and returns the removed document
func (r *MemoryTaskRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == id && t.UserID == ownerID {
			task := t
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return &task, nil
		}
	}
	return nil, ErrNotFound
}
