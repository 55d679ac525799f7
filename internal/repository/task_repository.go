package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskvault/taskvault-api/internal/models"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository backed by the "tasks"
// collection.
func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{coll: db.Collection("tasks")}
}

// Create inserts a new task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	res, err := r.coll.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = id
	}
	return nil
}

// FindByID finds a task by ID for the given owner
func (r *MongoTaskRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.coll.FindOne(ctx, ownedFilter(id, ownerID)).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// List retrieves the owner's tasks matching the filter, newest first.
// Ties on created_at fall back to _id so the order stays deterministic.
func (r *MongoTaskRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{"user_id": ownerID}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Search != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update replaces a task, scoped by ID and owner
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	res, err := r.coll.ReplaceOne(ctx, ownedFilter(task.ID, task.UserID), task)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task for the given owner and returns the removed document
func (r *MongoTaskRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.coll.FindOneAndDelete(ctx, ownedFilter(id, ownerID)).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func ownedFilter(id, ownerID primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "user_id": ownerID}
}
