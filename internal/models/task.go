package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusCompleted TaskStatus = "Completed"
)

type TaskCategory string

const (
	TaskCategoryWork     TaskCategory = "Work"
	TaskCategoryPersonal TaskCategory = "Personal"
	TaskCategoryShopping TaskCategory = "Shopping"
	TaskCategoryOther    TaskCategory = "Other"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// ValidStatus reports whether s is one of the accepted status values.
func ValidStatus(s TaskStatus) bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// ValidCategory reports whether c is one of the accepted category values.
func ValidCategory(c TaskCategory) bool {
	switch c {
	case TaskCategoryWork, TaskCategoryPersonal, TaskCategoryShopping, TaskCategoryOther:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description"`
	Category    TaskCategory       `bson:"category" json:"category"`
	Status      TaskStatus         `bson:"status" json:"status"`
	Priority    TaskPriority       `bson:"priority" json:"priority"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"due_date"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
