package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// TaskStatus represents the kanban column a task sits in
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// Comment is a note attached to a task
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	CreatedBy string             `bson:"createdBy" json:"created_by"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}

// TaskFile is a file attachment embedded in a task
type TaskFile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Path       string             `bson:"path" json:"path"`
	UploadedBy string             `bson:"uploadedBy" json:"uploaded_by"`
	UploadedAt time.Time          `bson:"uploadedAt" json:"uploaded_at"`
}

// Task represents a task on a group's kanban board. GroupID is advisory:
// the referenced group may have been deleted, and readers must tolerate that.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Assignees   []string           `bson:"assignees" json:"assignees"`
	CreatedBy   string             `bson:"createdBy" json:"created_by"`
	GroupID     primitive.ObjectID `bson:"groupId" json:"group_id"`
	Priority    TaskPriority       `bson:"priority" json:"priority"`
	Reminder    string             `bson:"reminder,omitempty" json:"reminder,omitempty"`
	Deadline    *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Status      TaskStatus         `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	Files       []TaskFile         `bson:"files" json:"files"`
}

// CreateTaskRequest represents the data needed to create a new task
type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Assignees   []string     `json:"assignees"`
	Deadline    *time.Time   `json:"deadline"`
	Priority    TaskPriority `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	Reminder    string       `json:"reminder"`
}

// UpdateTaskRequest carries the mutable task fields; nil fields are left as is
type UpdateTaskRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Assignees   []string      `json:"assignees"`
	Deadline    *time.Time    `json:"deadline"`
	Priority    *TaskPriority `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	Reminder    *string       `json:"reminder"`
	Status      *TaskStatus   `json:"status" binding:"omitempty,oneof=Pending 'In Progress' Completed"`
}

// AddCommentRequest represents the body of a comment creation call
type AddCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}
