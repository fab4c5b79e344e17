package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Todo is a personal to-do item, scoped to one user and unrelated to groups
type Todo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"user_id"`
	Text      string             `bson:"text" json:"text"`
	Completed bool               `bson:"completed" json:"completed"`
}

// CreateTodoRequest represents the body of a to-do creation call
type CreateTodoRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateTodoRequest carries the mutable to-do fields
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}
