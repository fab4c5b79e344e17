package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a feed entry for a single user. The scheduler guarantees
// that at most one notification ever exists for a given (user, message,
// group) triple.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      string             `bson:"user" json:"user"`
	Message   string             `bson:"message" json:"message"`
	GroupID   primitive.ObjectID `bson:"groupId" json:"group_id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
