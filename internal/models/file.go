package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File represents a standalone upload stored on local disk. Task attachments
// are a separate embedded type (TaskFile); the two are independent entities.
type File struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Path       string             `bson:"path" json:"path"`
	Size       int64              `bson:"size" json:"size"`
	UploadDate time.Time          `bson:"uploadDate" json:"upload_date"`
}
