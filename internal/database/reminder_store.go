package database

import (
	"context"
	"time"

	"taskhive/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskStore reads tasks for the reminder worker
type TaskStore struct{}

// NewTaskStore returns a store backed by the process-wide database handle
func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// UpcomingWithReminders returns every task that has a reminder descriptor set
// and a deadline strictly in the future
func (s *TaskStore) UpcomingWithReminders(ctx context.Context, now time.Time) ([]models.Task, error) {
	filter := bson.M{
		"reminder": bson.M{"$exists": true, "$ne": ""},
		"deadline": bson.M{"$gt": now},
	}

	cursor, err := Collection(TasksCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// NotificationStore reads and writes reminder notifications
type NotificationStore struct{}

// NewNotificationStore returns a store backed by the process-wide database handle
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// Exists reports whether a notification with the exact (user, message, group)
// triple is already stored
func (s *NotificationStore) Exists(ctx context.Context, user, message string, groupID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"user":    user,
		"message": message,
		"groupId": groupID,
	}

	err := Collection(NotificationsCollection).FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create stores a new notification
func (s *NotificationStore) Create(ctx context.Context, notification models.Notification) error {
	_, err := Collection(NotificationsCollection).InsertOne(ctx, notification)
	return err
}
