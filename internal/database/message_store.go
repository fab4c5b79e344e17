package database

import (
	"context"
	"time"

	"taskhive/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStore persists chat messages for the realtime hub
type MessageStore struct{}

// NewMessageStore returns a store backed by the process-wide database handle
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// SaveMessage stores a chat message with a server-assigned timestamp and
// returns the persisted document
func (s *MessageStore) SaveMessage(ctx context.Context, groupID, username, text string) (models.Message, error) {
	message := models.Message{
		GroupID:   groupID,
		Username:  username,
		Message:   text,
		Timestamp: time.Now(),
	}

	result, err := Collection(MessagesCollection).InsertOne(ctx, message)
	if err != nil {
		return models.Message{}, err
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = id
	}
	return message, nil
}
