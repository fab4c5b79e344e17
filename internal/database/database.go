package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	UsersCollection         = "users"
	GroupsCollection        = "groups"
	TasksCollection         = "tasks"
	NotificationsCollection = "notifications"
	MessagesCollection      = "messages"
	TodosCollection         = "todos"
	FilesCollection         = "files"
)

var db *mongo.Database

// InitDB connects to MongoDB and stores the database handle for the process
func InitDB(uri, dbName string) error {
	var client *mongo.Client
	var err error

	// Open connection with retry logic
	maxRetries := 5
	retryDelay := time.Second * 5

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			err = client.Ping(ctx, readpref.Primary())
		}
		cancel()
		if err == nil {
			break
		}
		logrus.Errorf("Database connection attempt %d failed: %v", i+1, err)
		if i < maxRetries-1 {
			logrus.Infof("Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db = client.Database(dbName)
	logrus.Info("Database connection established")
	return nil
}

// GetDB returns the database instance
func GetDB() *mongo.Database {
	return db
}

// Collection returns a handle to the named collection
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}
