package handlers

import (
	"context"
	"net/http"

	"taskhive/internal/database"
	"taskhive/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetNotifications lists the authenticated user's notifications for a group,
// newest first. The group itself may already be deleted; notifications for it
// are still readable.
func GetNotifications(c *gin.Context) {
	groupID, err := primitive.ObjectIDFromHex(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID."})
		return
	}

	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.Collection(database.NotificationsCollection).Find(ctx,
		bson.M{"groupId": groupID, "user": email},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch notifications.", err)
		return
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch notifications.", err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// DeleteNotification dismisses one of the authenticated user's notifications
func DeleteNotification(c *gin.Context) {
	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	notifications := database.Collection(database.NotificationsCollection)

	var notification models.Notification
	if err := notifications.FindOne(ctx, bson.M{"_id": notificationID}).Decode(&notification); err != nil {
		logrus.Errorf("Error: Notification not found: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found."})
		return
	}

	// Only the notification's owner may dismiss it
	if notification.User != c.GetString("email") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this notification."})
		return
	}

	if _, err := notifications.DeleteOne(ctx, bson.M{"_id": notificationID}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete notification.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully."})
}
