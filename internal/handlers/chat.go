package handlers

import (
	"context"
	"net/http"

	"taskhive/internal/database"
	"taskhive/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetGroupMessages returns a group's chat history sorted ascending by
// timestamp. This is the replay counterpart of the realtime channel: clients
// fetch history here, then receive new messages live.
func GetGroupMessages(c *gin.Context) {
	groupID := c.Param("groupId")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group ID is required."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.Collection(database.MessagesCollection).Find(ctx,
		bson.M{"groupId": groupID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch messages", err)
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch messages", err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
