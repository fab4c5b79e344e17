package handlers

import (
	"context"
	"net/http"

	"taskhive/internal/database"
	"taskhive/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetDashboard returns the authenticated user's groups together with every
// task in those groups
func GetDashboard(c *gin.Context) {
	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.Collection(database.GroupsCollection).
		Find(ctx, bson.M{"members": email})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch dashboard data", err)
		return
	}

	groups := []models.Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch dashboard data", err)
		return
	}

	groupIDs := make([]primitive.ObjectID, 0, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
	}

	tasks := []models.Task{}
	if len(groupIDs) > 0 {
		taskCursor, err := database.Collection(database.TasksCollection).
			Find(ctx, bson.M{"groupId": bson.M{"$in": groupIDs}})
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to fetch dashboard data", err)
			return
		}
		if err := taskCursor.All(ctx, &tasks); err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to fetch dashboard data", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"tasks":  tasks,
	})
}
