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
)

// GetTodos lists the authenticated user's to-do items
func GetTodos(c *gin.Context) {
	userID, ok := todoUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.Collection(database.TodosCollection).
		Find(ctx, bson.M{"userId": userID})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch To-Do items", err)
		return
	}
	defer cursor.Close(ctx)

	todos := []models.Todo{}
	if err := cursor.All(ctx, &todos); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch To-Do items", err)
		return
	}

	c.JSON(http.StatusOK, todos)
}

// AddTodo creates a new to-do item for the authenticated user
func AddTodo(c *gin.Context) {
	userID, ok := todoUserID(c)
	if !ok {
		return
	}

	var request models.CreateTodoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	todo := models.Todo{
		UserID: userID,
		Text:   request.Text,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := database.Collection(database.TodosCollection).InsertOne(ctx, todo)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create To-Do item", err)
		return
	}
	todo.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo updates a to-do item's text or completed flag
func UpdateTodo(c *gin.Context) {
	userID, ok := todoUserID(c)
	if !ok {
		return
	}

	todoID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid To-Do ID"})
		return
	}

	var request models.UpdateTodoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid To-Do update"})
		return
	}

	update := bson.M{}
	if request.Text != nil {
		update["text"] = *request.Text
	}
	if request.Completed != nil {
		update["completed"] = *request.Completed
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	todos := database.Collection(database.TodosCollection)
	result, err := todos.UpdateOne(ctx,
		bson.M{"_id": todoID, "userId": userID},
		bson.M{"$set": update})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update To-Do item", err)
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "To-Do item not found"})
		return
	}

	var todo models.Todo
	if err := todos.FindOne(ctx, bson.M{"_id": todoID}).Decode(&todo); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch To-Do item", err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

// DeleteTodo removes one of the authenticated user's to-do items
func DeleteTodo(c *gin.Context) {
	userID, ok := todoUserID(c)
	if !ok {
		return
	}

	todoID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid To-Do ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := database.Collection(database.TodosCollection).
		DeleteOne(ctx, bson.M{"_id": todoID, "userId": userID})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete To-Do item", err)
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "To-Do item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "To-Do item deleted successfully"})
}

// todoUserID resolves the authenticated user's id from the request context
func todoUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		logrus.Errorf("Error: Invalid user id in context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
