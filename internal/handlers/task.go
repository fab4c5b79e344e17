package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskhive/internal/database"
	"taskhive/internal/models"
	"taskhive/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// allowedUploadExtensions restricts task attachment formats
var allowedUploadExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".pdf": true, ".docx": true, ".xlsx": true,
}

// CreateTask creates a task on a group's board and writes an assignment
// notification for each assignee
func CreateTask(c *gin.Context) {
	groupID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID."})
		return
	}

	var request models.CreateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.Errorf("Error: Invalid task input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required."})
		return
	}

	email := c.GetString("email")

	// Default the assignee list to the creator
	assignees := request.Assignees
	if len(assignees) == 0 {
		assignees = []string{email}
	}

	priority := request.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		Title:       request.Title,
		Description: request.Description,
		Assignees:   assignees,
		CreatedBy:   email,
		GroupID:     groupID,
		Priority:    priority,
		Reminder:    request.Reminder,
		Deadline:    request.Deadline,
		Status:      models.StatusPending,
		CreatedAt:   time.Now(),
		Comments:    []models.Comment{},
		Files:       []models.TaskFile{},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := database.Collection(database.TasksCollection).InsertOne(ctx, task)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create task.", err)
		return
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	// Notify each assignee about the new task
	now := time.Now()
	notifications := make([]interface{}, 0, len(assignees))
	for _, assignee := range assignees {
		notifications = append(notifications, models.Notification{
			User:      assignee,
			Message:   fmt.Sprintf("New task assigned: %s", task.Title),
			GroupID:   groupID,
			Timestamp: now,
		})
	}
	if _, err := database.Collection(database.NotificationsCollection).
		InsertMany(ctx, notifications); err != nil {
		logrus.Warnf("Failed to create assignment notifications: %v", err)
	}

	c.JSON(http.StatusCreated, task)
}

// GetGroupTasks lists all tasks for a group
func GetGroupTasks(c *gin.Context) {
	groupID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.Collection(database.TasksCollection).
		Find(ctx, bson.M{"groupId": groupID})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch tasks.", err)
		return
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch tasks.", err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// UpdateTask applies a partial update to a task; used by the kanban board to
// move tasks between columns
func UpdateTask(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID."})
		return
	}

	var request models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.Errorf("Error: Invalid task update: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task update."})
		return
	}

	update := bson.M{}
	if request.Title != nil {
		update["title"] = *request.Title
	}
	if request.Description != nil {
		update["description"] = *request.Description
	}
	if request.Assignees != nil {
		update["assignees"] = request.Assignees
	}
	if request.Deadline != nil {
		update["deadline"] = *request.Deadline
	}
	if request.Priority != nil {
		update["priority"] = *request.Priority
	}
	if request.Reminder != nil {
		update["reminder"] = *request.Reminder
	}
	if request.Status != nil {
		update["status"] = *request.Status
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	tasks := database.Collection(database.TasksCollection)
	if _, err := tasks.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": update}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update the task.", err)
		return
	}

	var task models.Task
	if err := tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		handleError(c, http.StatusNotFound, "Task not found.", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func DeleteTask(c *gin.Context) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.Collection(database.TasksCollection).
		DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete the task.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully."})
}

// AddComment appends a comment to a task
func AddComment(c *gin.Context) {
	var request models.AddCommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty."})
		return
	}

	comment := strings.TrimSpace(request.Comment)
	if comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty."})
		return
	}
	if len(comment) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment is too long. Maximum allowed length is 500 characters."})
		return
	}

	task, ok := findTask(c)
	if !ok {
		return
	}

	newComment := models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      comment,
		CreatedBy: c.GetString("email"),
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.Collection(database.TasksCollection).UpdateOne(ctx,
		bson.M{"_id": task.ID},
		bson.M{"$push": bson.M{"comments": newComment}}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to add comment.", err)
		return
	}

	c.JSON(http.StatusOK, newComment)
}

// GetComments returns all comments on a task
func GetComments(c *gin.Context) {
	task, ok := findTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task.Comments)
}

// UploadTaskFile attaches an uploaded file to a task
func UploadTaskFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded."})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file format."})
		return
	}

	task, ok := findTask(c)
	if !ok {
		return
	}

	storedPath := filepath.Join(uploadDir, utils.StoredFilename(file.Filename))
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to store file.", err)
		return
	}

	attachment := models.TaskFile{
		ID:         primitive.NewObjectID(),
		Name:       file.Filename,
		Path:       storedPath,
		UploadedBy: c.GetString("email"),
		UploadedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.Collection(database.TasksCollection).UpdateOne(ctx,
		bson.M{"_id": task.ID},
		bson.M{"$push": bson.M{"files": attachment}}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to upload file.", err)
		return
	}

	task.Files = append(task.Files, attachment)
	c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully.", "file": task.Files})
}

// GetTaskFiles lists a task's attachments
func GetTaskFiles(c *gin.Context) {
	task, ok := findTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task.Files)
}

// DeleteTaskFile removes an attachment from a task and from disk
func DeleteTaskFile(c *gin.Context) {
	task, ok := findTask(c)
	if !ok {
		return
	}

	fileID, err := primitive.ObjectIDFromHex(c.Param("fileId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID."})
		return
	}

	var file *models.TaskFile
	for i := range task.Files {
		if task.Files[i].ID == fileID {
			file = &task.Files[i]
			break
		}
	}
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.Collection(database.TasksCollection).UpdateOne(ctx,
		bson.M{"_id": task.ID},
		bson.M{"$pull": bson.M{"files": bson.M{"_id": fileID}}}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete file.", err)
		return
	}

	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Failed to remove file %s from disk: %v", file.Path, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully."})
}

// DownloadTaskFile serves a task attachment for download
func DownloadTaskFile(c *gin.Context) {
	task, ok := findTask(c)
	if !ok {
		return
	}

	fileID, err := primitive.ObjectIDFromHex(c.Param("fileId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID."})
		return
	}

	for _, file := range task.Files {
		if file.ID == fileID {
			if _, err := os.Stat(file.Path); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "File not found on server."})
				return
			}
			c.FileAttachment(file.Path, file.Name)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "File not found in task."})
}

// findTask loads the task named by the :id route parameter, answering the
// request itself when the id is invalid or the task does not exist
func findTask(c *gin.Context) (models.Task, bool) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID."})
		return models.Task{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var task models.Task
	if err := database.Collection(database.TasksCollection).
		FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		logrus.Errorf("Error: Task not found: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found."})
		return models.Task{}, false
	}

	return task, true
}
