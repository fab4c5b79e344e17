package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"taskhive/internal/database"
	"taskhive/internal/models"
	"taskhive/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UploadFile stores a standalone upload on disk and records its metadata
func UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	storedPath := filepath.Join(uploadDir, utils.StoredFilename(file.Filename))
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		handleError(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	record := models.File{
		Name:       file.Filename,
		Path:       storedPath,
		Size:       file.Size,
		UploadDate: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := database.Collection(database.FilesCollection).InsertOne(ctx, record)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Server error", err)
		return
	}
	record.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{"message": "File uploaded successfully", "file": record})
}

// GetFiles lists all standalone uploads, newest first
func GetFiles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.Collection(database.FilesCollection).Find(ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}}))
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Server error", err)
		return
	}
	defer cursor.Close(ctx)

	files := []models.File{}
	if err := cursor.All(ctx, &files); err != nil {
		handleError(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, files)
}

// DownloadFile serves a standalone upload by its original name
func DownloadFile(c *gin.Context) {
	file, ok := findFileByName(c)
	if !ok {
		return
	}
	c.FileAttachment(file.Path, file.Name)
}

// DeleteFile removes a standalone upload from disk and from the database
func DeleteFile(c *gin.Context) {
	file, ok := findFileByName(c)
	if !ok {
		return
	}

	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		handleError(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.Collection(database.FilesCollection).
		DeleteOne(ctx, bson.M{"_id": file.ID}); err != nil {
		handleError(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// findFileByName loads the upload named by the :fileName route parameter
func findFileByName(c *gin.Context) (models.File, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var file models.File
	if err := database.Collection(database.FilesCollection).
		FindOne(ctx, bson.M{"name": c.Param("fileName")}).Decode(&file); err != nil {
		logrus.Errorf("Error: File not found: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return models.File{}, false
	}

	return file, true
}
