package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// requestTimeout bounds every handler's database work
const requestTimeout = 10 * time.Second

// uploadDir is where uploaded files are stored on disk
var uploadDir = "uploads"

// SetUploadDir configures the upload directory; called once at startup
func SetUploadDir(dir string) {
	uploadDir = dir
}

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	logrus.Errorf("Error: %v", err)
	c.JSON(status, gin.H{"error": message})
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to TaskHive!")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
