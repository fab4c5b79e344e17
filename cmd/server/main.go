package main

import (
	"context"
	"os"

	"taskhive/internal/auth"
	"taskhive/internal/config"
	"taskhive/internal/database"
	"taskhive/internal/handlers"
	"taskhive/internal/realtime"
	"taskhive/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Initialize database
	if err := database.InitDB(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logrus.Fatalf("Failed to create upload directory: %v", err)
	}
	handlers.SetUploadDir(cfg.UploadDir)

	// One realtime hub and one reminder worker per process
	hub := realtime.NewHub(database.NewMessageStore())

	email := services.NewEmailService(cfg.SendGridAPIKey, cfg.SendGridFrom, cfg.SendGridFromName)
	worker := services.NewReminderWorker(
		database.NewTaskStore(),
		database.NewNotificationStore(),
		email,
		cfg.ReminderInterval,
	)
	go worker.Start(context.Background())

	// Initialize Gin router
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Realtime channel
	router.GET("/ws", realtime.ServeWS(hub, cfg.AllowedOrigins))

	// Uploaded files are served statically
	router.Static("/uploads", cfg.UploadDir)

	api := router.Group("/api")

	// Auth routes (no auth required)
	api.POST("/signup", handlers.Signup)
	api.POST("/login", handlers.Login)
	api.POST("/refresh", handlers.Refresh)
	api.POST("/logout", handlers.Logout)

	// Protected routes (auth required)
	protected := api.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		// Groups
		protected.POST("/groups", handlers.CreateGroup)
		protected.GET("/groups", handlers.GetGroups)
		protected.GET("/groups/:id", handlers.GetGroupByID)
		protected.PUT("/groups/:id/add-member", handlers.AddMember)
		protected.PUT("/groups/:id/remove-member", handlers.RemoveMember)
		protected.DELETE("/groups/:id", handlers.DeleteGroup)
		protected.POST("/groups/:id/upload-file", handlers.UploadGroupFile)
		protected.GET("/groups/:id/members", handlers.GetGroupMembers)

		// Notifications sit under the literal "notifications" segment, which
		// wins over the :id wildcard below
		protected.GET("/tasks/notifications/:groupId", handlers.GetNotifications)
		protected.DELETE("/tasks/notifications/:id", handlers.DeleteNotification)

		// Task routes share the :id wildcard; it names a group for create and
		// list, and a task everywhere else
		protected.POST("/tasks/:id", handlers.CreateTask)
		protected.GET("/tasks/:id", handlers.GetGroupTasks)
		protected.PUT("/tasks/:id", handlers.UpdateTask)
		protected.DELETE("/tasks/:id", handlers.DeleteTask)

		// Task comments and attachments
		protected.POST("/tasks/:id/comments", handlers.AddComment)
		protected.GET("/tasks/:id/comments", handlers.GetComments)
		protected.POST("/tasks/:id/files", handlers.UploadTaskFile)
		protected.GET("/tasks/:id/files", handlers.GetTaskFiles)
		protected.DELETE("/tasks/:id/files/:fileId", handlers.DeleteTaskFile)
		protected.GET("/tasks/:id/files/download/:fileId", handlers.DownloadTaskFile)

		// Chat history
		protected.GET("/chat/:groupId", handlers.GetGroupMessages)

		// Todos
		protected.GET("/todos", handlers.GetTodos)
		protected.POST("/todos", handlers.AddTodo)
		protected.PUT("/todos/:id", handlers.UpdateTodo)
		protected.DELETE("/todos/:id", handlers.DeleteTodo)

		// Files
		protected.POST("/files/upload", handlers.UploadFile)
		protected.GET("/files", handlers.GetFiles)
		protected.GET("/files/download/:fileName", handlers.DownloadFile)
		protected.DELETE("/files/:fileName", handlers.DeleteFile)

		// Dashboard
		protected.GET("/dashboard", handlers.GetDashboard)
	}

	// Start the server
	logrus.Infof("Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatal(err)
	}
}
