package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port             string
	MongoURI         string
	MongoDatabase    string
	JWTSecret        string
	JWTRefreshSecret string
	AllowedOrigins   []string
	UploadDir        string
	ReminderInterval time.Duration
	SendGridAPIKey   string
	SendGridFrom     string
	SendGridFromName string
	LogLevel         string
}

// Load loads configuration from environment variables. A .env file is read
// first if present so local development works without exporting anything.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "5001"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "taskhive"),
		UploadDir:        getEnvOrDefault("UPLOAD_DIR", "uploads"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:     os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName: getEnvOrDefault("SENDGRID_FROM_NAME", "TaskHive"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Required environment variables
	if cfg.MongoURI = os.Getenv("MONGO_URI"); cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}
	if cfg.JWTSecret = os.Getenv("JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTRefreshSecret = getEnvOrDefault("JWT_REFRESH_SECRET", cfg.JWTSecret)

	origins := getEnvOrDefault("ALLOWED_ORIGINS", "http://127.0.0.1:3000,http://localhost:3000")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	interval := getEnvOrDefault("REMINDER_SCAN_INTERVAL", "1m")
	parsed, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_SCAN_INTERVAL format: %w", err)
	}
	cfg.ReminderInterval = parsed

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
