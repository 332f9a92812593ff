// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	BaseURL     string

	// Firebase (identity + document store)
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseWebAPIKey       string

	// Redis (rate limiting)
	RedisURL string

	// Security
	TicketSecret string
	TicketExpiry time.Duration

	// Email
	EmailProvider  string // "sendgrid" or "mock"
	EmailFrom      string
	EmailFromName  string
	SendGridAPIKey string

	// Storage (S3)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Bucket           string

	// Upload limits
	MaxImageSizeBytes int64

	// Rate limiting
	LoginAttemptsMax    int
	LoginAttemptsWindow time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", ""),

		// Firebase
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseWebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Security
		TicketSecret: getEnv("TICKET_SECRET", "change-this-ticket-secret-in-production"),
		TicketExpiry: getEnvDuration("TICKET_EXPIRY", "2m"),

		// Email
		EmailProvider:  getEnv("EMAIL_PROVIDER", "mock"), // sendgrid or mock
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@picshare.app"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "PicShare"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		// Storage
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3Bucket:           getEnv("S3_BUCKET_NAME", "picshare-uploads"),

		// Upload limits
		MaxImageSizeBytes: getEnvInt64("MAX_IMAGE_SIZE_BYTES", 5<<20), // 5MB

		// Rate limiting
		LoginAttemptsMax:    getEnvInt("LOGIN_ATTEMPTS_MAX", 5),
		LoginAttemptsWindow: getEnvDuration("LOGIN_ATTEMPTS_WINDOW", "15m"),
	}

	// Set BaseURL if not provided
	if cfg.BaseURL == "" {
		if cfg.Environment == "production" {
			cfg.BaseURL = "https://api.picshare.app"
		} else {
			cfg.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
		}
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return fmt.Errorf("Firebase project ID is required")
	}

	if c.FirebaseWebAPIKey == "" {
		return fmt.Errorf("Firebase web API key is required for password sign-in")
	}

	if c.TicketSecret == "change-this-ticket-secret-in-production" && c.Environment == "production" {
		return fmt.Errorf("ticket secret must be changed for production")
	}

	switch c.EmailProvider {
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required when EMAIL_PROVIDER=sendgrid")
		}
	case "mock":
		if c.Environment == "production" {
			return fmt.Errorf("mock email provider cannot be used in production")
		}
	default:
		return fmt.Errorf("invalid email provider: %s", c.EmailProvider)
	}

	if c.S3Bucket == "" {
		return fmt.Errorf("S3 bucket name is required")
	}

	if c.MaxImageSizeBytes <= 0 {
		return fmt.Errorf("max image size must be positive")
	}

	if c.LoginAttemptsMax < 1 {
		return fmt.Errorf("rate limiting values must be positive")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper functions

// getEnv gets a string value from environment with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment with a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 gets a 64-bit integer value from environment with a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment with a default
func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		// If parsing fails, try to parse the default
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
