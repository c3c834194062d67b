package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Media storage
	StorageBackend    string
	StoragePath       string
	UploadsURLPath    string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKey       string
	S3SecretKey       string
	S3Prefix          string
	S3PublicBaseURL   string
	MediaSweepEvery   time.Duration
	MediaOrphanMinAge time.Duration

	// Audit
	AuditStrict bool

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Bootstrap admin, created on startup when missing
	AdminEmail    string
	AdminPassword string

	// Email (Resend); notifications are off without an API key
	ResendAPIKey  string
	FromEmail     string
	AdminPanelURL string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8001"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		StorageBackend:     strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		StoragePath:        getEnv("STORAGE_PATH", "./uploads"),
		UploadsURLPath:     getEnv("UPLOADS_URL_PATH", "/uploads"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Region:           getEnv("S3_REGION", "ap-south-1"),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getEnv("S3_SECRET_KEY", ""),
		S3Prefix:           getEnv("S3_PREFIX", "uploads"),
		S3PublicBaseURL:    getEnv("S3_PUBLIC_BASE_URL", ""),
		MediaSweepEvery:    getEnvAsDuration("MEDIA_SWEEP_INTERVAL", 6*time.Hour),
		MediaOrphanMinAge:  getEnvAsDuration("MEDIA_ORPHAN_MIN_AGE", time.Hour),
		AuditStrict:        getEnvAsBool("AUDIT_STRICT", false),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", 2),
		AllowedOrigins:     getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@ahamhfc.com"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@ahamhfc.com"),
		AdminPanelURL:      getEnv("ADMIN_PANEL_URL", "https://admin.ahamhfc.com"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
		if cfg.S3PublicBaseURL == "" {
			return nil, fmt.Errorf("S3_PUBLIC_BASE_URL is required when STORAGE_BACKEND=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q (must be 'local' or 's3')", cfg.StorageBackend)
	}

	if !strings.HasPrefix(cfg.UploadsURLPath, "/") {
		cfg.UploadsURLPath = "/" + cfg.UploadsURLPath
	}
	cfg.UploadsURLPath = strings.TrimSuffix(cfg.UploadsURLPath, "/")

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration strings such as "90m" or "6h".
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
