package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App    AppConfig
	Redis  RedisConfig
	MinIO  MinIOConfig
	Upload UploadConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

// RedisConfig describes the record store. Memorials are stored as one JSON
// document per slug - no relational database is involved.
type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is the externally reachable root under which objects in
	// the bucket can be fetched (CDN or the MinIO endpoint itself). Public
	// image URLs are this base joined with the object key.
	PublicBaseURL string
}

type UploadConfig struct {
	// URLExpiryMinutes bounds the validity window of presigned PUT URLs.
	URLExpiryMinutes int
	// MaxImages caps the gallery size of a single memorial.
	MaxImages int
	// MaxBatchSlugs caps the slug count of one batch lookup request.
	MaxBatchSlugs int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Memorial API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("MINIO_BUCKET", "memorials"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", "http://localhost:9000/memorials"),
		},
		Upload: UploadConfig{
			URLExpiryMinutes: getEnvInt("UPLOAD_URL_EXPIRY_MINUTES", 10),
			MaxImages:        getEnvInt("UPLOAD_MAX_IMAGES", 12),
			MaxBatchSlugs:    getEnvInt("LOOKUP_MAX_SLUGS", 50),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for obviously broken values.
func (c *Config) Validate() error {
	if c.MinIO.Bucket == "" {
		return fmt.Errorf("MINIO_BUCKET must not be empty")
	}
	if c.MinIO.PublicBaseURL == "" {
		return fmt.Errorf("MINIO_PUBLIC_BASE_URL must not be empty")
	}
	if c.Upload.URLExpiryMinutes <= 0 {
		return fmt.Errorf("UPLOAD_URL_EXPIRY_MINUTES must be positive")
	}

	if c.App.Environment == "production" {
		if c.MinIO.AccessKey == "minioadmin" || c.MinIO.SecretKey == "minioadmin" {
			return fmt.Errorf("default MinIO credentials must not be used in production")
		}
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
