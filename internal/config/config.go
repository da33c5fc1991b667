package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from env vars.
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	JWT     JWTConfig
	MinIO   MinIOConfig
	Storage StorageConfig
	Media   MediaConfig
	Queue   QueueConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the media backend.
type StorageConfig struct {
	Driver        string // minio | local
	LocalRoot     string // directory used by the local driver
	PublicBaseURL string // prefix for URLs of locally stored files
}

// MediaConfig holds upload limits.
type MediaConfig struct {
	CoverMaxKB        int
	CoverMaxDimension int
	PreviewMaxKB      int
}

type QueueConfig struct {
	Enabled bool
	// OrphanSweepCron is the asynq scheduler spec for the orphan media sweep.
	OrphanSweepCron string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookstore Catalog Admin"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60*24),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "bookstore"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			LocalRoot:     getEnv("STORAGE_LOCAL_ROOT", "./storage/public"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/storage"),
		},
		Media: MediaConfig{
			CoverMaxKB:        getEnvInt("MEDIA_COVER_MAX_KB", 2048),
			CoverMaxDimension: getEnvInt("MEDIA_COVER_MAX_DIMENSION", 2000),
			PreviewMaxKB:      getEnvInt("MEDIA_PREVIEW_MAX_KB", 10240),
		},
		Queue: QueueConfig{
			Enabled:         getEnvBool("QUEUE_ENABLED", true),
			OrphanSweepCron: getEnv("MEDIA_SWEEP_CRON", "0 3 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "minio", "local":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want minio or local)", c.Storage.Driver)
	}

	if c.Media.CoverMaxKB <= 0 || c.Media.PreviewMaxKB <= 0 {
		return fmt.Errorf("media size limits must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if os.Getenv("DB_PASSWORD") == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
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
