package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Source   SourceConfig
	Dump     DumpConfig
	Export   ExportConfig
	Job      JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	MaxConns       int
	MinConns       int
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Host     string // empty disables the cache layer
	Password string
	DB       int
}

// SourceConfig points at the person data API.
type SourceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DumpConfig controls the optional raw-batch dump. Dir selects the local
// sink; a non-empty MinIO endpoint switches to object storage.
type DumpConfig struct {
	Enabled bool
	Dir     string
	MinIO   MinIOConfig
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ExportConfig controls the optional transformed-batch file export.
type ExportConfig struct {
	Format string // csv, json, xlsx; empty disables export
	Dir    string
}

// JobConfig drives the scheduled pipeline runs picked up by the worker.
type JobConfig struct {
	Schedule string // cron spec, empty disables the periodic run
	Count    int    // records per scheduled run
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "userstore-etl"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Database:       getEnv("DB_NAME", "user_management"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConns:       getEnvInt("DB_MAX_CONNS", 10),
			MinConns:       getEnvInt("DB_MIN_CONNS", 2),
			MaxRetries:     getEnvInt("DB_MAX_RETRIES", 3),
			RetryDelay:     getEnvDuration("DB_RETRY_DELAY", time.Second),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Source: SourceConfig{
			BaseURL: getEnv("SOURCE_URL", "https://randomuser.me/api/"),
			Timeout: getEnvDuration("SOURCE_TIMEOUT", 30*time.Second),
		},
		Dump: DumpConfig{
			Enabled: getEnvBool("DUMP_ENABLED", false),
			Dir:     getEnv("DUMP_DIR", "."),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "raw-batches"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Export: ExportConfig{
			Format: getEnv("EXPORT_FORMAT", ""),
			Dir:    getEnv("EXPORT_DIR", "."),
		},
		Job: JobConfig{
			Schedule: getEnv("JOB_SCHEDULE", ""),
			Count:    getEnvInt("JOB_COUNT", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the parts every entry point depends on.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Database,
		validation.Field(&c.Database.Host, validation.Required),
		validation.Field(&c.Database.Port, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Database.User, validation.Required),
		validation.Field(&c.Database.Database, validation.Required),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := validation.ValidateStruct(&c.Source,
		validation.Field(&c.Source.BaseURL, validation.Required, is.URL),
	); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if err := validation.ValidateStruct(&c.Export,
		validation.Field(&c.Export.Format, validation.In("", "csv", "json", "xlsx")),
	); err != nil {
		return fmt.Errorf("export: %w", err)
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
