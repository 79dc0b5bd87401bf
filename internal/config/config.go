package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Storage backends for session snapshots
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Environment
	Environment string `validate:"oneof=development production"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`

	// Snapshot persistence
	DataDir      string `validate:"required"`
	StorageType  string `validate:"oneof=memory file sqlite"`
	SnapshotFile string `validate:"required_if=StorageType file"`
	SQLitePath   string `validate:"required_if=StorageType sqlite"`

	// Session archive; empty URL keeps archived summaries in memory
	ElasticsearchURL      string `validate:"omitempty,url"`
	ElasticsearchUsername string
	ElasticsearchPassword string
	ElasticsearchIndex    string `validate:"required_with=ElasticsearchURL"`

	// Written in prometheus text format on shutdown when set
	MetricsFile string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	dataDir := getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data"))

	cfg := &Config{
		Environment:           getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:              strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		DataDir:               dataDir,
		StorageType:           strings.ToLower(getEnvWithDefault("STORAGE_TYPE", StorageFile)),
		SnapshotFile:          getEnvWithDefault("SNAPSHOT_FILE", filepath.Join(dataDir, "session.json")),
		SQLitePath:            getEnvWithDefault("SQLITE_PATH", filepath.Join(dataDir, "tracker.db")),
		ElasticsearchURL:      os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndex:    getEnvWithDefault("ELASTICSEARCH_INDEX", "monopoly_sessions"),
		MetricsFile:           os.Getenv("METRICS_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks field constraints declared in the struct tags
func (c *Config) validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s failed %q (value %q)", e.Field(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ArchiveEnabled reports whether archived sessions go to Elasticsearch
func (c *Config) ArchiveEnabled() bool {
	return c.ElasticsearchURL != ""
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
