// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	// Scoring
	BatchWorkers       int     // Fan-out bound for batch scoring
	FailureThreshold   float64 // Failure rate above which a run is marked failed
	ConfidenceFloor    float64 // Minimum confidence for a scored company
	ScoringSchedule    string  // Cron expression for the nightly batch run
	ScoringScheduleOn  bool    // Disable to run batches only via the API
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("HEDGE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	port, err := strconv.Atoi(getEnv("HEDGE_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEDGE_PORT: %w", err)
	}

	workers, err := strconv.Atoi(getEnv("HEDGE_BATCH_WORKERS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEDGE_BATCH_WORKERS: %w", err)
	}

	failureThreshold, err := strconv.ParseFloat(getEnv("HEDGE_FAILURE_THRESHOLD", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HEDGE_FAILURE_THRESHOLD: %w", err)
	}

	confidenceFloor, err := strconv.ParseFloat(getEnv("HEDGE_CONFIDENCE_FLOOR", "0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HEDGE_CONFIDENCE_FLOOR: %w", err)
	}

	return &Config{
		DataDir:           absDataDir,
		LogLevel:          getEnv("HEDGE_LOG_LEVEL", "info"),
		Port:              port,
		DevMode:           getEnv("HEDGE_DEV_MODE", "false") == "true",
		BatchWorkers:      workers,
		FailureThreshold:  failureThreshold,
		ConfidenceFloor:   confidenceFloor,
		ScoringSchedule:   getEnv("HEDGE_SCORING_SCHEDULE", "0 0 2 * * *"), // 02:00 daily
		ScoringScheduleOn: getEnv("HEDGE_SCORING_SCHEDULE_ENABLED", "true") == "true",
	}, nil
}

// DatabasePath returns the path of a named database under the data directory.
func (c *Config) DatabasePath(name string) string {
	return filepath.Join(c.DataDir, name+".db")
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
