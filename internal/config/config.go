package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath         string
	HistoryDir           string
	LogLevel             string
	Port                 int
	DevMode              bool
	DefaultProfile       string
	DefaultBenchmark     string // one of the four benchmark_* columns
	LookbackConvention   string // calendar or trading
	ScoreRefreshSchedule string // cron spec for the nightly rescore
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvAsInt("PORT", 8001),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		DatabasePath:         getEnv("DATABASE_PATH", "./data/dashboard.db"),
		HistoryDir:           getEnv("HISTORY_DIR", "./data/history"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DefaultProfile:       getEnv("DEFAULT_WEIGHT_PROFILE", "standard"),
		DefaultBenchmark:     getEnv("DEFAULT_BENCHMARK_COLUMN", "benchmark_primary"),
		LookbackConvention:   getEnv("LOOKBACK_CONVENTION", "calendar"),
		ScoreRefreshSchedule: getEnv("SCORE_REFRESH_SCHEDULE", "0 0 6 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.HistoryDir == "" {
		return fmt.Errorf("HISTORY_DIR is required")
	}
	if c.LookbackConvention != "calendar" && c.LookbackConvention != "trading" {
		return fmt.Errorf("LOOKBACK_CONVENTION must be calendar or trading, got %q", c.LookbackConvention)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
