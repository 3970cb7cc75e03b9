// Package config loads runtime configuration from a .env file and
// environment variables.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for one checkup run.
type Config struct {
	// Target database and metrics backend
	DatabaseURL string
	MetricsURL  string

	// Pipeline selection: "express" queries the database directly,
	// "full" reads two time-separated snapshots from the metrics backend.
	Mode string

	// Cluster topology
	NodeName string

	// Snapshot window for full mode (unix seconds)
	WindowStart int64
	WindowEnd   int64

	// Per-query/per-request timeout
	QueryTimeoutMs int

	// Cap for the per-query report
	TopQueriesLimit int

	// Optional report delivery
	NatsURL string
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Try multiple .env locations
	envPaths := []string{
		".env",
		"../.env",
		"/app/.env", // Docker
	}

	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded config from: %s", path)
			break
		}
	}

	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MetricsURL:  os.Getenv("METRICS_URL"),

		Mode:     getEnvOrDefault("CHECK_MODE", "express"),
		NodeName: getEnvOrDefault("NODE_NAME", "node-1"),

		WindowStart: int64(parseIntOrDefault("WINDOW_START", 0)),
		WindowEnd:   int64(parseIntOrDefault("WINDOW_END", 0)),

		QueryTimeoutMs:  parseIntOrDefault("QUERY_TIMEOUT_MS", 30000),
		TopQueriesLimit: parseIntOrDefault("TOP_QUERIES_LIMIT", 50),

		NatsURL: os.Getenv("NATS_URL"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Mode != "express" && c.Mode != "full" {
		return fmt.Errorf("CHECK_MODE must be \"express\" or \"full\", got %q", c.Mode)
	}

	if c.Mode == "full" {
		if c.MetricsURL == "" {
			return fmt.Errorf("METRICS_URL is required in full mode")
		}
		if c.WindowStart <= 0 || c.WindowEnd <= 0 {
			return fmt.Errorf("WINDOW_START and WINDOW_END are required in full mode")
		}
		if c.WindowEnd < c.WindowStart {
			return fmt.Errorf("WINDOW_END must not precede WINDOW_START")
		}
	}

	if c.QueryTimeoutMs <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT_MS must be positive")
	}

	if c.TopQueriesLimit <= 0 {
		return fmt.Errorf("TOP_QUERIES_LIMIT must be positive")
	}

	return nil
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
