// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// CcusageCommand is the command line used to fetch usage data. It must
	// print one JSON object to stdout as its last line.
	CcusageCommand []string
	DatabasePath   string
	LogPath        string
	// PollingFrequency seeds the initial settings value ("1min", "5min",
	// "10min").
	PollingFrequency string
	// CostAlertThreshold triggers a desktop notification when today's cost
	// crosses it. Zero disables alerts.
	CostAlertThreshold float64
	// ClaudeDataDir is watched for new activity to trigger early refreshes.
	// Empty disables the watcher.
	ClaudeDataDir string
}

// Default values
const (
	defaultCcusageCommand   = "bunx ccusage --json"
	defaultPollingFrequency = "5min"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		CcusageCommand:     strings.Fields(getEnvString("CCUSAGE_COMMAND", defaultCcusageCommand)),
		DatabasePath:       getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		LogPath:            getEnvString("LOG_PATH", getDefaultLogPath()),
		PollingFrequency:   getEnvString("POLLING_FREQUENCY", defaultPollingFrequency),
		CostAlertThreshold: getEnvFloat("COST_ALERT_THRESHOLD", 0),
		ClaudeDataDir:      getEnvString("CLAUDE_DATA_DIR", getDefaultClaudeDataDir()),
	}

	// Ensure database and log directories exist
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "ccwatch", ".env"),
			filepath.Join(home, ".ccwatch.env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".config", "ccwatch", "history.db")
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ccwatch.log"
	}
	return filepath.Join(home, ".config", "ccwatch", "ccwatch.log")
}

// getDefaultClaudeDataDir returns the Claude Code data directory, or empty
// when it does not exist (the watcher is then disabled).
func getDefaultClaudeDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".claude", "projects")
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
