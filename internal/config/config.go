package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session persistence backends
const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	BackendMemory  = "memory"
)

// Backends lists the valid session backends
var Backends = []string{BackendKeyring, BackendFile, BackendSQLite, BackendMemory}

const (
	DefaultAPIURL  = "http://localhost:5000/api"
	defaultTimeout = 10 * time.Second
	configDirName  = "shopfront"
)

// Config holds all configuration for the CLI
type Config struct {
	// API Configuration
	API APIConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the REST collaborator settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration // Fixed per-request deadline
}

// SessionConfig selects where the session record is persisted
type SessionConfig struct {
	Backend string // keyring, file, sqlite, memory
	Path    string // File or database path for the file and sqlite backends
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := os.Getenv("SHOPFRONT_API_URL")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	timeout := defaultTimeout
	if raw := os.Getenv("SHOPFRONT_API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SHOPFRONT_API_TIMEOUT %q: %w", raw, err)
		}
		timeout = d
	}

	backend := strings.ToLower(os.Getenv("SHOPFRONT_SESSION_BACKEND"))
	if backend == "" {
		backend = BackendKeyring
	}

	// Logging configuration - quiet by default so views stay readable
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(apiURL, "/"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			Backend: backend,
			Path:    os.Getenv("SHOPFRONT_SESSION_PATH"),
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got %s", c.API.Timeout)
	}

	switch c.Session.Backend {
	case BackendKeyring, BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("invalid session backend '%s', must be one of: keyring, file, sqlite, memory", c.Session.Backend)
	}

	return nil
}

// SessionPath returns the configured session path, or the default for the backend
func (c *Config) SessionPath() (string, error) {
	if c.Session.Path != "" {
		return c.Session.Path, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}

	if c.Session.Backend == BackendSQLite {
		return filepath.Join(dir, "session.sqlite"), nil
	}
	return filepath.Join(dir, "session.json"), nil
}

// Dir returns ~/.config/shopfront
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName), nil
}
