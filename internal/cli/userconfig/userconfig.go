package userconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shopfront-dev/shopfront/internal/config"
)

const (
	configFileName = "config.yaml"
)

// UserConfig represents the user's local configuration stored in ~/.config/shopfront/config.yaml
type UserConfig struct {
	APIURL         string `yaml:"api_url,omitempty"`
	SessionBackend string `yaml:"session_backend,omitempty"`
}

// GetConfigPath returns the path to the user config file.
// SHOPFRONT_CONFIG overrides the default location.
func GetConfigPath() (string, error) {
	if path := os.Getenv("SHOPFRONT_CONFIG"); path != "" {
		return path, nil
	}

	configDir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration file
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		// If config doesn't exist, return empty config
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// Apply overlays the file's values on cfg. Environment variables win, so a
// field is only taken from the file when its variable is unset.
func (u *UserConfig) Apply(cfg *config.Config) error {
	if u.APIURL != "" && os.Getenv("SHOPFRONT_API_URL") == "" {
		cfg.API.BaseURL = strings.TrimRight(u.APIURL, "/")
	}
	if u.SessionBackend != "" && os.Getenv("SHOPFRONT_SESSION_BACKEND") == "" {
		cfg.Session.Backend = strings.ToLower(u.SessionBackend)
	}
	return cfg.Validate()
}
