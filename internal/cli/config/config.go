// Package config resolves which Reachly API the CLI talks to.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultAPIURL is the production API used when nothing else is configured
const DefaultAPIURL = "https://api.reachly.io"

const (
	configDirName  = "reachly"
	configFileName = "config.json"
)

// Config is the CLI's local configuration stored in ~/.config/reachly/config.json
type Config struct {
	// APIURL overrides the backend base URL (self-hosted or staging)
	APIURL string `json:"api_url,omitempty"`
}

// APIURL resolves the backend base URL: the REACHLY_API_URL environment
// variable wins, then the saved config, then the production default.
func APIURL() string {
	if url := os.Getenv("REACHLY_API_URL"); url != "" {
		return url
	}

	cfg, err := Load()
	if err == nil && cfg.APIURL != "" {
		return cfg.APIURL
	}
	return DefaultAPIURL
}

// Path returns the config file location
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// Load reads the CLI configuration; a missing file yields the zero config
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the CLI configuration
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
