// Package config handles configuration, settings and session persistence for chatdeck.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config represents the client configuration. Values from the config
// file can be overridden per-invocation through CHATDECK_* environment
// variables.
type Config struct {
	// BaseURL is the root of the backend HTTP API.
	BaseURL string `json:"base_url" env:"CHATDECK_BASE_URL"`
	// Provider selects the backend generation path: "ollama" for the
	// local-model path or "openrouter" for the remote aggregator.
	Provider string `json:"provider" env:"CHATDECK_PROVIDER"`
	// DefaultModel is used when no model has been selected in the UI.
	DefaultModel string `json:"default_model" env:"CHATDECK_MODEL"`
	// RequestTimeout is the per-request deadline in seconds. Applied
	// uniformly to every network call.
	RequestTimeout int `json:"request_timeout" env:"CHATDECK_TIMEOUT"`
	// FreeTierOnly restricts aggregator requests to free-tier model
	// variants by suffixing the model name.
	FreeTierOnly bool `json:"free_tier_only" env:"CHATDECK_FREE_TIER"`
	// LogLevel controls operator-facing logging: debug, info, warn, error.
	LogLevel string `json:"log_level" env:"CHATDECK_LOG_LEVEL"`
	// CopyToClipboard copies the last assistant reply to the clipboard.
	CopyToClipboard bool `json:"copy_to_clipboard"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		Provider:       "ollama",
		DefaultModel:   "llama3.2",
		RequestTimeout: 60,
		FreeTierOnly:   true,
		LogLevel:       "info",
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".chatdeck"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the session credential
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk and applies the
// environment overlay on top.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if jsonErr := json.Unmarshal(data, &cfg); jsonErr != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", jsonErr)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
