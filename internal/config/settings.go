package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avelar/chatdeck/internal/models"
)

// Settings holds the presentation and generation preferences that
// survive restarts: the blob is written on every change and reloaded
// on startup.
type Settings struct {
	SystemPrompt string  `json:"systemPrompt"`
	Temperature  float64 `json:"temperature"`
	DarkMode     bool    `json:"darkMode"`
}

// DefaultSettings returns the default settings
func DefaultSettings() Settings {
	return Settings{
		SystemPrompt: "",
		Temperature:  models.DefaultTemperature,
		DarkMode:     true,
	}
}

// ClampTemperature bounds a temperature to the accepted range. Applied
// when the outgoing request is constructed, whatever the input was.
func ClampTemperature(t float64) float64 {
	if t < models.MinTemperature {
		return models.MinTemperature
	}
	if t > models.MaxTemperature {
		return models.MaxTemperature
	}
	return t
}

// GetSettingsPath returns the path to the settings file
func GetSettingsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "settings.json"), nil
}

// LoadSettings loads persisted settings, falling back to defaults when
// no settings file exists yet.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()

	path, err := GetSettingsPath()
	if err != nil {
		return s, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	return s, nil
}

// SaveSettings persists settings to disk.
func SaveSettings(s Settings) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	path := filepath.Join(configDir, "settings.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
