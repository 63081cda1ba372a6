package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionCookieName is the cookie the backend issues on login.
const SessionCookieName = "chatdeck_session"

// SessionCookie is the ambient credential carried with every
// credentialed request. It lives in the cookie jar at runtime and in
// session.json between runs.
type SessionCookie struct {
	mu    sync.RWMutex
	Name  string
	Value string
}

// sessionFile is the on-disk shape of session.json.
type sessionFile struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Get returns the cookie name and value atomically.
func (c *SessionCookie) Get() (name, value string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Name, c.Value
}

// Set updates the cookie value atomically.
func (c *SessionCookie) Set(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Value = value
}

// Empty reports whether no credential is held.
func (c *SessionCookie) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Value == ""
}

// GetSessionPath returns the path to the session file
func GetSessionPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "session.json"), nil
}

// LoadSession loads the persisted session cookie. A missing file is
// the normal anonymous case, not an error.
func LoadSession() (*SessionCookie, error) {
	path, err := GetSessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SessionCookie{Name: SessionCookieName}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if f.Name == "" {
		f.Name = SessionCookieName
	}

	return &SessionCookie{Name: f.Name, Value: f.Value}, nil
}

// SaveSession persists the session cookie with restrictive permissions.
func SaveSession(c *SessionCookie) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	name, value := c.Get()
	data, err := json.MarshalIndent(sessionFile{Name: name, Value: value}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(configDir, "session.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// ClearSession removes the persisted session cookie. Removing a
// session that does not exist is not an error.
func ClearSession() error {
	path, err := GetSessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
