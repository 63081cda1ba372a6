// Package session tracks the authenticated user for the lifetime of
// the process.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/models"
)

// Store holds the current identity, or none for anonymous use. It is
// re-derived from the backend on every startup; nothing about the
// identity is trusted locally.
type Store struct {
	backend api.Backend
	logger  *slog.Logger

	mu   sync.RWMutex
	user *models.User
}

// NewStore creates an anonymous session store.
func NewStore(backend api.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Verify asks the backend who the ambient credential belongs to. Any
// failure, including "not authenticated", leaves the store anonymous:
// that is the normal state, not an error.
func (s *Store) Verify(ctx context.Context) {
	user, err := s.backend.Verify(ctx)
	if err != nil {
		s.logger.Debug("session verification failed, continuing anonymously", "error", err)
		return
	}
	if user == nil {
		return
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Current returns the authenticated user, or nil when anonymous.
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether an identity is held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// SetUser installs an identity. The auth form calls this on login
// success.
func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Logout invalidates the session server-side and clears local state
// unconditionally: a failed network call never leaves the client
// logged in.
func (s *Store) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn("server-side logout failed, clearing local session anyway", "error", err)
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := config.ClearSession(); err != nil {
		s.logger.Warn("failed to remove persisted session", "error", err)
	}
}
