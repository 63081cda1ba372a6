package api

import (
	"context"

	"github.com/avelar/chatdeck/internal/models"
)

// Backend is the surface of the HTTP client consumed by the rest of
// the application. *Client implements it; tests use MockBackend.
type Backend interface {
	Health(ctx context.Context) error
	Available() bool
	FetchModels(ctx context.Context) ([]models.ModelInfo, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Verify(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context) error
}

var _ Backend = (*Client)(nil)
