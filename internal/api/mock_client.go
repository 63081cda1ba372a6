package api

import (
	"context"

	"github.com/avelar/chatdeck/internal/models"
)

// MockBackend is a configurable Backend implementation for tests.
// Unset functions return zero values.
type MockBackend struct {
	HealthFunc      func(ctx context.Context) error
	AvailableFunc   func() bool
	FetchModelsFunc func(ctx context.Context) ([]models.ModelInfo, error)
	ChatFunc        func(ctx context.Context, req ChatRequest) (string, error)
	VerifyFunc      func(ctx context.Context) (*models.User, error)
	LoginFunc       func(ctx context.Context, email, password string) (*models.User, error)
	RegisterFunc    func(ctx context.Context, username, email, password string) error
	LogoutFunc      func(ctx context.Context) error

	// Call counters
	HealthCalls      int
	FetchModelsCalls int
	ChatCalls        int
	LogoutCalls      int
}

var _ Backend = (*MockBackend)(nil)

func (m *MockBackend) Health(ctx context.Context) error {
	m.HealthCalls++
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *MockBackend) Available() bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc()
	}
	return true
}

func (m *MockBackend) FetchModels(ctx context.Context) ([]models.ModelInfo, error) {
	m.FetchModelsCalls++
	if m.FetchModelsFunc != nil {
		return m.FetchModelsFunc(ctx)
	}
	return nil, nil
}

func (m *MockBackend) Chat(ctx context.Context, req ChatRequest) (string, error) {
	m.ChatCalls++
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return "", nil
}

func (m *MockBackend) Verify(ctx context.Context) (*models.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx)
	}
	return nil, nil
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*models.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *MockBackend) Register(ctx context.Context, username, email, password string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, email, password)
	}
	return nil
}

func (m *MockBackend) Logout(ctx context.Context) error {
	m.LogoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}
