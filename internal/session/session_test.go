package session

import (
	"context"
	"errors"
	"testing"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/models"
)

func TestVerifyPopulatesIdentity(t *testing.T) {
	backend := &api.MockBackend{
		VerifyFunc: func(ctx context.Context) (*models.User, error) {
			return &models.User{ID: "u1", Username: "ana", Role: models.RoleStandard}, nil
		},
	}
	store := NewStore(backend, nil)

	store.Verify(context.Background())

	if !store.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if store.Current().Username != "ana" {
		t.Errorf("Current() = %+v", store.Current())
	}
}

func TestVerifyFailureStaysAnonymous(t *testing.T) {
	tests := []struct {
		name   string
		verify func(ctx context.Context) (*models.User, error)
	}{
		{"network failure", func(ctx context.Context) (*models.User, error) {
			return nil, errors.New("connection refused")
		}},
		{"not authenticated", func(ctx context.Context) (*models.User, error) {
			return nil, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(&api.MockBackend{VerifyFunc: tt.verify}, nil)
			store.Verify(context.Background())

			if store.Authenticated() {
				t.Error("expected anonymous session")
			}
			if store.Current() != nil {
				t.Errorf("Current() = %+v, want nil", store.Current())
			}
		})
	}
}

func TestLogoutClearsStateEvenOnFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	backend := &api.MockBackend{
		LogoutFunc: func(ctx context.Context) error {
			return errors.New("backend unreachable")
		},
	}
	store := NewStore(backend, nil)
	store.SetUser(&models.User{ID: "u1", Username: "ana"})

	store.Logout(context.Background())

	if store.Authenticated() {
		t.Error("local session must be cleared even when the logout call fails")
	}
	if backend.LogoutCalls != 1 {
		t.Errorf("Logout called %d times, want 1", backend.LogoutCalls)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	store := NewStore(&api.MockBackend{}, nil)
	store.SetUser(&models.User{Username: "ana"})

	u := store.Current()
	u.Username = "mutated"

	if store.Current().Username != "ana" {
		t.Error("Current() should return a copy, not the stored identity")
	}
}
