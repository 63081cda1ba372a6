package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelar/chatdeck/internal/config"
	apierrors "github.com/avelar/chatdeck/internal/errors"
)

func TestVerifyAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"user": map[string]string{
				"id":       "u1",
				"username": "ana",
				"email":    "ana@example.com",
				"role":     "user",
			},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	user, err := client.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify() returned error: %v", err)
	}
	if user == nil || user.Username != "ana" {
		t.Errorf("user = %+v, want ana", user)
	}
}

func TestVerifyAnonymous(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"authenticated false",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"authenticated": false})
			},
		},
		{
			"401 response",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"no session"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := testClient(t, server.URL)
			user, err := client.Verify(context.Background())
			if err != nil {
				t.Fatalf("anonymous verification should not error, got %v", err)
			}
			if user != nil {
				t.Errorf("expected nil user, got %+v", user)
			}
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad login body: %v", err)
		}
		if req.Email != "ana@example.com" || req.Password != "hunter2" {
			t.Errorf("unexpected credentials %+v", req)
		}
		http.SetCookie(w, &http.Cookie{Name: config.SessionCookieName, Value: "sess-1"})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]string{"id": "u1", "username": "ana", "role": "user"},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	user, err := client.Login(context.Background(), "ana@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want u1", user.ID)
	}
	if _, value := client.Session().Get(); value != "sess-1" {
		t.Errorf("session cookie not captured, have %q", value)
	}
}

func TestLoginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "invalid credentials",
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Login(context.Background(), "ana@example.com", "wrong")
	if !apierrors.IsAuthError(err) {
		t.Fatalf("expected auth error, got %T: %v", err, err)
	}
	if err.Error() != "authentication failed: invalid credentials" {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestRegister(t *testing.T) {
	var got registerRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	if err := client.Register(context.Background(), "ana", "ana@example.com", "hunter2"); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}
	if got.Username != "ana" {
		t.Errorf("username = %q, want ana", got.Username)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "email already registered",
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	err := client.Register(context.Background(), "ana", "ana@example.com", "x")
	if !apierrors.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/logout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() returned error: %v", err)
	}
	if !called {
		t.Error("logout endpoint not called")
	}
}
