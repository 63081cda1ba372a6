package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "github.com/avelar/chatdeck/internal/errors"
)

func TestChat(t *testing.T) {
	var got ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("bad chat body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "Hi there"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	req := ChatRequest{
		Message:      "Hello",
		Provider:     "ollama",
		Model:        "llama3.2",
		SystemPrompt: "be nice",
		Conversation: []Turn{{Role: "user", Content: "earlier"}},
		Temperature:  0.7,
	}

	text, err := client.Chat(context.Background(), req)
	if err != nil {
		t.Fatalf("Chat() returned error: %v", err)
	}
	if text != "Hi there" {
		t.Errorf("response = %q, want %q", text, "Hi there")
	}
	if got.Model != "llama3.2" || got.Provider != "ollama" {
		t.Errorf("request not forwarded faithfully: %+v", got)
	}
	if len(got.Conversation) != 1 || got.Conversation[0].Content != "earlier" {
		t.Errorf("conversation history not forwarded: %+v", got.Conversation)
	}
}

func TestChatMissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "wrong shape"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Chat(context.Background(), ChatRequest{Message: "hi"})
	if !errors.Is(err, apierrors.ErrInvalidResponse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestChatTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "late"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Chat(ctx, ChatRequest{Message: "hi"})
	if !apierrors.IsTimeoutError(err) {
		t.Fatalf("expected timeout error, got %T: %v", err, err)
	}
}

func TestFetchModels(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":"m1","name":"One","provider":"ollama"},{"id":"m2"}]`, 2},
		{"models envelope", `{"models":[{"id":"m1","name":"One"}]}`, 1},
		{"data envelope", `{"data":[{"id":"m1"},{"id":"m2"},{"id":"m3"}]}`, 3},
		{"skips entries without id", `[{"name":"anonymous"},{"id":"m1"}]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := testClient(t, server.URL)
			list, err := client.FetchModels(context.Background())
			if err != nil {
				t.Fatalf("FetchModels() returned error: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("got %d models, want %d", len(list), tt.want)
			}
		})
	}
}

func TestFetchModelsNameFallsBackToID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"mistral-7b"}]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	list, err := client.FetchModels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list[0].Name != "mistral-7b" {
		t.Errorf("Name = %q, want id fallback", list[0].Name)
	}
}

func TestFetchModelsBadShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":true}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	if _, err := client.FetchModels(context.Background()); err == nil {
		t.Error("expected parse error for unrecognized shape")
	}
}
