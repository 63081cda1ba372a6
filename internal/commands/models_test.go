package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/models"
)

func TestRunModelsListsEntries(t *testing.T) {
	backend := &api.MockBackend{
		FetchModelsFunc: func(ctx context.Context) ([]models.ModelInfo, error) {
			return []models.ModelInfo{
				{ID: "llama3.2", Name: "Llama 3.2", Provider: "ollama", Description: "Fast local model"},
				{ID: "qwen2.5", Name: "Qwen 2.5", Provider: "ollama"},
			}, nil
		},
	}

	var out bytes.Buffer
	if err := runModels(&out, backend, "llama3.2"); err != nil {
		t.Fatalf("runModels() error = %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Llama 3.2") || !strings.Contains(text, "Qwen 2.5") {
		t.Errorf("output missing model names: %q", text)
	}
	if !strings.Contains(text, "default") {
		t.Error("output should mark the default model")
	}
	if !strings.Contains(text, "Fast local model") {
		t.Error("output should include descriptions")
	}
}

func TestRunModelsEmpty(t *testing.T) {
	backend := &api.MockBackend{}

	var out bytes.Buffer
	if err := runModels(&out, backend, ""); err != nil {
		t.Fatalf("runModels() error = %v", err)
	}
	if !strings.Contains(out.String(), "No models available") {
		t.Errorf("output = %q, want empty-list notice", out.String())
	}
}

func TestRunModelsPropagatesError(t *testing.T) {
	backend := &api.MockBackend{
		FetchModelsFunc: func(ctx context.Context) ([]models.ModelInfo, error) {
			return nil, errors.New("backend down")
		},
	}

	var out bytes.Buffer
	if err := runModels(&out, backend, ""); err == nil {
		t.Fatal("runModels() should fail when the fetch fails")
	}
}
