// Package dispatch orchestrates chat sends against the backend.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/models"
)

// Provider is the single generation surface: one request in, one
// response out. Which implementation is used comes from configuration,
// not user choice.
type Provider interface {
	Name() string
	Send(ctx context.Context, req api.ChatRequest) (string, error)
}

// NewProvider selects a provider from configuration.
func NewProvider(cfg config.Config, backend api.Backend) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case models.ProviderLocal, "local", "":
		return &localProvider{backend: backend}, nil
	case models.ProviderAggregator, "aggregator":
		return &aggregatorProvider{backend: backend, freeTier: cfg.FreeTierOnly}, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// localProvider routes generation through the backend's local-model path.
type localProvider struct {
	backend api.Backend
}

func (p *localProvider) Name() string { return models.ProviderLocal }

func (p *localProvider) Send(ctx context.Context, req api.ChatRequest) (string, error) {
	req.Provider = models.ProviderLocal
	return p.backend.Chat(ctx, req)
}

// aggregatorProvider routes generation through the remote aggregator.
// Free-tier selection works by model-name suffix.
type aggregatorProvider struct {
	backend  api.Backend
	freeTier bool
}

func (p *aggregatorProvider) Name() string { return models.ProviderAggregator }

func (p *aggregatorProvider) Send(ctx context.Context, req api.ChatRequest) (string, error) {
	req.Provider = models.ProviderAggregator
	if p.freeTier && !strings.HasSuffix(req.Model, models.FreeTierSuffix) {
		req.Model += models.FreeTierSuffix
	}
	return p.backend.Chat(ctx, req)
}
