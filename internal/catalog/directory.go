package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/models"
)

// Directory is the client-side view of the backend's model list. It
// serves cached snapshots within the freshness window, annotates every
// descriptor with the text capability, and keeps an active selection.
// Fetch failures leave the prior list and selection untouched.
type Directory struct {
	backend api.Backend
	cache   *Cache
	logger  *slog.Logger

	mu     sync.Mutex
	known  []models.ModelInfo
	active string
}

// NewDirectory creates a directory backed by the given client and cache.
func NewDirectory(backend api.Backend, cache *Cache, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewCache(FreshnessWindow)
	}
	return &Directory{
		backend: backend,
		cache:   cache,
		logger:  logger,
	}
}

// Models returns the model list, hitting the network only when the
// cached snapshot has aged out. On fetch failure the previous list is
// returned alongside the error, so callers can keep rendering it.
func (d *Directory) Models(ctx context.Context) ([]models.ModelInfo, error) {
	if cached := d.cache.Get(); cached != nil {
		return cached, nil
	}

	list, err := d.backend.FetchModels(ctx)
	if err != nil {
		d.logger.Warn("model fetch failed, keeping previous list", "error", err)
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.known, err
	}

	// The backend declares richer capabilities; this client only does
	// text chat, so every model is annotated with just that.
	for i := range list {
		list[i].Capabilities = []string{models.CapabilityText}
	}

	d.cache.Set(list)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.known = list
	if d.active == "" && len(list) > 0 {
		d.active = list[0].ID
	}
	return list, nil
}

// Active returns the selected model ID, empty when nothing is selected.
func (d *Directory) Active() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// SetActive changes the selected model.
func (d *Directory) SetActive(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = id
}

// ActiveOrDefault returns the selected model ID, or fallback when no
// selection has been made yet.
func (d *Directory) ActiveOrDefault(fallback string) string {
	if id := d.Active(); id != "" {
		return id
	}
	return fallback
}
