package catalog

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/models"
)

func fakeClock(start time.Time) (Clock, func(time.Duration)) {
	current := start
	clock := func() time.Time { return current }
	advance := func(d time.Duration) { current = current.Add(d) }
	return clock, advance
}

func TestCacheFreshness(t *testing.T) {
	clock, advance := fakeClock(time.Unix(1700000000, 0))
	cache := NewCacheWithClock(FreshnessWindow, clock)

	if cache.Get() != nil {
		t.Error("empty cache should return nil")
	}

	snapshot := []models.ModelInfo{{ID: "m1"}}
	cache.Set(snapshot)

	advance(4 * time.Minute)
	got := cache.Get()
	if got == nil {
		t.Fatal("snapshot should still be fresh at 4 minutes")
	}
	if &got[0] != &snapshot[0] {
		t.Error("fresh read should return the identical snapshot")
	}

	advance(2 * time.Minute)
	if cache.Get() != nil {
		t.Error("snapshot should be stale after the freshness window")
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(FreshnessWindow)
	cache.Set([]models.ModelInfo{{ID: "m1"}})
	cache.Invalidate()
	if cache.Get() != nil {
		t.Error("invalidated cache should return nil")
	}
}

func TestDirectoryCachesAcrossCalls(t *testing.T) {
	clock, advance := fakeClock(time.Unix(1700000000, 0))
	backend := &api.MockBackend{
		FetchModelsFunc: func(ctx context.Context) ([]models.ModelInfo, error) {
			return []models.ModelInfo{{ID: "m1", Name: "One"}, {ID: "m2", Name: "Two"}}, nil
		},
	}
	dir := NewDirectory(backend, NewCacheWithClock(FreshnessWindow, clock), slog.Default())

	first, err := dir.Models(context.Background())
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d models, want 2", len(first))
	}
	if backend.FetchModelsCalls != 1 {
		t.Fatalf("FetchModels called %d times, want 1", backend.FetchModelsCalls)
	}

	// Second call inside the window: no network call
	dir.Models(context.Background())
	if backend.FetchModelsCalls != 1 {
		t.Errorf("fetch inside freshness window hit the network")
	}

	// After the window elapses a new call is issued
	advance(FreshnessWindow + time.Second)
	dir.Models(context.Background())
	if backend.FetchModelsCalls != 2 {
		t.Errorf("stale fetch did not hit the network, calls = %d", backend.FetchModelsCalls)
	}
}

func TestDirectoryAnnotatesTextCapability(t *testing.T) {
	backend := &api.MockBackend{
		FetchModelsFunc: func(ctx context.Context) ([]models.ModelInfo, error) {
			return []models.ModelInfo{{ID: "m1", Capabilities: []string{"vision", "audio"}}}, nil
		},
	}
	dir := NewDirectory(backend, nil, nil)

	list, err := dir.Models(context.Background())
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(list[0].Capabilities) != 1 || list[0].Capabilities[0] != models.CapabilityText {
		t.Errorf("Capabilities = %v, want [text] regardless of backend claims", list[0].Capabilities)
	}
}

func TestDirectorySelectsFirstModel(t *testing.T) {
	backend := &api.MockBackend{
		FetchModelsFunc: func(ctx context.Context) ([]models.ModelInfo, error) {
			return []models.ModelInfo{{ID: "m1"}, {ID: "m2"}}, nil
		},
	}
	dir := NewDirectory(backend, nil, nil)

	if dir.Active() != "" {
		t.Fatal("no selection expected before the first fetch")
	}
	dir.Models(context.Background())
	if dir.Active() != "m1" {
		t.Errorf("Active() = %q, want first entry m1", dir.Active())
	}

	// An existing selection is not overridden
	dir.SetActive("m2")
	dir.cache.Invalidate()
	dir.Models(context.Background())
	if dir.Active() != "m2" {
		t.Errorf("existing selection overridden, Active() = %q", dir.Active())
	}
}

func TestDirectoryFetchFailureKeepsState(t *testing.T) {
	calls := 0
	backend := &api.MockBackend{
		FetchModelsFunc: func(ctx context.Context) ([]models.ModelInfo, error) {
			calls++
			if calls == 1 {
				return []models.ModelInfo{{ID: "m1"}}, nil
			}
			return nil, errors.New("backend down")
		},
	}
	dir := NewDirectory(backend, nil, nil)

	dir.Models(context.Background())
	dir.cache.Invalidate()

	list, err := dir.Models(context.Background())
	if err == nil {
		t.Error("failed fetch should surface the error")
	}
	if len(list) != 1 || list[0].ID != "m1" {
		t.Errorf("failed fetch should leave the prior list untouched, got %v", list)
	}
	if dir.Active() != "m1" {
		t.Errorf("failed fetch should leave selection untouched, got %q", dir.Active())
	}
}

func TestActiveOrDefault(t *testing.T) {
	dir := NewDirectory(&api.MockBackend{}, nil, nil)
	if got := dir.ActiveOrDefault(models.DefaultModelID); got != models.DefaultModelID {
		t.Errorf("ActiveOrDefault = %q, want fallback", got)
	}
	dir.SetActive("m9")
	if got := dir.ActiveOrDefault(models.DefaultModelID); got != "m9" {
		t.Errorf("ActiveOrDefault = %q, want m9", got)
	}
}
