package commands

import (
	"testing"

	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/models"
)

func TestGetModelFlagPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	modelFlag = "qwen2.5"
	defer func() { modelFlag = "" }()

	if got := getModel(); got != "qwen2.5" {
		t.Errorf("getModel() = %q, want flag value", got)
	}
}

func TestGetModelFallsBackToConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	modelFlag = ""

	cfg := config.DefaultConfig()
	cfg.DefaultModel = "mistral"
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	if got := getModel(); got != "mistral" {
		t.Errorf("getModel() = %q, want configured model", got)
	}
}

func TestGetModelDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	modelFlag = ""

	if got := getModel(); got != models.DefaultModelID {
		t.Errorf("getModel() = %q, want %q", got, models.DefaultModelID)
	}
}

func TestLoadRuntimeConfigFlagOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	modelFlag = "phi3"
	providerFlag = "openrouter"
	defer func() {
		modelFlag = ""
		providerFlag = ""
	}()

	cfg := loadRuntimeConfig()
	if cfg.DefaultModel != "phi3" {
		t.Errorf("DefaultModel = %q, want flag override", cfg.DefaultModel)
	}
	if cfg.Provider != "openrouter" {
		t.Errorf("Provider = %q, want flag override", cfg.Provider)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{
		"chat":           false,
		"models":         false,
		"config":         false,
		"login":          false,
		"register":       false,
		"logout":         false,
		"import-session": false,
	}

	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
