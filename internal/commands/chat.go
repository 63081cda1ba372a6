package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/avelar/chatdeck/internal/catalog"
	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/conversation"
	"github.com/avelar/chatdeck/internal/dispatch"
	"github.com/avelar/chatdeck/internal/session"
	"github.com/avelar/chatdeck/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session.

The conversation keeps its context for the lifetime of the session and
starts empty on the next run. Type /help inside the chat for the
available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg := loadRuntimeConfig()
	settings, err := config.LoadSettings()
	if err != nil {
		settings = config.DefaultSettings()
	}

	// Stderr belongs to the TUI from here on
	if logFile := openChatLog(); logFile != nil {
		defer logFile.Close()
		setupLogging(cfg, logFile)
	}

	backend, _, err := newBackend(cfg)
	if err != nil {
		return err
	}

	state := conversation.NewState()
	directory := catalog.NewDirectory(backend, catalog.NewCache(catalog.FreshnessWindow), nil)
	sess := session.NewStore(backend, nil)

	provider, err := dispatch.NewProvider(cfg, backend)
	if err != nil {
		return err
	}
	dispatcher := dispatch.New(provider, backend, state, directory, sess, cfg, settings, nil)

	spin := newSpinner("Connecting to backend")
	spin.start()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	healthErr := backend.Health(ctx)
	cancel()
	if healthErr != nil {
		// The TUI shows the availability banner and keeps polling.
		spin.stopWithError()
		fmt.Println(formatErrorMessage(healthErr, "Backend unreachable"))
	} else {
		spin.stopWithSuccess("Connected")
	}

	return tui.Run(dispatcher, backend, state, directory, sess, settings)
}

// openChatLog opens the operator log under the config directory. A nil
// return leaves logging on stderr.
func openChatLog() *os.File {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "chatdeck.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil
	}
	return f
}
