package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avelar/chatdeck/internal/browser"
	"github.com/avelar/chatdeck/internal/config"
)

var importBrowserFlag string

var importSessionCmd = &cobra.Command{
	Use:   "import-session",
	Short: "Import the session cookie from a browser",
	Long: `Import the backend session cookie from a local browser profile.

Sign in to the web app in your browser first, then run this command to
reuse that session from the terminal. With --browser auto (the default)
all supported browsers are tried in order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportSession(importBrowserFlag)
	},
}

func init() {
	importSessionCmd.Flags().StringVar(&importBrowserFlag, "browser", "auto",
		"Browser to read from (auto, chrome, chromium, firefox, edge, opera)")
}

func runImportSession(browserName string) error {
	browserType, err := browser.ParseBrowser(browserName)
	if err != nil {
		return err
	}

	cfg := loadRuntimeConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	spin := newSpinner("Searching browser cookie stores")
	spin.start()

	result, err := browser.ExtractSessionCookie(ctx, browserType, cfg.BaseURL)
	if err != nil {
		spin.stopWithError()
		return err
	}

	sessionCookie := &config.SessionCookie{Name: config.SessionCookieName}
	sessionCookie.Set(result.Value)
	if err := config.SaveSession(sessionCookie); err != nil {
		spin.stopWithError()
		return fmt.Errorf("failed to save session: %w", err)
	}

	spin.stopWithSuccess(fmt.Sprintf("Imported session from %s", result.BrowserName))

	sessionPath, _ := config.GetSessionPath()
	fmt.Printf("Session saved to %s\n", sessionPath)
	return nil
}
