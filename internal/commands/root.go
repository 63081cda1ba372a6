// Package commands provides CLI commands for chatdeck.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/models"
)

var (
	// Global flags
	modelFlag    string
	providerFlag string
	outputFlag   string
	fileFlag     string
	attachFlag   []string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatdeck [prompt]",
	Short: "Terminal client for the chatdeck backend",
	Long: `chatdeck is a terminal client for a chat backend with pluggable
model providers. It talks to the backend's HTTP API and keeps your
session cookie across runs.

Examples:
  chatdeck chat                         Start interactive chat
  chatdeck models                       List available models
  chatdeck config show                  Show configuration
  chatdeck "What is Go?"                Send a single query
  chatdeck -f prompt.md                 Read prompt from file
  cat prompt.md | chatdeck              Read prompt from stdin
  chatdeck "Hello" -o response.md       Save response to file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("chatdeck %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., llama3.2)")
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "Provider to use (ollama, openrouter)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().StringArrayVarP(&attachFlag, "attach", "a", nil, "Attach a file (repeatable)")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(importSessionCmd)
}

// loadRuntimeConfig loads the config and folds the global flags in.
func loadRuntimeConfig() config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if modelFlag != "" {
		cfg.DefaultModel = modelFlag
	}
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	setupLogging(cfg, os.Stderr)
	return cfg
}

// setupLogging installs the default slog logger at the configured
// level. The chat TUI swaps the writer for a log file so operator
// messages do not tear the screen.
func setupLogging(cfg config.Config, w io.Writer) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// getModel returns the model to use (from flag or config)
func getModel() string {
	if modelFlag != "" {
		return modelFlag
	}

	cfg, err := config.LoadConfig()
	if err != nil || cfg.DefaultModel == "" {
		return models.DefaultModelID
	}
	return cfg.DefaultModel
}

// newBackend builds the API client over the persisted session cookie.
func newBackend(cfg config.Config) (api.Backend, *config.SessionCookie, error) {
	sessionCookie, err := config.LoadSession()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	client, err := api.NewClient(cfg, sessionCookie)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, sessionCookie, nil
}
