package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/avelar/chatdeck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd.OutOrStdout())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a configuration value.

Connection keys: base-url, provider, model, timeout, free-tier, log-level, clipboard
Chat settings:   system-prompt, temperature, dark-mode`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(w io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	valStyle := lipgloss.NewStyle().Foreground(colorText)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	row := func(key string, value any) {
		fmt.Fprintf(w, "  %s %s\n", keyStyle.Render(fmt.Sprintf("%-14s", key)), valStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w, dimStyle.Render("Connection"))
	row("base-url", cfg.BaseURL)
	row("provider", cfg.Provider)
	row("model", cfg.DefaultModel)
	row("timeout", fmt.Sprintf("%ds", cfg.RequestTimeout))
	row("free-tier", cfg.FreeTierOnly)
	row("log-level", cfg.LogLevel)
	row("clipboard", cfg.CopyToClipboard)

	fmt.Fprintln(w, dimStyle.Render("Chat settings"))
	prompt := settings.SystemPrompt
	if prompt == "" {
		prompt = "(none)"
	}
	row("system-prompt", prompt)
	row("temperature", settings.Temperature)
	row("dark-mode", settings.DarkMode)

	if path, err := config.GetConfigPath(); err == nil {
		fmt.Fprintln(w, dimStyle.Render("Stored in "+path))
	}
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))

	switch key {
	case "base-url", "provider", "model", "timeout", "free-tier", "log-level", "clipboard":
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		switch key {
		case "base-url":
			cfg.BaseURL = value
		case "provider":
			cfg.Provider = value
		case "model":
			cfg.DefaultModel = value
		case "timeout":
			seconds, err := strconv.Atoi(strings.TrimSuffix(value, "s"))
			if err != nil || seconds <= 0 {
				return fmt.Errorf("timeout must be a positive number of seconds")
			}
			cfg.RequestTimeout = seconds
		case "free-tier":
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("free-tier must be true or false")
			}
			cfg.FreeTierOnly = enabled
		case "log-level":
			cfg.LogLevel = value
		case "clipboard":
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("clipboard must be true or false")
			}
			cfg.CopyToClipboard = enabled
		}
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

	case "system-prompt", "temperature", "dark-mode":
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		switch key {
		case "system-prompt":
			settings.SystemPrompt = value
		case "temperature":
			temp, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("temperature must be a number")
			}
			settings.Temperature = config.ClampTemperature(temp)
		case "dark-mode":
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("dark-mode must be true or false")
			}
			settings.DarkMode = enabled
		}
		if err := config.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

	default:
		return fmt.Errorf("unknown key: %s", key)
	}

	fmt.Fprintf(w, "%s updated\n", key)
	return nil
}
