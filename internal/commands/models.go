package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/catalog"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models the backend offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadRuntimeConfig()
		backend, _, err := newBackend(cfg)
		if err != nil {
			return err
		}
		return runModels(cmd.OutOrStdout(), backend, getModel())
	},
}

func runModels(w io.Writer, backend api.Backend, defaultModel string) error {
	directory := catalog.NewDirectory(backend, catalog.NewCache(catalog.FreshnessWindow), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	list, err := directory.Models(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch models: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No models available.")
		return nil
	}

	nameStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)
	markStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	for _, info := range list {
		line := nameStyle.Render(info.Name)
		if info.ID != info.Name {
			line += dimStyle.Render("  (" + info.ID + ")")
		}
		if info.Provider != "" {
			line += dimStyle.Render("  [" + info.Provider + "]")
		}
		if info.ID == defaultModel {
			line += markStyle.Render("  ← default")
		}
		fmt.Fprintln(w, line)
		if info.Description != "" {
			fmt.Fprintln(w, dimStyle.Render("    "+strings.TrimSpace(info.Description)))
		}
	}
	return nil
}
