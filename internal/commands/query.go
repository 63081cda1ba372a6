package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/avelar/chatdeck/internal/catalog"
	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/conversation"
	"github.com/avelar/chatdeck/internal/dispatch"
	apierrors "github.com/avelar/chatdeck/internal/errors"
	"github.com/avelar/chatdeck/internal/render"
	"github.com/avelar/chatdeck/internal/session"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(0)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// runQuery executes a single query and outputs the response.
// If rawOutput is true, only the raw response text is printed without decoration.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && len(attachFlag) == 0 {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg := loadRuntimeConfig()
	settings, err := config.LoadSettings()
	if err != nil {
		settings = config.DefaultSettings()
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

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Connecting to backend")
		spin.start()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := backend.Health(ctx); err != nil {
		cancel()
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Backend unreachable"))
		}
		return fmt.Errorf("backend unreachable: %w", err)
	}
	cancel()

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	sess.Verify(sctx)
	scancel()

	if len(attachFlag) > 0 {
		if err := state.Staging().Add(attachFlag); err != nil {
			if !rawOutput {
				spin.stopWithError()
			}
			return fmt.Errorf("failed to attach files: %w", err)
		}
	}

	if !rawOutput {
		spin.stopWithSuccess("Connected")
		spin = newSpinner("Generating response")
		spin.start()
	}

	startTime := time.Now()
	reply, err := dispatcher.Send(context.Background(), prompt)
	requestDuration := time.Since(startTime)

	if err != nil {
		if !rawOutput {
			spin.stopWithError()
		}
		return err
	}
	if strings.HasPrefix(reply.Content, dispatch.ErrorPrefix) {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, strings.TrimPrefix(reply.Content, dispatch.ErrorPrefix))
		}
		return fmt.Errorf("generation failed")
	}
	if !rawOutput {
		spin.stopWithSuccess(fmt.Sprintf("Done in %s", requestDuration.Round(time.Millisecond)))
	}

	text := reply.Content

	// Raw output mode: output only the response text
	if rawOutput {
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Print(text)
		return nil
	}

	// Decorated output mode (TTY)
	fmt.Fprintln(os.Stderr)

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorFailure).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(os.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, clipMsg)
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	label := assistantLabelStyle.Render("✦ Assistant")
	fmt.Println(label)

	renderOpts := render.FromSettings(settings).WithWidth(contentWidth)
	rendered, err := render.Markdown(text, renderOpts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
	fmt.Println(bubble)

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorFailure)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if apiErr, ok := apierrors.IsAPIError(err); ok {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", apiErr.StatusCode)))
		if apiErr.Endpoint != "" {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", apiErr.Endpoint)))
		}
	}

	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Run 'chatdeck login' to sign in"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the backend is running and reachable"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or check your connection"))
	}

	return sb.String()
}
