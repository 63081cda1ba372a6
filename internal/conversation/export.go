package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avelar/chatdeck/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatText     ExportFormat = "text"
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return ExportFormatText, nil
	case "markdown", "md":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format: %s (use text, markdown, or json)", s)
	}
}

// ExportFileName names an export after the current calendar date.
func ExportFileName(format ExportFormat, now time.Time) string {
	ext := "txt"
	switch format {
	case ExportFormatMarkdown:
		ext = "md"
	case ExportFormatJSON:
		ext = "json"
	}
	return fmt.Sprintf("conversation-%s.%s", now.Format("2006-01-02"), ext)
}

// ExportText serializes the transcript as a flat timestamped block,
// one entry per message. Attachments are listed by name.
func ExportText(messages []models.Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString("[")
		sb.WriteString(msg.CreatedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("] ")
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if len(msg.Files) > 0 {
			names := make([]string, len(msg.Files))
			for i, f := range msg.Files {
				names[i] = f.Name
			}
			sb.WriteString("    attachments: ")
			sb.WriteString(strings.Join(names, ", "))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ExportMarkdown serializes the transcript with role headers.
func ExportMarkdown(messages []models.Message) string {
	var sb strings.Builder

	sb.WriteString("# Conversation\n\n")
	sb.WriteString("**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if len(msg.Files) > 0 {
			sb.WriteString("\n")
			for _, f := range msg.Files {
				sb.WriteString(fmt.Sprintf("- 📎 %s (%s)\n", f.Name, f.Kind))
			}
		}

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON serializes the transcript including attachment metadata.
func ExportJSON(messages []models.Message) ([]byte, error) {
	type exportEntry struct {
		Role        string    `json:"role"`
		Content     string    `json:"content"`
		Timestamp   time.Time `json:"timestamp"`
		Attachments []string  `json:"attachments,omitempty"`
	}

	entries := make([]exportEntry, len(messages))
	for i, msg := range messages {
		entries[i] = exportEntry{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		}
		for _, f := range msg.Files {
			entries[i].Attachments = append(entries[i].Attachments, f.Name)
		}
	}

	return json.MarshalIndent(entries, "", "  ")
}

// Export serializes the transcript in the requested format.
func Export(messages []models.Message, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatMarkdown:
		return []byte(ExportMarkdown(messages)), nil
	case ExportFormatJSON:
		return ExportJSON(messages)
	default:
		return []byte(ExportText(messages)), nil
	}
}

// ExportToFile writes the transcript into dir under a date-stamped
// name and returns the written path.
func ExportToFile(messages []models.Message, format ExportFormat, dir string) (string, error) {
	data, err := Export(messages, format)
	if err != nil {
		return "", fmt.Errorf("failed to serialize transcript: %w", err)
	}

	path := filepath.Join(dir, ExportFileName(format, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	return path, nil
}
