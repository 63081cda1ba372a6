package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avelar/chatdeck/internal/models"
)

// selectorModel is the model picker overlay. It filters as the user
// types and keeps a cursor within the filtered window.
type selectorModel struct {
	list    []models.ModelInfo
	cursor  int
	loading bool
	filter  string
	current string
	err     error
}

func newSelectorModel(current string) *selectorModel {
	return &selectorModel{
		loading: true,
		current: current,
	}
}

// loadModelsForSelector fetches the directory for the overlay.
func (m Model) loadModelsForSelector() tea.Cmd {
	return m.loadModels()
}

// updateSelector handles updates while the model picker is open.
func (m Model) updateSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	sel := m.selector

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case modelsLoadedMsg:
		sel.loading = false
		if msg.err != nil {
			sel.err = msg.err
		} else {
			sel.list = msg.list
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.selector = nil

		case "up", "ctrl+k":
			if n := len(sel.filtered()); n > 0 {
				sel.cursor--
				if sel.cursor < 0 {
					sel.cursor = n - 1
				}
			}

		case "down", "ctrl+j":
			if n := len(sel.filtered()); n > 0 {
				sel.cursor++
				if sel.cursor >= n {
					sel.cursor = 0
				}
			}

		case "enter":
			filtered := sel.filtered()
			if len(filtered) > 0 && sel.cursor < len(filtered) {
				chosen := filtered[sel.cursor]
				m.directory.SetActive(chosen.ID)
				m.notice = "Model set to " + chosen.Name
				m.selector = nil
			}

		case "backspace":
			if len(sel.filter) > 0 {
				sel.filter = sel.filter[:len(sel.filter)-1]
				sel.cursor = 0
			}

		default:
			if len(msg.String()) == 1 {
				r := []rune(msg.String())[0]
				if r >= ' ' && r <= '~' {
					sel.filter += msg.String()
					sel.cursor = 0
				}
			}
		}
	}

	return m, nil
}

// filtered returns the list narrowed by the typed filter.
func (s *selectorModel) filtered() []models.ModelInfo {
	if s.filter == "" {
		return s.list
	}

	filter := strings.ToLower(s.filter)
	var filtered []models.ModelInfo
	for _, info := range s.list {
		if strings.Contains(strings.ToLower(info.Name), filter) ||
			strings.Contains(strings.ToLower(info.ID), filter) ||
			strings.Contains(strings.ToLower(info.Description), filter) {
			filtered = append(filtered, info)
		}
	}
	return filtered
}

// View renders the model picker overlay.
func (s *selectorModel) View(screenWidth int) string {
	width := screenWidth - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	title := overlayTitleStyle.Render("◆ Select a model")
	if s.current != "" {
		title += hintStyle.Render(fmt.Sprintf("  (current: %s)", s.current))
	}
	content.WriteString(title)
	content.WriteString("\n\n")

	if s.filter != "" {
		content.WriteString(inputLabelStyle.Render("🔍 ") + s.filter + "_")
		content.WriteString("\n\n")
	}

	switch {
	case s.loading:
		content.WriteString(loadingStyle.Render("  Loading models..."))
	case s.err != nil:
		content.WriteString(FormatError(s.err))
	case len(s.list) == 0:
		content.WriteString(hintStyle.Render("  No models available"))
	default:
		filtered := s.filtered()
		if len(filtered) == 0 {
			content.WriteString(hintStyle.Render("  No models match filter"))
		} else {
			maxItems := 8
			startIdx := 0
			if s.cursor >= maxItems {
				startIdx = s.cursor - maxItems + 1
			}
			endIdx := startIdx + maxItems
			if endIdx > len(filtered) {
				endIdx = len(filtered)
			}

			if startIdx > 0 {
				content.WriteString(hintStyle.Render("  ↑ more above"))
				content.WriteString("\n")
			}

			for i := startIdx; i < endIdx; i++ {
				info := filtered[i]
				cursor := "  "
				nameStyle := overlayItemStyle
				if i == s.cursor {
					cursor = overlayCursorStyle.Render("▸ ")
					nameStyle = overlaySelectedStyle
				}

				marker := ""
				if info.ID == s.current {
					marker = overlayValueStyle.Render(" [active]")
				}

				line := fmt.Sprintf("%s%s%s", cursor, nameStyle.Render(info.Name), marker)
				if info.Description != "" {
					maxDesc := width - len(info.Name) - 15
					if maxDesc > 10 {
						desc := info.Description
						if len(desc) > maxDesc {
							desc = desc[:maxDesc-3] + "..."
						}
						line += hintStyle.Render(" - " + desc)
					}
				}

				content.WriteString(line)
				content.WriteString("\n")
			}

			if endIdx < len(filtered) {
				content.WriteString(hintStyle.Render("  ↓ more below"))
				content.WriteString("\n")
			}
		}
	}

	content.WriteString("\n")

	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	return overlayBoxStyle.Width(width).Render(content.String())
}
