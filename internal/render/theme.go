package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/avelar/chatdeck/internal/config"
)

// Theme defines the color scheme for the TUI interface.
type Theme struct {
	Name string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// DarkTheme is the default palette.
	DarkTheme = Theme{
		Name: StyleDark,

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// LightTheme is used when dark mode is switched off.
	LightTheme = Theme{
		Name: StyleLight,

		Background: lipgloss.Color("#fafafa"),
		Surface:    lipgloss.Color("#eceff4"),
		Border:     lipgloss.Color("#c8ccd4"),

		Primary:   lipgloss.Color("#2e7de9"),
		Secondary: lipgloss.Color("#387068"),
		Accent:    lipgloss.Color("#9854f1"),
		Warning:   lipgloss.Color("#8c6c3e"),
		Error:     lipgloss.Color("#f52a65"),

		Text:     lipgloss.Color("#3760bf"),
		TextDim:  lipgloss.Color("#848cb5"),
		TextMute: lipgloss.Color("#b4b9d4"),
	}
)

// ThemeForSettings selects the palette matching the dark mode flag.
func ThemeForSettings(settings config.Settings) Theme {
	if settings.DarkMode {
		return DarkTheme
	}
	return LightTheme
}
