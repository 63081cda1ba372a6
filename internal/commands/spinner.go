package commands

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/avelar/chatdeck/internal/render"
)

// One-shot commands print straight to stderr without the TUI's style
// pass, so they borrow their colors from the shared palette.
var (
	cliPalette = render.DarkTheme

	colorPrimary  = cliPalette.Primary
	colorSuccess  = cliPalette.Secondary
	colorFailure  = cliPalette.Error
	colorText     = cliPalette.Text
	colorTextDim  = cliPalette.TextDim
	colorTextMute = cliPalette.TextMute
)

// spinnerRamp cycles the glyph through the palette's accent colors.
var spinnerRamp = []lipgloss.Color{
	cliPalette.Primary,
	cliPalette.Accent,
	cliPalette.Secondary,
	cliPalette.Warning,
}

var spinnerGlyphs = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// spinner is a stderr progress indicator for one-shot commands. It
// owns the line it draws on and restores the cursor when stopped.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	color := spinnerRamp[(s.frame/len(spinnerGlyphs))%len(spinnerRamp)]
	glyph := lipgloss.NewStyle().Foreground(color).Bold(true).Render(spinnerGlyphs[s.frame%len(spinnerGlyphs)])

	var dots strings.Builder
	lit := (s.frame / 4) % 4
	for i := 0; i < 3; i++ {
		if i < lit {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextDim).Render("."))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("."))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(os.Stderr, "\r\033[K%s %s%s", glyph, msg, dots.String())
}

// stopOnce closes the stop channel at most once; stopping an already
// stopped spinner is a no-op.
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess clears the spinner line and prints a confirmation.
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	check := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", check, msg)
}

// stopWithError clears the spinner line; the caller prints the failure.
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
