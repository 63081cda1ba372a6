package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/catalog"
	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/conversation"
	"github.com/avelar/chatdeck/internal/dispatch"
	"github.com/avelar/chatdeck/internal/models"
	"github.com/avelar/chatdeck/internal/render"
	"github.com/avelar/chatdeck/internal/session"
)

const healthInterval = 15 * time.Second

// Message types for the TUI
type (
	sendResultMsg struct {
		reply models.Message
		ok    bool
	}
	healthMsg struct {
		available bool
	}
	healthTickMsg time.Time
	modelsLoadedMsg struct {
		list []models.ModelInfo
		err  error
	}
	sessionVerifiedMsg struct{}
	logoutDoneMsg      struct{}
	exportDoneMsg      struct {
		path string
		err  error
	}
	clipboardMsg struct {
		err error
	}
	attachDoneMsg struct {
		count int
		err   error
	}
)

// Model represents the chat TUI state
type Model struct {
	dispatcher *dispatch.Dispatcher
	backend    api.Backend
	state      *conversation.State
	directory  *catalog.Directory
	session    *session.Store
	settings   config.Settings

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading   bool
	ready     bool
	available bool
	err       error
	notice    string

	// Overlays
	selector *selectorModel
	auth     *AuthModel

	// Dimensions
	width  int
	height int
}

// NewModel creates the chat TUI model.
func NewModel(
	dispatcher *dispatch.Dispatcher,
	backend api.Backend,
	state *conversation.State,
	directory *catalog.Directory,
	sess *session.Store,
	settings config.Settings,
) Model {
	ApplyTheme(render.ThemeForSettings(settings))

	ta := textarea.New()
	ta.Placeholder = "Type a message, or /help for commands..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		dispatcher: dispatcher,
		backend:    backend,
		state:      state,
		directory:  directory,
		session:    sess,
		settings:   settings,
		textarea:   ta,
		spinner:    s,
		available:  true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.checkHealth(),
		m.verifySession(),
		m.loadModels(),
	)
}

// checkHealth probes the backend and reports availability.
func (m Model) checkHealth() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = backend.Health(ctx)
		return healthMsg{available: backend.Available()}
	}
}

func healthTick() tea.Cmd {
	return tea.Tick(healthInterval, func(t time.Time) tea.Msg {
		return healthTickMsg(t)
	})
}

// verifySession resolves the ambient session into a user.
func (m Model) verifySession() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess.Verify(ctx)
		return sessionVerifiedMsg{}
	}
}

// loadModels fetches the model directory.
func (m Model) loadModels() tea.Cmd {
	directory := m.directory
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		list, err := directory.Models(ctx)
		return modelsLoadedMsg{list: list, err: err}
	}
}

// send dispatches one chat turn off the UI goroutine.
func (m Model) send(text string) tea.Cmd {
	dispatcher := m.dispatcher
	return func() tea.Msg {
		reply, err := dispatcher.Send(context.Background(), text)
		return sendResultMsg{reply: reply, ok: err == nil}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	// Overlays swallow input while open
	if m.auth != nil {
		return m.updateAuth(msg)
	}
	if m.selector != nil {
		return m.updateSelector(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.loading {
				// The request keeps running; the result is ignored on arrival.
				m.loading = false
			} else {
				return m, tea.Quit
			}

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			if m.loading {
				break
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" && m.state.Staging().Len() == 0 {
				break
			}

			if strings.HasPrefix(input, "/") || input == "exit" || input == "quit" {
				m.textarea.Reset()
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.err = nil
			m.notice = ""

			return m, tea.Batch(
				m.send(input),
				m.spinner.Tick,
			)
		}

	case sendResultMsg:
		m.loading = false
		if msg.ok {
			m.updateViewport()
			m.viewport.GotoBottom()
		}

	case healthMsg:
		m.available = msg.available
		cmds = append(cmds, healthTick())

	case healthTickMsg:
		cmds = append(cmds, m.checkHealth())

	case modelsLoadedMsg:
		// Background refreshes keep the previous list on failure; the
		// directory already logged it. Nothing to show here.

	case sessionVerifiedMsg:
		// header re-renders with the user name

	case logoutDoneMsg:
		m.notice = "Signed out"

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.notice = "Exported to " + msg.path
		}

	case clipboardMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.notice = "Copied last reply to clipboard"
		}

	case attachDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		if msg.count > 0 {
			m.notice = fmt.Sprintf("Staged %d file(s)", msg.count)
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleCommand interprets a slash command typed into the input.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "/quit", "/exit", "exit", "quit":
		return m, tea.Quit

	case "/clear":
		m.state.Clear()
		m.notice = "Conversation cleared"
		m.updateViewport()
		return m, nil

	case "/attach":
		if len(args) == 0 {
			m.err = fmt.Errorf("usage: /attach <file> [file...]")
			return m, nil
		}
		return m, m.attachFiles(args)

	case "/detach":
		if len(args) == 0 {
			m.err = fmt.Errorf("usage: /detach <name>")
			return m, nil
		}
		m.detachByName(args[0])
		return m, nil

	case "/models", "/model":
		m.selector = newSelectorModel(m.directory.Active())
		return m, m.loadModelsForSelector()

	case "/export":
		format := conversation.ExportFormatMarkdown
		if len(args) > 0 {
			parsed, err := conversation.ParseFormat(args[0])
			if err != nil {
				m.err = err
				return m, nil
			}
			format = parsed
		}
		return m, m.exportConversation(format)

	case "/login":
		auth := NewAuthModel(m.backend, m.session, ModeLogin)
		m.auth = &auth
		return m, m.auth.Init()

	case "/register":
		auth := NewAuthModel(m.backend, m.session, ModeRegister)
		m.auth = &auth
		return m, m.auth.Init()

	case "/logout":
		return m, m.logout()

	case "/help":
		m.notice = "Commands: /attach /detach /clear /export /models /login /register /logout /quit"
		return m, nil

	default:
		m.err = fmt.Errorf("unknown command: %s", command)
		return m, nil
	}
}

// attachFiles stages files for the next message.
func (m Model) attachFiles(paths []string) tea.Cmd {
	staging := m.state.Staging()
	return func() tea.Msg {
		before := staging.Len()
		err := staging.Add(paths)
		return attachDoneMsg{count: staging.Len() - before, err: err}
	}
}

func (m *Model) detachByName(name string) {
	for _, f := range m.state.Staging().Files() {
		if f.Name == name {
			m.state.Staging().Remove(f.ID)
			m.notice = "Removed " + name
			return
		}
	}
	m.err = fmt.Errorf("no staged file named %s", name)
}

// exportConversation writes the transcript to the working directory.
func (m Model) exportConversation(format conversation.ExportFormat) tea.Cmd {
	msgs := m.state.Messages()
	return func() tea.Msg {
		path, err := conversation.ExportToFile(msgs, format, ".")
		return exportDoneMsg{path: path, err: err}
	}
}

// logout ends the backend session and clears local auth state.
func (m Model) logout() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess.Logout(ctx)
		return logoutDoneMsg{}
	}
}

// copyLastReply copies the most recent assistant message to the clipboard.
func (m Model) copyLastReply() tea.Cmd {
	msgs := m.state.Messages()
	return func() tea.Msg {
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role == models.RoleAssistant {
				return clipboardMsg{err: clipboard.WriteAll(msgs[i].Content)}
			}
		}
		return clipboardMsg{err: fmt.Errorf("no assistant reply to copy")}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.auth != nil {
		return m.auth.View(m.width)
	}
	if m.selector != nil {
		return m.selector.View(m.width)
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	if !m.available {
		sections = append(sections, bannerStyle.Width(contentWidth).Render(
			"⚠ Backend unreachable. Messages cannot be sent until it comes back."))
	}

	var messagesContent string
	if m.state.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	if staged := m.state.Staging().Files(); len(staged) > 0 {
		names := make([]string, len(staged))
		for i, f := range staged {
			names[i] = f.Name
		}
		sections = append(sections, attachmentStyle.Render("📎 "+strings.Join(names, ", ")))
	}

	var inputContent string
	if m.loading {
		inputContent = m.spinner.View() + loadingStyle.Render(" Waiting for reply...")
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(contentWidth int) string {
	headerParts := []string{
		titleStyle.Render("✦ chatdeck"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.directory.ActiveOrDefault(models.DefaultModelID)),
	}
	if user := m.session.Current(); user != nil {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			overlayValueStyle.Render("@"+user.Username),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	return headerStyle.Width(contentWidth).Render(headerContent)
}

// renderWelcome renders the empty-conversation screen
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Align(lipgloss.Center).Render("✦")
	title := welcomeTitleStyle.Width(width).Align(lipgloss.Center).Render("Welcome to chatdeck")
	subtitle := welcomeStyle.Width(width).Render("Start a conversation by typing a message below")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.state.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			body := msg.Content
			if len(msg.Files) > 0 {
				names := make([]string, len(msg.Files))
				for j, f := range msg.Files {
					names[j] = f.Name
				}
				body += "\n" + attachmentStyle.Render("📎 "+strings.Join(names, ", "))
			}
			bubble := userBubbleStyle.Width(bubbleWidth).Render(body)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")

			rendered, err := render.Markdown(msg.Content,
				render.FromSettings(m.settings).WithWidth(bubbleWidth-4))
			if err != nil {
				rendered = msg.Content
			}
			rendered = strings.TrimRight(rendered, "\n")

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// Run starts the chat TUI.
func Run(
	dispatcher *dispatch.Dispatcher,
	backend api.Backend,
	state *conversation.State,
	directory *catalog.Directory,
	sess *session.Store,
	settings config.Settings,
) error {
	m := NewModel(dispatcher, backend, state, directory, sess, settings)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
