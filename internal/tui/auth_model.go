package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/models"
	"github.com/avelar/chatdeck/internal/session"
)

// AuthMode selects between the two faces of the auth form.
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

const (
	authFieldUsername = iota
	authFieldEmail
	authFieldPassword
	authFieldCount
)

type authResultMsg struct {
	mode AuthMode
	user *models.User
	err  error
}

// AuthModel is the sign-in/register overlay. The username field only
// participates in register mode. Submission is disabled while a
// request is outstanding.
type AuthModel struct {
	backend api.Backend
	session *session.Store

	mode   AuthMode
	inputs []textinput.Model
	focus  int
	busy   bool
	notice string
	err    error
}

// NewAuthModel creates the auth overlay in the given mode.
func NewAuthModel(backend api.Backend, sess *session.Store, mode AuthMode) AuthModel {
	inputs := make([]textinput.Model, authFieldCount)

	inputs[authFieldUsername] = textinput.New()
	inputs[authFieldUsername].Placeholder = "Username..."
	inputs[authFieldUsername].CharLimit = 64
	inputs[authFieldUsername].Width = 40

	inputs[authFieldEmail] = textinput.New()
	inputs[authFieldEmail].Placeholder = "Email..."
	inputs[authFieldEmail].CharLimit = 128
	inputs[authFieldEmail].Width = 40

	inputs[authFieldPassword] = textinput.New()
	inputs[authFieldPassword].Placeholder = "Password..."
	inputs[authFieldPassword].CharLimit = 128
	inputs[authFieldPassword].Width = 40
	inputs[authFieldPassword].EchoMode = textinput.EchoPassword
	inputs[authFieldPassword].EchoCharacter = '•'

	m := AuthModel{
		backend: backend,
		session: sess,
		mode:    mode,
		inputs:  inputs,
	}
	m.focus = m.firstField()
	m.inputs[m.focus].Focus()
	return m
}

// Init starts the cursor blink.
func (a AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

// firstField is where focus lands when the form opens or the mode flips.
func (a AuthModel) firstField() int {
	if a.mode == ModeRegister {
		return authFieldUsername
	}
	return authFieldEmail
}

// fields returns the field indexes active in the current mode.
func (a AuthModel) fields() []int {
	if a.mode == ModeRegister {
		return []int{authFieldUsername, authFieldEmail, authFieldPassword}
	}
	return []int{authFieldEmail, authFieldPassword}
}

// canSubmit reports whether every active field has a value and no
// request is outstanding.
func (a AuthModel) canSubmit() bool {
	if a.busy {
		return false
	}
	for _, i := range a.fields() {
		if strings.TrimSpace(a.inputs[i].Value()) == "" {
			return false
		}
	}
	return true
}

// toggleMode flips between login and register, keeping typed values.
func (a *AuthModel) toggleMode() {
	if a.mode == ModeLogin {
		a.mode = ModeRegister
	} else {
		a.mode = ModeLogin
	}
	a.err = nil
	a.setFocus(a.firstField())
}

func (a *AuthModel) setFocus(idx int) {
	for i := range a.inputs {
		a.inputs[i].Blur()
	}
	a.focus = idx
	a.inputs[idx].Focus()
}

// cycleFocus moves focus to the next active field.
func (a *AuthModel) cycleFocus(backwards bool) {
	fields := a.fields()
	pos := 0
	for i, f := range fields {
		if f == a.focus {
			pos = i
			break
		}
	}
	if backwards {
		pos--
		if pos < 0 {
			pos = len(fields) - 1
		}
	} else {
		pos = (pos + 1) % len(fields)
	}
	a.setFocus(fields[pos])
}

// submit fires the login or register request.
func (a *AuthModel) submit() tea.Cmd {
	a.busy = true
	a.err = nil

	backend := a.backend
	mode := a.mode
	username := strings.TrimSpace(a.inputs[authFieldUsername].Value())
	email := strings.TrimSpace(a.inputs[authFieldEmail].Value())
	password := a.inputs[authFieldPassword].Value()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if mode == ModeRegister {
			err := backend.Register(ctx, username, email, password)
			return authResultMsg{mode: mode, err: err}
		}

		user, err := backend.Login(ctx, email, password)
		return authResultMsg{mode: mode, user: user, err: err}
	}
}

// updateAuth handles updates while the auth overlay is open.
func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	a := m.auth

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		a.busy = false
		if msg.err != nil {
			a.err = msg.err
			return m, nil
		}
		if msg.mode == ModeRegister {
			// Account created; hand the same form over to sign-in.
			a.mode = ModeLogin
			a.notice = "Account created. Sign in to continue."
			a.inputs[authFieldPassword].Reset()
			a.setFocus(a.firstField())
			return m, nil
		}
		m.session.SetUser(msg.user)
		m.notice = "Signed in as " + msg.user.Username
		m.auth = nil
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !a.busy {
				m.auth = nil
			}
			return m, nil

		case "ctrl+t":
			if !a.busy {
				a.toggleMode()
			}
			return m, nil

		case "tab", "down":
			a.cycleFocus(false)
			return m, nil

		case "shift+tab", "up":
			a.cycleFocus(true)
			return m, nil

		case "enter":
			if a.canSubmit() {
				return m, a.submit()
			}
			return m, nil
		}
	}

	if a.busy {
		return m, nil
	}

	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	return m, cmd
}

// View renders the auth overlay.
func (a *AuthModel) View(screenWidth int) string {
	width := screenWidth - 8
	if width < 48 {
		width = 48
	}

	var content strings.Builder

	title := "🔐 Sign in"
	if a.mode == ModeRegister {
		title = "🔐 Create an account"
	}
	content.WriteString(overlayTitleStyle.Render(title))
	content.WriteString("\n\n")

	if a.notice != "" {
		content.WriteString(noticeStyle.Render(a.notice))
		content.WriteString("\n\n")
	}

	labels := map[int]string{
		authFieldUsername: "Username",
		authFieldEmail:    "Email",
		authFieldPassword: "Password",
	}
	for _, i := range a.fields() {
		style := formLabelStyle
		if i == a.focus {
			style = formActiveLabelStyle
		}
		content.WriteString(style.Render(labels[i]))
		content.WriteString("\n")
		content.WriteString(a.inputs[i].View())
		content.WriteString("\n\n")
	}

	submitLabel := "Sign in"
	if a.mode == ModeRegister {
		submitLabel = "Register"
	}
	if a.busy {
		content.WriteString(loadingStyle.Render("  Submitting..."))
	} else if a.canSubmit() {
		content.WriteString(statusKeyStyle.Render("Enter") + statusDescStyle.Render(" "+submitLabel))
	} else {
		content.WriteString(formDisabledStyle.Render(submitLabel + " (fill in all fields)"))
	}
	content.WriteString("\n")

	if a.err != nil {
		content.WriteString("\n")
		content.WriteString(errorStyle.Render("✗ " + a.err.Error()))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	other := "Register"
	if a.mode == ModeRegister {
		other = "Sign in"
	}
	shortcuts := []string{
		statusKeyStyle.Render("Tab") + statusDescStyle.Render(" Next field"),
		statusKeyStyle.Render("Ctrl+T") + statusDescStyle.Render(" "+other),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return box.Render(content.String())
}
