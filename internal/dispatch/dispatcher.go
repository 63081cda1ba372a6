package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avelar/chatdeck/internal/api"
	"github.com/avelar/chatdeck/internal/catalog"
	"github.com/avelar/chatdeck/internal/config"
	"github.com/avelar/chatdeck/internal/conversation"
	apierrors "github.com/avelar/chatdeck/internal/errors"
	"github.com/avelar/chatdeck/internal/models"
	"github.com/avelar/chatdeck/internal/session"
)

// ErrorPrefix marks synthesized assistant turns that carry a failure
// instead of a model response.
const ErrorPrefix = "⚠️ "

// Dispatcher assembles outgoing chat requests and applies the result
// to the conversation. Every send is a single best-effort attempt: on
// failure a synthesized assistant turn lands in the transcript and the
// in-flight flag is cleared, so the conversation is never left stuck.
type Dispatcher struct {
	provider  Provider
	backend   api.Backend
	state     *conversation.State
	directory *catalog.Directory
	session   *session.Store
	timeout   time.Duration
	fallback  string // model when nothing is selected
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight bool
	settings config.Settings
}

// New creates a dispatcher.
func New(
	provider Provider,
	backend api.Backend,
	state *conversation.State,
	directory *catalog.Directory,
	sess *session.Store,
	cfg config.Config,
	settings config.Settings,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	fallback := cfg.DefaultModel
	if fallback == "" {
		fallback = models.DefaultModelID
	}
	return &Dispatcher{
		provider:  provider,
		backend:   backend,
		state:     state,
		directory: directory,
		session:   sess,
		timeout:   timeout,
		fallback:  fallback,
		settings:  settings,
		logger:    logger,
	}
}

// InFlight reports whether a send is outstanding.
func (d *Dispatcher) InFlight() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

// SetSettings replaces the generation settings used for later sends.
func (d *Dispatcher) SetSettings(s config.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = s
}

// Settings returns the current generation settings.
func (d *Dispatcher) Settings() config.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

// Send performs one chat turn: append the user message (taking the
// staged files with it), call the provider, and append the assistant
// reply or a synthesized error turn. A rejected send leaves the
// conversation untouched and returns ErrNothingToSend, ErrBackendDown
// or ErrSendInFlight. Provider failures are not errors here: they land
// in the transcript as the returned assistant turn.
func (d *Dispatcher) Send(ctx context.Context, text string) (models.Message, error) {
	text = strings.TrimSpace(text)

	if text == "" && d.state.Staging().Len() == 0 {
		return models.Message{}, apierrors.ErrNothingToSend
	}
	if !d.backend.Available() {
		d.logger.Debug("send rejected, backend unavailable")
		return models.Message{}, apierrors.ErrBackendDown
	}

	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return models.Message{}, apierrors.ErrSendInFlight
	}
	d.inFlight = true
	settings := d.settings
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inFlight = false
		d.mu.Unlock()
	}()

	// History is the conversation before this turn; the new text rides
	// in the message field.
	history := d.history()
	files := d.state.Staging().Drain()
	d.state.Append(models.NewUserMessage(text, files))

	req := api.ChatRequest{
		Message:      text,
		Model:        d.directory.ActiveOrDefault(d.fallback),
		SystemPrompt: d.systemPrompt(settings),
		Conversation: history,
		Temperature:  config.ClampTemperature(settings.Temperature),
		Attachments:  files,
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	reply, err := d.provider.Send(ctx, req)
	var assistant models.Message
	if err != nil {
		d.logger.Warn("chat send failed", "provider", d.provider.Name(), "error", err)
		assistant = models.NewAssistantMessage(formatSendError(err))
	} else {
		assistant = models.NewAssistantMessage(reply)
	}

	d.state.Append(assistant)
	return assistant, nil
}

// history maps the transcript to the wire shape.
func (d *Dispatcher) history() []api.Turn {
	msgs := d.state.Messages()
	turns := make([]api.Turn, len(msgs))
	for i, m := range msgs {
		turns[i] = api.Turn{Role: m.Role, Content: m.Content}
	}
	return turns
}

// systemPrompt builds the fixed persona prompt, extended with the
// user's identity when authenticated and with the configured system
// prompt when set.
func (d *Dispatcher) systemPrompt(settings config.Settings) string {
	prompt := models.PersonaPrompt
	if user := d.session.Current(); user != nil {
		prompt += fmt.Sprintf(" The user's name is %s and their role is %s.", user.Username, user.Role)
	}
	if extra := strings.TrimSpace(settings.SystemPrompt); extra != "" {
		prompt += "\n\n" + extra
	}
	return prompt
}

// formatSendError renders a failure as transcript text, distinguishing
// a timeout from a structured backend error from a generic failure.
func formatSendError(err error) string {
	switch {
	case apierrors.IsTimeoutError(err):
		return ErrorPrefix + "The request timed out. The model may be overloaded, please try again."
	default:
		if apiErr, ok := apierrors.IsAPIError(err); ok {
			return fmt.Sprintf("%sThe backend reported an error: %s", ErrorPrefix, apiErr.Message)
		}
		return fmt.Sprintf("%sSomething went wrong: %v", ErrorPrefix, err)
	}
}
