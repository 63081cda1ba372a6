package api

import (
	"context"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/avelar/chatdeck/internal/errors"
	"github.com/avelar/chatdeck/internal/models"
)

// Turn is one prior conversation entry as the backend expects it.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message      string                `json:"message"`
	Provider     string                `json:"provider"`
	Model        string                `json:"model"`
	SystemPrompt string                `json:"systemPrompt"`
	Conversation []Turn                `json:"conversation"`
	Temperature  float64               `json:"temperature"`
	Attachments  []models.AttachedFile `json:"attachments,omitempty"`
}

// Chat sends one completion request and returns the assistant text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	body, _, err := c.do(ctx, fhttp.MethodPost, models.PathChat, req)
	if err != nil {
		return "", err
	}

	response := gjson.GetBytes(body, "response")
	if !response.Exists() {
		return "", apierrors.NewParseError("response field missing", models.PathChat)
	}

	return response.String(), nil
}
