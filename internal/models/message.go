package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FileKind classifies an attachment by its declared media type.
type FileKind string

const (
	KindImage    FileKind = "image"
	KindVideo    FileKind = "video"
	KindDocument FileKind = "document"
)

// KindFromMIME maps a declared media type to a FileKind. Anything that
// is not an image or a video is treated as a document.
func KindFromMIME(mimeType string) FileKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

// AttachedFile is a file the user attached to a turn. Created
// client-side at staging time; never persisted by the backend.
type AttachedFile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       FileKind `json:"kind"`
	Size       int64    `json:"size"`
	InlineData string   `json:"inlineData,omitempty"` // base64 data URL, images only
	RemoteURL  string   `json:"remoteUrl,omitempty"`
}

// Message is one turn in the conversation. Immutable once created;
// the transcript is only ever appended to or discarded in bulk.
type Message struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Files     []AttachedFile `json:"files,omitempty"`
}

// NewUserMessage builds a user turn with a fresh ID.
func NewUserMessage(content string, files []AttachedFile) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
		Files:     files,
	}
}

// NewAssistantMessage builds an assistant turn with a fresh ID.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
