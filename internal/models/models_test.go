package models

import "testing"

func TestKindFromMIME(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     FileKind
	}{
		{"jpeg", "image/jpeg", KindImage},
		{"png", "image/png", KindImage},
		{"webp", "image/webp", KindImage},
		{"mp4", "video/mp4", KindVideo},
		{"webm", "video/webm", KindVideo},
		{"pdf", "application/pdf", KindDocument},
		{"plain text", "text/plain", KindDocument},
		{"empty", "", KindDocument},
		{"octet stream", "application/octet-stream", KindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindFromMIME(tt.mimeType); got != tt.want {
				t.Errorf("KindFromMIME(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestNewUserMessage(t *testing.T) {
	files := []AttachedFile{{ID: "f1", Name: "photo.png", Kind: KindImage}}
	msg := NewUserMessage("hello", files)

	if msg.ID == "" {
		t.Error("expected non-empty message ID")
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if len(msg.Files) != 1 || msg.Files[0].Name != "photo.png" {
		t.Errorf("Files = %v, want the staged file", msg.Files)
	}
}

func TestNewAssistantMessage(t *testing.T) {
	msg := NewAssistantMessage("hi there")
	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, RoleAssistant)
	}
	if len(msg.Files) != 0 {
		t.Errorf("assistant turns carry no files, got %v", msg.Files)
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("x", nil)
		if seen[msg.ID] {
			t.Fatalf("duplicate message ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestUserIsAdmin(t *testing.T) {
	if (User{Role: RoleStandard}).IsAdmin() {
		t.Error("standard user reported as admin")
	}
	if !(User{Role: "Admin"}).IsAdmin() {
		t.Error("admin role should be case-insensitive")
	}
}
