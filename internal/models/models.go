// Package models contains data types and constants shared across chatdeck.
package models

import "strings"

// Backend API paths. Relative to the configured base URL.
const (
	PathHealth   = "/api/health"
	PathModels   = "/api/chat/models"
	PathChat     = "/api/chat"
	PathVerify   = "/api/auth/verify"
	PathLogin    = "/api/auth/login"
	PathRegister = "/api/auth/register"
	PathLogout   = "/api/auth/logout"
)

// Provider names accepted by the backend chat endpoint.
const (
	ProviderLocal      = "ollama"
	ProviderAggregator = "openrouter"
)

// DefaultModelID is used when no model has been selected yet.
const DefaultModelID = "llama3.2"

// FreeTierSuffix is appended to aggregator model names to pin the
// free-tier variant.
const FreeTierSuffix = ":free"

// PersonaPrompt is the fixed system prompt sent with every chat
// request. The dispatcher extends it with the user's name and role
// when a session is authenticated.
const PersonaPrompt = "You are a helpful, concise assistant. Answer in the " +
	"language the user writes in and format code blocks with fences."

// Temperature bounds enforced at request construction.
const (
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
	DefaultTemperature = 0.7
)

// CapabilityText is the only capability annotated on fetched models.
// The backend declares richer capability sets, but the client only
// drives text chat.
const CapabilityText = "text"

// ModelInfo describes a selectable backend model.
type ModelInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Provider     string   `json:"provider"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// User roles as reported by the auth endpoints.
const (
	RoleStandard = "user"
	RoleAdmin    = "admin"
)

// User is the authenticated identity, or absent for anonymous use.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user holds the privileged role.
func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}
