// Package chat relays reading-assistant conversations to an LLM,
// personalized through a simplify config.
package chat

import (
	"time"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/simplify"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CHAT")

var (
	CodeProviderError  = ErrRegistry.Register("PROVIDER_ERROR", errx.CategoryServerError, errx.FieldGeneral, "The assistant is unavailable right now")
	CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.CategoryValidation, errx.FieldGeneral, "Invalid chat request")
)

// ============================================================================
// Domain Types
// ============================================================================

// Role marks who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation tracks one chat session and the config it was prompted with.
// When the config changes mid-conversation the instructions are re-rendered.
type Conversation struct {
	ID            string
	Config        simplify.Config
	Instructions  string
	CreatedAt     time.Time
	LastMessageAt time.Time
	MessageCount  int
}

// ChatRequest is what the browser extension sends per message.
type ChatRequest struct {
	ConversationID string          `json:"conversation_id"`
	MessageID      string          `json:"message_id"`
	Message        string          `json:"message"`
	Config         simplify.Config `json:"config"`
}

// FrontendMessage is the reply shape the extension renders.
type FrontendMessage struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// ChatResponse wraps the assistant's reply.
type ChatResponse struct {
	ConversationID string          `json:"conversation_id"`
	Message        FrontendMessage `json:"message"`
}
