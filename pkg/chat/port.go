package chat

import "context"

// Provider is the LLM backend a conversation is relayed to.
type Provider interface {
	// Complete sends the instructions, prior turns and the new user message
	// and returns the assistant's reply text.
	Complete(ctx context.Context, instructions string, history []Message, userMessage string) (string, error)
}
