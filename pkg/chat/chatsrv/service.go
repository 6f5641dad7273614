// Package chatsrv orchestrates chat conversations against an LLM provider.
package chatsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joopert/translate-app/pkg/chat"
	"github.com/joopert/translate-app/pkg/logx"
)

// Service relays chat messages, keeping per-conversation instructions in
// sync with the personalization config the extension sends.
type Service struct {
	provider chat.Provider
	store    *chat.ConversationStore
}

// NewService builds the chat service.
func NewService(provider chat.Provider, store *chat.ConversationStore) *Service {
	return &Service{provider: provider, store: store}
}

// ProcessMessage handles one user message and returns the assistant reply.
//
// The first message of a conversation renders the instruction prompt from
// the request's config. If a later message arrives with a different config,
// the instructions are re-rendered so the assistant follows the new
// preferences from that point on.
func (s *Service) ProcessMessage(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error) {
	if req.ConversationID == "" || req.Message == "" {
		return nil, chat.ErrRegistry.New(chat.CodeInvalidRequest)
	}

	conv := s.store.Get(req.ConversationID)
	if conv == nil {
		instructions, err := chat.RenderInstructions(req.Config)
		if err != nil {
			return nil, chat.ErrRegistry.NewWithCause(chat.CodeProviderError, err)
		}
		now := time.Now()
		conv = &chat.Conversation{
			ID:            req.ConversationID,
			Config:        req.Config,
			Instructions:  instructions,
			CreatedAt:     now,
			LastMessageAt: now,
		}
		s.store.Put(conv)
	} else if !conv.Config.Equal(req.Config) {
		instructions, err := chat.RenderInstructions(req.Config)
		if err != nil {
			return nil, chat.ErrRegistry.NewWithCause(chat.CodeProviderError, err)
		}
		conv.Config = req.Config
		conv.Instructions = instructions
		s.store.Put(conv)
		logx.WithField("conversation_id", conv.ID).Debug("Conversation config changed, instructions re-rendered")
	}

	history := s.store.History(conv.ID)

	reply, err := s.provider.Complete(ctx, conv.Instructions, history, req.Message)
	if err != nil {
		return nil, err
	}

	userMsg := chat.Message{ID: req.MessageID, Role: chat.RoleUser, Content: req.Message}
	assistantMsg := chat.Message{ID: uuid.NewString(), Role: chat.RoleAssistant, Content: reply}
	s.store.Append(conv.ID, userMsg, assistantMsg)

	return &chat.ChatResponse{
		ConversationID: conv.ID,
		Message: chat.FrontendMessage{
			ID:      assistantMsg.ID,
			Kind:    "response",
			Content: assistantMsg.Content,
		},
	}, nil
}
