package chatsrv_test

import (
	"context"
	"strings"
	"testing"

	"github.com/joopert/translate-app/pkg/chat"
	"github.com/joopert/translate-app/pkg/chat/chatsrv"
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/simplify"
)

// fakeLLM records the calls made to it and replies with a canned answer.
type fakeLLM struct {
	calls []llmCall
	err   error
}

type llmCall struct {
	instructions string
	history      []chat.Message
	userMessage  string
}

func (f *fakeLLM) Complete(_ context.Context, instructions string, history []chat.Message, userMessage string) (string, error) {
	f.calls = append(f.calls, llmCall{instructions: instructions, history: history, userMessage: userMessage})
	if f.err != nil {
		return "", f.err
	}
	return "canned reply", nil
}

func request(convID, msg string, cfg simplify.Config) chat.ChatRequest {
	return chat.ChatRequest{
		ConversationID: convID,
		MessageID:      "msg-" + msg,
		Message:        msg,
		Config:         cfg,
	}
}

func strPtr(s string) *string { return &s }

func TestProcessMessage_Validation(t *testing.T) {
	svc := chatsrv.NewService(&fakeLLM{}, chat.NewConversationStore())

	_, err := svc.ProcessMessage(context.Background(), request("", "hello", simplify.Config{}))
	if !errx.IsCode(err, chat.CodeInvalidRequest) {
		t.Fatalf("expected CHAT_INVALID_REQUEST, got %v", err)
	}

	_, err = svc.ProcessMessage(context.Background(), request("conv-1", "", simplify.Config{}))
	if !errx.IsCode(err, chat.CodeInvalidRequest) {
		t.Fatalf("expected CHAT_INVALID_REQUEST, got %v", err)
	}
}

func TestProcessMessage_FirstMessageRendersInstructions(t *testing.T) {
	llm := &fakeLLM{}
	svc := chatsrv.NewService(llm, chat.NewConversationStore())

	cfg := simplify.Config{Background: strPtr("marine biologist")}
	resp, err := svc.ProcessMessage(context.Background(), request("conv-1", "what is a reef?", cfg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.ConversationID != "conv-1" || resp.Message.Kind != "response" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Message.Content != "canned reply" {
		t.Fatalf("unexpected content: %q", resp.Message.Content)
	}

	if len(llm.calls) != 1 {
		t.Fatalf("expected one provider call, got %d", len(llm.calls))
	}
	if !strings.Contains(llm.calls[0].instructions, "marine biologist") {
		t.Fatalf("instructions should reflect the config, got %q", llm.calls[0].instructions)
	}
	if len(llm.calls[0].history) != 0 {
		t.Fatalf("first message should see empty history, got %d", len(llm.calls[0].history))
	}
}

func TestProcessMessage_HistoryAccumulates(t *testing.T) {
	llm := &fakeLLM{}
	svc := chatsrv.NewService(llm, chat.NewConversationStore())
	cfg := simplify.Config{}

	if _, err := svc.ProcessMessage(context.Background(), request("conv-1", "first", cfg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ProcessMessage(context.Background(), request("conv-1", "second", cfg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := llm.calls[1]
	if len(second.history) != 2 {
		t.Fatalf("second call should see user + assistant turns, got %d", len(second.history))
	}
	if second.history[0].Role != chat.RoleUser || second.history[0].Content != "first" {
		t.Fatalf("unexpected first turn: %+v", second.history[0])
	}
	if second.history[1].Role != chat.RoleAssistant {
		t.Fatalf("unexpected second turn: %+v", second.history[1])
	}
	if second.userMessage != "second" {
		t.Fatalf("current message must not be part of history, got %q", second.userMessage)
	}
}

func TestProcessMessage_ConfigChangeRerendersInstructions(t *testing.T) {
	llm := &fakeLLM{}
	svc := chatsrv.NewService(llm, chat.NewConversationStore())

	first := simplify.Config{Background: strPtr("physicist")}
	if _, err := svc.ProcessMessage(context.Background(), request("conv-1", "hello", first)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changed := simplify.Config{Background: strPtr("historian")}
	if _, err := svc.ProcessMessage(context.Background(), request("conv-1", "again", changed)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(llm.calls[1].instructions, "historian") {
		t.Fatalf("instructions should follow the new config, got %q", llm.calls[1].instructions)
	}
}

func TestProcessMessage_SameConfigKeepsInstructions(t *testing.T) {
	llm := &fakeLLM{}
	svc := chatsrv.NewService(llm, chat.NewConversationStore())
	cfg := simplify.Config{Background: strPtr("physicist")}

	if _, err := svc.ProcessMessage(context.Background(), request("conv-1", "one", cfg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ProcessMessage(context.Background(), request("conv-1", "two", cfg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if llm.calls[0].instructions != llm.calls[1].instructions {
		t.Fatal("instructions must be stable while the config is unchanged")
	}
}

func TestProcessMessage_ProviderErrorLeavesHistoryUntouched(t *testing.T) {
	llm := &fakeLLM{err: chat.ErrRegistry.New(chat.CodeProviderError)}
	store := chat.NewConversationStore()
	svc := chatsrv.NewService(llm, store)

	_, err := svc.ProcessMessage(context.Background(), request("conv-1", "hello", simplify.Config{}))
	if !errx.IsCode(err, chat.CodeProviderError) {
		t.Fatalf("expected CHAT_PROVIDER_ERROR, got %v", err)
	}
	if history := store.History("conv-1"); len(history) != 0 {
		t.Fatalf("failed turns must not be recorded, got %d messages", len(history))
	}
}
