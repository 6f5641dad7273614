package chat

import (
	"sync"
	"time"
)

// ConversationStore keeps conversations and their message history in
// memory. Everything is lost on restart, which is acceptable for the
// extension's short-lived reading sessions.
type ConversationStore struct {
	mu            sync.Mutex
	conversations map[string]*Conversation
	messages      map[string][]Message
}

// NewConversationStore creates an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*Conversation),
		messages:      make(map[string][]Message),
	}
}

// Get returns a copy of the conversation, or nil when it does not exist.
func (s *ConversationStore) Get(id string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	copied := *conv
	return &copied
}

// Put inserts or replaces a conversation.
func (s *ConversationStore) Put(conv *Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *conv
	s.conversations[conv.ID] = &copied
}

// History returns the message history of a conversation in order.
func (s *ConversationStore) History(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.messages[id]
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

// Append records a completed exchange and bumps the conversation's
// activity counters.
func (s *ConversationStore) Append(id string, userMsg, assistantMsg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[id] = append(s.messages[id], userMsg, assistantMsg)
	if conv, ok := s.conversations[id]; ok {
		conv.LastMessageAt = time.Now()
		conv.MessageCount += 2
	}
}
