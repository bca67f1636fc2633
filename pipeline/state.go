package pipeline

import "github.com/leofalp/chatflow/providers/ai"

// ConversationState is the mutable record carried through one pipeline run.
// Messages is append-only within a run: entries are never reordered or
// truncated. Each run owns its state exclusively; when a checkpointer is
// configured, ownership transfers to the store between runs, keyed by
// ThreadID.
type ConversationState struct {
	// ThreadID groups all snapshots of one logical conversation.
	// It is an opaque lookup key, never interpreted. Empty disables
	// persistence for this run.
	ThreadID string

	// Topic seeds the refine stage. When set, the refine stage rewrites
	// it and appends a prompt message built from it.
	Topic string

	// Messages is the ordered conversation history.
	Messages []ai.Message
}

// clone returns an independent copy so that two runs seeded from the same
// state cannot interact through a shared backing array.
func (s ConversationState) clone() ConversationState {
	messages := make([]ai.Message, len(s.Messages))
	copy(messages, s.Messages)
	return ConversationState{
		ThreadID: s.ThreadID,
		Topic:    s.Topic,
		Messages: messages,
	}
}

// LastAssistantMessage returns the content of the most recent assistant
// message, or the empty string when none exists.
func (s ConversationState) LastAssistantMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == ai.RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}
