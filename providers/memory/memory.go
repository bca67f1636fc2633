package memory

import (
	"context"
	"time"

	"github.com/leofalp/chatflow/providers/ai"
)

// Checkpoint is a snapshot of a conversation's full message history at a
// point in time. Checkpoints are immutable once saved.
type Checkpoint struct {
	ID        string       `json:"id"`
	ThreadID  string       `json:"thread_id"`
	CreatedAt time.Time    `json:"created_at"`
	Messages  []ai.Message `json:"messages"`
}

// Checkpointer persists conversation state keyed by an opaque thread ID.
// Two runs that share a thread ID share history; distinct thread IDs are
// fully isolated.
//
// Load returns an empty, non-nil slice for a thread that has never been
// saved: an unknown thread is a fresh conversation, not an error.
type Checkpointer interface {
	Load(ctx context.Context, threadID string) ([]ai.Message, error)
	Save(ctx context.Context, threadID string, messages []ai.Message) error
}

// Historian is optionally implemented by checkpointers that retain every
// snapshot rather than just the latest one. History returns all checkpoints
// for a thread in chronological order, enabling inspection of past
// conversation states.
type Historian interface {
	History(ctx context.Context, threadID string) ([]Checkpoint, error)
}
