package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leofalp/chatflow/providers/ai"
	"github.com/leofalp/chatflow/providers/memory"
)

// Store is a concurrency-safe, process-local checkpointer.
// It retains every saved snapshot per thread, so it also implements
// [memory.Historian]. State is lost when the process exits.
type Store struct {
	mu      sync.RWMutex
	threads map[string][]memory.Checkpoint
}

// New returns a new, empty [Store] ready for immediate use.
func New() *Store {
	return &Store{
		threads: make(map[string][]memory.Checkpoint),
	}
}

var (
	_ memory.Checkpointer = (*Store)(nil)
	_ memory.Historian    = (*Store)(nil)
)

// Load returns a copy of the most recently saved message history for the
// given thread. Unknown threads yield an empty, non-nil slice.
func (s *Store) Load(_ context.Context, threadID string) ([]ai.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkpoints := s.threads[threadID]
	if len(checkpoints) == 0 {
		return []ai.Message{}, nil
	}

	latest := checkpoints[len(checkpoints)-1]
	messages := make([]ai.Message, len(latest.Messages))
	copy(messages, latest.Messages)
	return messages, nil
}

// Save appends a new snapshot of the full message history for the thread.
// The messages slice is copied, so callers may keep mutating their own copy.
func (s *Store) Save(_ context.Context, threadID string, messages []ai.Message) error {
	snapshot := make([]ai.Message, len(messages))
	copy(snapshot, messages)

	checkpoint := memory.Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		CreatedAt: time.Now(),
		Messages:  snapshot,
	}

	s.mu.Lock()
	s.threads[threadID] = append(s.threads[threadID], checkpoint)
	s.mu.Unlock()
	return nil
}

// History returns all checkpoints saved for the thread, oldest first.
func (s *Store) History(_ context.Context, threadID string) ([]memory.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkpoints := s.threads[threadID]
	out := make([]memory.Checkpoint, len(checkpoints))
	copy(out, checkpoints)
	return out, nil
}
