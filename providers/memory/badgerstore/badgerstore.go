package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/leofalp/chatflow/providers/ai"
	"github.com/leofalp/chatflow/providers/memory"
)

// Key layout:
//
//	latest/<threadID>              -> JSON checkpoint (most recent)
//	history/<threadID>/<ts>-<uuid> -> JSON checkpoint (append-only)
//
// The history timestamp is RFC3339Nano so lexicographic key order matches
// chronological order during prefix iteration.

// Store is a durable checkpointer backed by BadgerDB v4.
type Store struct {
	db *badger.DB
}

// Options configures the BadgerDB store.
type Options struct {
	// Dir is the directory for BadgerDB data files.
	// Required unless InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode (no disk persistence).
	// Useful for testing with the real badger engine.
	InMemory bool

	// Logger sets the badger logger. Nil silences badger's own output.
	Logger badger.Logger
}

// New opens a BadgerDB-backed checkpointer.
func New(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badgerstore: Options.Dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(opts.Logger)

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	return &Store{db: db}, nil
}

var (
	_ memory.Checkpointer = (*Store)(nil)
	_ memory.Historian    = (*Store)(nil)
)

// Close releases the underlying database. The store must not be used
// after Close returns.
func (s *Store) Close() error {
	return s.db.Close()
}

func latestKey(threadID string) []byte {
	return []byte("latest/" + threadID)
}

func historyPrefix(threadID string) []byte {
	return []byte("history/" + threadID + "/")
}

// Load returns the most recently saved message history for the thread.
// Unknown threads yield an empty, non-nil slice.
func (s *Store) Load(_ context.Context, threadID string) ([]ai.Message, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey(threadID))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []ai.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badgerstore: load %q: %w", threadID, err)
	}

	var checkpoint memory.Checkpoint
	if err := json.Unmarshal(raw, &checkpoint); err != nil {
		return nil, fmt.Errorf("badgerstore: decode checkpoint for %q: %w", threadID, err)
	}
	if checkpoint.Messages == nil {
		checkpoint.Messages = []ai.Message{}
	}
	return checkpoint.Messages, nil
}

// Save writes a new snapshot of the full message history for the thread,
// updating the latest pointer and appending to the thread's history.
func (s *Store) Save(_ context.Context, threadID string, messages []ai.Message) error {
	now := time.Now()
	checkpoint := memory.Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		CreatedAt: now,
		Messages:  messages,
	}

	raw, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("badgerstore: encode checkpoint for %q: %w", threadID, err)
	}

	historyKey := append(historyPrefix(threadID), []byte(now.UTC().Format(time.RFC3339Nano)+"-"+checkpoint.ID)...)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(latestKey(threadID), raw); err != nil {
			return err
		}
		return txn.Set(historyKey, raw)
	})
	if err != nil {
		return fmt.Errorf("badgerstore: save %q: %w", threadID, err)
	}
	return nil
}

// History returns all checkpoints saved for the thread, oldest first.
func (s *Store) History(_ context.Context, threadID string) ([]memory.Checkpoint, error) {
	prefix := historyPrefix(threadID)
	checkpoints := []memory.Checkpoint{}

	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var checkpoint memory.Checkpoint
			if err := json.Unmarshal(raw, &checkpoint); err != nil {
				return err
			}
			checkpoints = append(checkpoints, checkpoint)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badgerstore: history %q: %w", threadID, err)
	}
	return checkpoints, nil
}
