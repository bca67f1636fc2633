package badgerstore

import (
	"context"
	"testing"

	"github.com/leofalp/chatflow/providers/ai"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Options{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestNewRequiresDirForDiskMode(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error when Dir is empty and InMemory is false")
	}
}

func TestLoadUnknownThread(t *testing.T) {
	store := newTestStore(t)

	messages, err := store.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if messages == nil || len(messages) != 0 {
		t.Errorf("expected empty non-nil history, got %#v", messages)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	history := []ai.Message{
		{Role: ai.RoleUser, Content: "hello"},
		{Role: ai.RoleAssistant, Content: "hi", ToolCalls: []ai.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: ai.ToolCallFunction{
				Name:      "search",
				Arguments: `{"query":"rabbits"}`,
			},
		}}},
	}
	if err := store.Save(ctx, "thread-1", history); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "thread-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(loaded))
	}
	if loaded[1].ToolCalls[0].Function.Name != "search" {
		t.Errorf("tool call not preserved: %+v", loaded[1])
	}
}

func TestLatestWinsAcrossSaves(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "thread-1", []ai.Message{{Role: ai.RoleUser, Content: "one"}})
	store.Save(ctx, "thread-1", []ai.Message{
		{Role: ai.RoleUser, Content: "one"},
		{Role: ai.RoleAssistant, Content: "two"},
	})

	loaded, err := store.Load(ctx, "thread-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("expected latest snapshot with 2 messages, got %d", len(loaded))
	}
}

func TestThreadIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "thread-a", []ai.Message{{Role: ai.RoleUser, Content: "a"}})
	store.Save(ctx, "thread-b", []ai.Message{{Role: ai.RoleUser, Content: "b"}})

	loadedA, _ := store.Load(ctx, "thread-a")
	if len(loadedA) != 1 || loadedA[0].Content != "a" {
		t.Errorf("thread-a history wrong: %+v", loadedA)
	}
}

func TestHistoryChronologicalOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		history := make([]ai.Message, i+1)
		for j := range history {
			history[j] = ai.Message{Role: ai.RoleUser, Content: "msg"}
		}
		if err := store.Save(ctx, "thread-1", history); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	checkpoints, err := store.History(ctx, "thread-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(checkpoints) != 3 {
		t.Fatalf("expected 3 checkpoints, got %d", len(checkpoints))
	}
	for i, checkpoint := range checkpoints {
		if len(checkpoint.Messages) != i+1 {
			t.Errorf("checkpoint %d has %d messages, expected %d", i, len(checkpoint.Messages), i+1)
		}
	}
}
