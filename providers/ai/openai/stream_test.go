package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/chatflow/providers/ai"
)

func sseServer(t *testing.T, payloads []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}
		for _, payload := range payloads {
			w.Write([]byte("data: " + payload + "\n\n"))
			flusher.Flush()
		}
		w.Write([]byte("data: [DONE]\n\n"))
		flusher.Flush()
	}))
}

func TestStreamMessageContentDeltas(t *testing.T) {
	server := sseServer(t, []string{
		`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"role":"assistant","content":"Hel"},"finish_reason":null}]}`,
		`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}]}`,
		`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		`{"id":"c1","object":"chat.completion.chunk","choices":[],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`,
	})
	defer server.Close()

	provider := NewOpenAIProvider().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("StreamMessage failed: %v", err)
	}

	var content string
	var sawDone, sawUsage bool
	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected stream error: %v", iterErr)
		}
		switch event.Type {
		case ai.StreamEventContent:
			content += event.Content
		case ai.StreamEventDone:
			sawDone = true
			if event.FinishReason != "stop" {
				t.Errorf("expected finish reason stop, got %q", event.FinishReason)
			}
		case ai.StreamEventUsage:
			sawUsage = true
			if event.Usage.TotalTokens != 5 {
				t.Errorf("expected 5 total tokens, got %d", event.Usage.TotalTokens)
			}
		}
	}

	if content != "Hello" {
		t.Errorf("expected accumulated content Hello, got %q", content)
	}
	if !sawDone {
		t.Error("expected a done event")
	}
	if !sawUsage {
		t.Error("expected a usage event")
	}
}

func TestStreamMessageToolCallDeltas(t *testing.T) {
	server := sseServer(t, []string{
		`{"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"search","arguments":""}}]},"finish_reason":null}]}`,
		`{"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"query\":"}}]},"finish_reason":null}]}`,
		`{"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"cats\"}"}}]},"finish_reason":null}]}`,
		`{"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`,
	})
	defer server.Close()

	provider := NewOpenAIProvider().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "find cats"}},
	})
	if err != nil {
		t.Fatalf("StreamMessage failed: %v", err)
	}

	// Collect assembles tool call deltas into complete tool calls.
	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(response.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(response.ToolCalls))
	}
	toolCall := response.ToolCalls[0]
	if toolCall.ID != "call_1" || toolCall.Function.Name != "search" {
		t.Errorf("tool call identity not assembled: %+v", toolCall)
	}
	if toolCall.Function.Arguments != `{"query":"cats"}` {
		t.Errorf("tool call arguments not accumulated: %q", toolCall.Function.Arguments)
	}
	if response.FinishReason != "tool_calls" {
		t.Errorf("expected finish reason tool_calls, got %q", response.FinishReason)
	}
}

func TestStreamMessageEarlyStop(t *testing.T) {
	server := sseServer(t, []string{
		`{"id":"c3","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"a"},"finish_reason":null}]}`,
		`{"id":"c3","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"b"},"finish_reason":null}]}`,
		`{"id":"c3","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"c"},"finish_reason":null}]}`,
	})
	defer server.Close()

	provider := NewOpenAIProvider().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("StreamMessage failed: %v", err)
	}

	var count int
	for _, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected stream error: %v", iterErr)
		}
		count++
		if count == 1 {
			break // stop early, body must still be closed by the iterator
		}
	}
	if count != 1 {
		t.Errorf("expected iteration to stop after 1 event, got %d", count)
	}
}

func TestUnmarshalStreamChunkInvalid(t *testing.T) {
	if _, err := unmarshalStreamChunk("{not json"); err == nil {
		t.Error("expected error for malformed chunk")
	}
}
