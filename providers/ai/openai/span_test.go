package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/chatflow/providers/ai"
	"github.com/leofalp/chatflow/providers/observability"
)

// recordingSpan captures attributes for assertions.
type recordingSpan struct {
	attributes []observability.Attribute
}

func (s *recordingSpan) End()              {}
func (s *recordingSpan) RecordError(error) {}

func (s *recordingSpan) AddEvent(string, ...observability.Attribute) {}

func (s *recordingSpan) SetAttributes(attrs ...observability.Attribute) {
	s.attributes = append(s.attributes, attrs...)
}

func (s *recordingSpan) attribute(key string) (interface{}, bool) {
	for _, attr := range s.attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

func TestSendMessageRecordsFinishReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletionResponse{
			ID: "chatcmpl-1",
			Choices: []chatChoice{{
				Message:      chatResponseMessage{Role: "assistant", Content: "ok"},
				FinishReason: "stop",
			}},
		})
	}))
	defer server.Close()

	span := &recordingSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)
	provider := NewOpenAIProvider().WithAPIKey("test-key").WithBaseURL(server.URL)

	if _, err := provider.SendMessage(ctx, ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	value, found := span.attribute(observability.AttrLLMFinishReason)
	if !found {
		t.Fatal("span missing finish reason attribute")
	}
	if value != "stop" {
		t.Errorf("expected finish reason stop, got %v", value)
	}
}

func TestStreamMessageRecordsFinishReason(t *testing.T) {
	server := sseServer(t, []string{
		`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"x"},"finish_reason":null}]}`,
		`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
	})
	defer server.Close()

	span := &recordingSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)
	provider := NewOpenAIProvider().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(ctx, ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("StreamMessage failed: %v", err)
	}
	for _, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected stream error: %v", iterErr)
		}
	}

	value, found := span.attribute(observability.AttrLLMFinishReason)
	if !found {
		t.Fatal("span missing finish reason attribute")
	}
	if value != "stop" {
		t.Errorf("expected finish reason stop, got %v", value)
	}
}
