package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/chatflow/pipeline"
	"github.com/leofalp/chatflow/providers/ai"
)

// stubStreamProvider yields canned fragments, optionally failing after them.
type stubStreamProvider struct {
	fragments []string
	streamErr error
	requests  []ai.ChatRequest
}

func (s *stubStreamProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return &ai.ChatResponse{Content: strings.Join(s.fragments, ""), FinishReason: "stop"}, nil
}

func (s *stubStreamProvider) IsStopMessage(*ai.ChatResponse) bool { return true }

func (s *stubStreamProvider) WithAPIKey(string) ai.Provider           { return s }
func (s *stubStreamProvider) WithBaseURL(string) ai.Provider          { return s }
func (s *stubStreamProvider) WithHttpClient(*http.Client) ai.Provider { return s }

func (s *stubStreamProvider) StreamMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	s.requests = append(s.requests, request)
	fragments := s.fragments
	streamErr := s.streamErr
	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		for _, fragment := range fragments {
			if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: fragment}, nil) {
				return
			}
		}
		if streamErr != nil {
			yield(ai.StreamEvent{}, streamErr)
		}
	}), nil
}

func newTestServer(t *testing.T, provider ai.Provider, options ...Option) *httptest.Server {
	t.Helper()
	p, err := pipeline.New(provider, "test-model")
	require.NoError(t, err)

	testServer := httptest.NewServer(New(p, options...).Handler())
	t.Cleanup(testServer.Close)
	return testServer
}

func TestStreamEndpoint(t *testing.T) {
	provider := &stubStreamProvider{fragments: []string{"你", "好"}}
	testServer := newTestServer(t, provider)

	resp, err := http.Get(testServer.URL + "/stream?topic=兔子")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "你好", string(body))
}

func TestStreamEndpointDefaultTopic(t *testing.T) {
	provider := &stubStreamProvider{fragments: []string{"x"}}
	testServer := newTestServer(t, provider)

	resp, err := http.Get(testServer.URL + "/stream")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	require.Len(t, provider.requests, 1)
	prompt := provider.requests[0].Messages[0].Content
	assert.Contains(t, prompt, "兔子 和猫", "default topic must be refined into the prompt")
}

func TestEventsEndpoint(t *testing.T) {
	provider := &stubStreamProvider{fragments: []string{"你", "好"}}
	testServer := newTestServer(t, provider)

	resp, err := http.Get(testServer.URL + "/events?topic=兔子")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := decodeSSE(t, resp.Body)
	require.Len(t, events, 6)

	assert.Equal(t, pipeline.StepStart(pipeline.StageRefine), events[0])
	assert.Equal(t, pipeline.StepComplete(pipeline.StageRefine, "兔子 和猫"), events[1])
	assert.Equal(t, pipeline.StepStart(pipeline.StageGenerate), events[2])
	assert.Equal(t, pipeline.ContentEvent("你"), events[3])
	assert.Equal(t, pipeline.ContentEvent("好"), events[4])
	assert.Equal(t, pipeline.StepComplete(pipeline.StageGenerate, ""), events[5])
}

func TestEventsEndpointErrorMidStream(t *testing.T) {
	provider := &stubStreamProvider{
		fragments: []string{"你"},
		streamErr: errors.New("model went away"),
	}
	testServer := newTestServer(t, provider)

	resp, err := http.Get(testServer.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	events := decodeSSE(t, resp.Body)
	require.NotEmpty(t, events)

	// The error is surfaced as one event and the stream still closes with
	// the generate-complete step.
	var errorEvents int
	for _, event := range events {
		if event.Kind == pipeline.KindError {
			errorEvents++
			assert.Equal(t, "model went away", event.Message)
		}
	}
	assert.Equal(t, 1, errorEvents)

	last := events[len(events)-1]
	assert.Equal(t, pipeline.KindStep, last.Kind)
	assert.Equal(t, pipeline.StageGenerate, last.Stage)
	assert.Equal(t, pipeline.StatusComplete, last.Status)
}

func TestEventsEndpointWithTypingInterval(t *testing.T) {
	provider := &stubStreamProvider{fragments: []string{"a", "b", "c"}}
	testServer := newTestServer(t, provider, WithTypingInterval(time.Millisecond))

	started := time.Now()
	resp, err := http.Get(testServer.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	events := decodeSSE(t, resp.Body)
	assert.Len(t, events, 6)
	assert.GreaterOrEqual(t, time.Since(started), 2*time.Millisecond)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	provider := &stubStreamProvider{fragments: []string{"x"}}
	testServer := newTestServer(t, provider)

	resp, err := http.Get(testServer.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(testServer.URL+"/stream", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// decodeSSE reads a text/event-stream body and unmarshals every data line.
func decodeSSE(t *testing.T, body io.Reader) []pipeline.StepEvent {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	var events []pipeline.StepEvent
	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event pipeline.StepEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}
	return events
}
