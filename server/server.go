package server

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/leofalp/chatflow/pipeline"
	"github.com/leofalp/chatflow/providers/observability"
)

// Server exposes a Pipeline over HTTP. Two GET endpoints are served:
//
//	/stream  streams successive model fragments as one plain-text body
//	/events  streams JSON-encoded StepEvents as server-sent events
//
// Both accept a "topic" query parameter that seeds the pipeline and
// defaults to [pipeline.DefaultTopic]. Each request runs one independent
// pipeline execution; requests share no mutable state.
type Server struct {
	pipeline       *pipeline.Pipeline
	observer       observability.Provider
	typingInterval time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithObserver attaches an observability provider to every request context.
func WithObserver(observer observability.Provider) Option {
	return func(s *Server) {
		s.observer = observer
	}
}

// WithTypingInterval throttles delivery so clients see a human-perceptible
// typing effect. This is presentation pacing only, not backpressure; zero
// disables it.
func WithTypingInterval(interval time.Duration) Option {
	return func(s *Server) {
		s.typingInterval = interval
	}
}

// New constructs a Server around the given pipeline.
func New(p *pipeline.Pipeline, options ...Option) *Server {
	s := &Server{pipeline: p}
	for _, option := range options {
		option(s)
	}
	return s
}

// Handler returns the HTTP handler serving both endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stream", s.handleStream)
	mux.HandleFunc("GET /events", s.handleEvents)
	return mux
}

// limiter returns the pacing limiter for one request, or nil when
// throttling is disabled.
func (s *Server) limiter() *rate.Limiter {
	if s.typingInterval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(s.typingInterval), 1)
}

func (s *Server) topicFromRequest(r *http.Request) string {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = pipeline.DefaultTopic
	}
	return topic
}

// handleStream writes successive content fragments as a single streamed
// plain-text body. Step and error events are not surfaced on this
// endpoint; a mid-stream failure simply ends the body early.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.observer != nil {
		ctx = observability.ContextWithObserver(ctx, s.observer)
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	pacing := s.limiter()
	state := pipeline.ConversationState{Topic: s.topicFromRequest(r)}

	for event := range s.pipeline.RunStream(ctx, state).Events() {
		if event.Kind != pipeline.KindContent {
			continue
		}
		if pacing != nil {
			if err := pacing.Wait(ctx); err != nil {
				return // client disconnected while pacing
			}
		}
		if _, err := w.Write([]byte(event.Content)); err != nil {
			return // client disconnected, stop delivery silently
		}
		flusher.Flush()
	}
}

// handleEvents serves the full step-status protocol as server-sent
// events: every StepEvent is JSON-encoded on one data line.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.observer != nil {
		ctx = observability.ContextWithObserver(ctx, s.observer)
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	pacing := s.limiter()
	state := pipeline.ConversationState{Topic: s.topicFromRequest(r)}

	for event := range s.pipeline.RunStream(ctx, state).Events() {
		if pacing != nil && event.Kind == pipeline.KindContent {
			if err := pacing.Wait(ctx); err != nil {
				return
			}
		}

		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}
