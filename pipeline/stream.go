package pipeline

import (
	"context"
	"iter"

	"github.com/leofalp/chatflow/providers/ai"
)

// StepStream is the ordered sequence of StepEvents produced by a
// streaming run. Events arrive in strict chronological order; iteration
// is single-use.
type StepStream struct {
	sequence iter.Seq[StepEvent]
}

// Events returns the event sequence for use with range.
func (s *StepStream) Events() iter.Seq[StepEvent] {
	return s.sequence
}

// RunStream executes the refine and generate stages, relaying each model
// output fragment to the consumer as soon as it arrives. No fragment is
// dropped, reordered, merged, or buffered beyond serializing one event at
// a time.
//
// The event protocol is fixed: a start/complete step pair for the refine
// stage (complete carries the refined topic), a start step for the
// generate stage, one content event per fragment in arrival order, and
// exactly one generate-complete step event, emitted even when generation
// fails. A mid-stream failure yields a single error event before the
// completion event; no further content follows it.
//
// If the consumer stops iterating (e.g. a network client disconnected),
// delivery halts silently and no further events are attempted.
//
// Providers that implement ai.StreamProvider stream natively; a
// sync-only provider is invoked once and its reply delivered as a
// single content event, so the protocol is identical either way.
func (p *Pipeline) RunStream(ctx context.Context, initial ConversationState) *StepStream {
	sequence := func(yield func(StepEvent) bool) {
		state := initial.clone()

		if !yield(StepStart(StageRefine)) {
			return
		}
		p.refine(&state)
		if !yield(StepComplete(StageRefine, state.Topic)) {
			return
		}

		if !yield(StepStart(StageGenerate)) {
			return
		}
		p.streamGenerate(ctx, state, yield)
	}
	return &StepStream{sequence: sequence}
}

// openStream prefers the provider's native streaming; a sync-only
// provider is executed once and its response wrapped as a single-event
// stream.
func (p *Pipeline) openStream(ctx context.Context, state ConversationState) (*ai.ChatStream, error) {
	if streamProvider, ok := p.provider.(ai.StreamProvider); ok {
		return streamProvider.StreamMessage(ctx, p.buildRequest(state))
	}
	response, err := p.provider.SendMessage(ctx, p.buildRequest(state))
	if err != nil {
		return nil, err
	}
	return ai.NewSingleEventStream(response), nil
}

// streamGenerate relays model fragments to the consumer. The
// generate-complete event is emitted from a deferred guard so that no
// early return or failure inside the generation block can skip it; the
// only path that suppresses it is the consumer itself having stopped.
func (p *Pipeline) streamGenerate(ctx context.Context, state ConversationState, yield func(StepEvent) bool) {
	consumerStopped := false
	emit := func(event StepEvent) bool {
		if consumerStopped {
			return false
		}
		if !yield(event) {
			consumerStopped = true
		}
		return !consumerStopped
	}

	defer func() {
		if !consumerStopped {
			yield(StepComplete(StageGenerate, ""))
		}
	}()

	stream, err := p.openStream(ctx, state)
	if err != nil {
		emit(ErrorEvent(err))
		return
	}

	for event, streamErr := range stream.Iter() {
		if streamErr != nil {
			emit(ErrorEvent(streamErr))
			return
		}
		if event.Type == ai.StreamEventContent {
			if !emit(ContentEvent(event.Content)) {
				return
			}
		}
	}
}
