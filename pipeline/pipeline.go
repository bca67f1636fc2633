package pipeline

import (
	"context"
	"fmt"

	"github.com/leofalp/chatflow/providers/ai"
	"github.com/leofalp/chatflow/providers/memory"
	"github.com/leofalp/chatflow/providers/observability"
	"github.com/leofalp/chatflow/providers/tool"
)

const (
	// DefaultTopic seeds the pipeline when the caller provides no topic.
	DefaultTopic = "兔子"

	// refineSuffix is appended to the seed topic by the refine stage.
	refineSuffix = " 和猫"

	// jokePromptTemplate builds the generation prompt from the refined topic.
	jokePromptTemplate = "请生成一个关于%s的中文笑话，要求：\n1. 笑话要简短有趣\n2. 使用中文回答\n3. 直接给出笑话内容，不要加任何前缀"
)

// fsmState enumerates the pipeline's execution states.
type fsmState int

const (
	stateRefining fsmState = iota
	stateGenerating
	stateAwaitingTool
	stateDone
)

func (s fsmState) String() string {
	switch s {
	case stateRefining:
		return "refining"
	case stateGenerating:
		return "generating"
	case stateAwaitingTool:
		return "awaiting_tool"
	default:
		return "done"
	}
}

// Pipeline executes a fixed sequence of conversation steps: refine the
// seed topic, invoke the model, and loop through tool execution while the
// model keeps requesting tools. The topology never varies, so it is
// implemented as a small finite-state machine rather than a generic graph.
//
// A Pipeline is an explicitly constructed dependency bundle; it holds no
// global state, and concurrent Run calls are independent as long as they
// use distinct thread IDs.
type Pipeline struct {
	provider          ai.Provider
	model             string
	tools             *tool.Catalog
	checkpointer      memory.Checkpointer
	maxToolIterations int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTools registers the tool catalog advertised to the model.
func WithTools(catalog *tool.Catalog) Option {
	return func(p *Pipeline) {
		p.tools = catalog
	}
}

// WithCheckpointer enables conversation persistence. History is loaded
// before the first state and saved after the last one, keyed by the
// run's thread ID.
func WithCheckpointer(checkpointer memory.Checkpointer) Option {
	return func(p *Pipeline) {
		p.checkpointer = checkpointer
	}
}

// WithMaxToolIterations caps how many times the pipeline will return to
// the model after executing tools within a single run. Zero (the default)
// means unbounded, matching the model-decides-when-to-stop behavior; set
// a positive cap to guard against a model that never stops requesting
// tools.
func WithMaxToolIterations(limit int) Option {
	return func(p *Pipeline) {
		p.maxToolIterations = limit
	}
}

// New constructs a Pipeline bound to the given provider and model name.
func New(provider ai.Provider, model string, options ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, fmt.Errorf("pipeline: provider is required")
	}
	if model == "" {
		return nil, fmt.Errorf("pipeline: model name is required")
	}

	p := &Pipeline{
		provider: provider,
		model:    model,
	}
	for _, option := range options {
		option(p)
	}
	return p, nil
}

// transition is the FSM transition table. The only conditional edge is
// out of the generating state: a model reply carrying tool calls routes
// to tool execution, anything else terminates the run.
func (p *Pipeline) transition(current fsmState, response *ai.ChatResponse) fsmState {
	switch current {
	case stateRefining:
		return stateGenerating
	case stateGenerating:
		if response != nil && len(response.ToolCalls) > 0 && p.tools != nil {
			return stateAwaitingTool
		}
		return stateDone
	case stateAwaitingTool:
		return stateGenerating
	default:
		return stateDone
	}
}

// Run executes the pipeline to completion and returns the final state.
// The input state is cloned so two runs seeded from the same value stay
// independent. Collaborator failures propagate out unchanged; there are
// no retries.
func (p *Pipeline) Run(ctx context.Context, initial ConversationState) (ConversationState, error) {
	state := initial.clone()
	observer := observability.ObserverFromContext(ctx)

	if err := p.loadHistory(ctx, &state); err != nil {
		return state, err
	}

	current := stateRefining
	var response *ai.ChatResponse
	toolIterations := 0

	for current != stateDone {
		if observer != nil {
			observer.Debug(ctx, "pipeline state",
				observability.String(observability.AttrPipelineStage, current.String()),
				observability.String(observability.AttrPipelineThread, state.ThreadID),
			)
		}

		switch current {
		case stateRefining:
			p.refine(&state)

		case stateGenerating:
			var err error
			response, err = p.provider.SendMessage(ctx, p.buildRequest(state))
			if err != nil {
				return state, fmt.Errorf("model invocation failed: %w", err)
			}
			state.Messages = append(state.Messages, ai.Message{
				Role:      ai.RoleAssistant,
				Content:   response.Content,
				ToolCalls: response.ToolCalls,
			})

		case stateAwaitingTool:
			toolIterations++
			if p.maxToolIterations > 0 && toolIterations > p.maxToolIterations {
				return state, fmt.Errorf("tool iteration limit of %d exceeded", p.maxToolIterations)
			}
			if err := p.executeTools(ctx, &state, response.ToolCalls); err != nil {
				return state, err
			}
			if span := observability.SpanFromContext(ctx); span != nil {
				span.SetAttributes(
					observability.Int(observability.AttrPipelineToolIterations, toolIterations),
				)
			}
		}

		next := p.transition(current, response)
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventPipelineStateChange,
				observability.String(observability.AttrPipelineStage, next.String()),
			)
		}
		current = next
	}

	if err := p.saveHistory(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// refine rewrites the seed topic and appends the generation prompt built
// from it. A run seeded with messages instead of a topic passes through
// unchanged.
func (p *Pipeline) refine(state *ConversationState) {
	if state.Topic == "" {
		return
	}
	state.Topic += refineSuffix
	state.Messages = append(state.Messages, ai.Message{
		Role:    ai.RoleUser,
		Content: fmt.Sprintf(jokePromptTemplate, state.Topic),
	})
}

// executeTools runs every tool call from the model's reply exactly once,
// appending exactly one tool-result message per call.
func (p *Pipeline) executeTools(ctx context.Context, state *ConversationState, calls []ai.ToolCall) error {
	for _, call := range calls {
		requested, found := p.tools.Get(call.Function.Name)
		if !found {
			return fmt.Errorf("model requested unknown tool %q", call.Function.Name)
		}

		output, err := requested.Call(ctx, call.Function.Arguments)
		if err != nil {
			return fmt.Errorf("tool %q failed: %w", call.Function.Name, err)
		}

		state.Messages = append(state.Messages, ai.Message{
			Role:       ai.RoleTool,
			Content:    output,
			ToolCallID: call.ID,
			Name:       call.Function.Name,
		})
	}
	return nil
}

func (p *Pipeline) buildRequest(state ConversationState) ai.ChatRequest {
	request := ai.ChatRequest{
		Model:    p.model,
		Messages: state.Messages,
	}
	if p.tools != nil && p.tools.Size() > 0 {
		request.Tools = p.tools.Descriptions()
	}
	return request
}

// loadHistory prepends previously saved messages so the model sees a
// prefix-preserving superset of earlier turns.
func (p *Pipeline) loadHistory(ctx context.Context, state *ConversationState) error {
	if p.checkpointer == nil || state.ThreadID == "" {
		return nil
	}
	prior, err := p.checkpointer.Load(ctx, state.ThreadID)
	if err != nil {
		return fmt.Errorf("loading history for thread %q: %w", state.ThreadID, err)
	}
	state.Messages = append(prior, state.Messages...)
	return nil
}

func (p *Pipeline) saveHistory(ctx context.Context, state ConversationState) error {
	if p.checkpointer == nil || state.ThreadID == "" {
		return nil
	}
	if err := p.checkpointer.Save(ctx, state.ThreadID, state.Messages); err != nil {
		return fmt.Errorf("saving history for thread %q: %w", state.ThreadID, err)
	}
	return nil
}
