package observability

// Semantic convention attribute and event names used across the codebase.
// Keeping them centralized ensures spans and logs remain queryable by a
// consistent vocabulary.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "openai")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "gpt-4o-mini", "glm-4")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"
)

// --- Tool Execution Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolInput is the tool input (serialized)
	AttrToolInput = "tool.input"

	// AttrToolOutput is the tool output (serialized)
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message if tool execution failed
	AttrToolError = "tool.error"
)

// --- Request/Response Attributes ---

const (
	// AttrHTTPMethod is the HTTP method of an outbound request
	AttrHTTPMethod = "http.method"

	// AttrHTTPURL is the URL of an outbound request
	AttrHTTPURL = "http.url"

	// AttrHTTPStatusCode is the response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body_size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body_size"

	// AttrRequestMessagesCount is the number of messages in a chat request
	AttrRequestMessagesCount = "request.messages.count"

	// AttrRequestToolsCount is the number of tools bound to a chat request
	AttrRequestToolsCount = "request.tools.count"
)

// --- Pipeline Attributes ---

const (
	// AttrPipelineStage is the pipeline stage producing the event
	AttrPipelineStage = "pipeline.stage"

	// AttrPipelineThread is the conversation thread identifier
	AttrPipelineThread = "pipeline.thread"

	// AttrPipelineToolIterations is the number of tool-call round trips taken
	AttrPipelineToolIterations = "pipeline.tool_iterations"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the beginning of an LLM request
	EventLLMRequestStart = "llm.request.start"

	// EventToolExecutionStart marks the beginning of a tool execution
	EventToolExecutionStart = "tool.execution.start"

	// EventToolExecutionEnd marks the end of a tool execution
	EventToolExecutionEnd = "tool.execution.end"

	// EventPipelineStateChange marks a pipeline state transition
	EventPipelineStateChange = "pipeline.state_change"
)
