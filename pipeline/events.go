package pipeline

// EventKind discriminates the three event shapes a streaming run produces.
type EventKind string

const (
	KindStep    EventKind = "step"
	KindContent EventKind = "content"
	KindError   EventKind = "error"
)

// Stage names a pipeline stage in step events.
type Stage string

const (
	StageRefine   Stage = "refine"
	StageGenerate Stage = "generate"
)

// StepStatus marks whether a stage is starting or has finished.
type StepStatus string

const (
	StatusStart    StepStatus = "start"
	StatusComplete StepStatus = "complete"
)

// StepEvent is one unit of the streaming status protocol. Events are
// produced in strict chronological order and must be delivered in that
// order.
//
// Kind selects which fields are meaningful:
//   - step:    Stage, Status and optionally Result
//   - content: Content carries one text fragment
//   - error:   Message carries the failure description
type StepEvent struct {
	Kind    EventKind  `json:"kind"`
	Stage   Stage      `json:"stage,omitempty"`
	Status  StepStatus `json:"status,omitempty"`
	Result  string     `json:"result,omitempty"`
	Content string     `json:"content,omitempty"`
	Message string     `json:"message,omitempty"`
}

// StepStart builds the event announcing that a stage has begun.
func StepStart(stage Stage) StepEvent {
	return StepEvent{Kind: KindStep, Stage: stage, Status: StatusStart}
}

// StepComplete builds the event announcing that a stage has finished.
// result is optional and carries the stage's output (e.g. the refined topic).
func StepComplete(stage Stage, result string) StepEvent {
	return StepEvent{Kind: KindStep, Stage: stage, Status: StatusComplete, Result: result}
}

// ContentEvent wraps one model output fragment.
func ContentEvent(fragment string) StepEvent {
	return StepEvent{Kind: KindContent, Content: fragment}
}

// ErrorEvent wraps a mid-stream failure.
func ErrorEvent(err error) StepEvent {
	return StepEvent{Kind: KindError, Message: err.Error()}
}
