// Package pipeline implements the conversation controller: a fixed
// finite-state machine that refines a seed topic, invokes the model, and
// loops through tool execution while the model keeps requesting tools.
//
// Run executes a complete turn synchronously and returns the final
// conversation state. RunStream relays incremental model output as an
// ordered sequence of StepEvents carrying stage/status metadata alongside
// the content fragments.
//
// Persistence is delegated to a memory.Checkpointer keyed by the state's
// thread ID; tools are delegated to a tool.Catalog. Both are optional.
package pipeline
