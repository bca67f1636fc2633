// Package observability defines lightweight tracing and structured-logging
// interfaces, decoupled from any specific backend. Concrete implementations
// live in subpackages ([slogobs] adapts the standard library's log/slog).
//
// Components that want to emit telemetry retrieve the ambient [Provider] and
// [Span] through a [context.Context] using [ContextWithObserver] and
// [ContextWithSpan]; they can be retrieved with [ObserverFromContext] and
// [SpanFromContext]. All retrieval helpers return nil when nothing is
// attached, so instrumentation degrades to a no-op instead of failing.
package observability
