// Package tool defines the typed tool abstraction used to expose Go
// functions to language models.
//
// A [Tool] pairs a strongly-typed handler function with an automatically
// derived JSON schema so providers can advertise it for function calling.
// The [GenericTool] interface erases the type parameters for storage and
// dispatch, and [Catalog] holds a thread-safe, case-insensitive registry
// of tools.
//
// Concrete tools live in subpackages (duckduckgo, webfetch).
package tool
