// Package inmemory provides a process-local memory.Checkpointer backed by
// a map guarded by a read-write mutex. Suitable for tests, the console
// chat loop, and single-process servers that do not need durability.
package inmemory
