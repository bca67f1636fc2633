// Package badgerstore provides a durable memory.Checkpointer backed by
// BadgerDB v4. Each Save writes both a "latest" pointer for fast loads and
// an append-only history entry per thread for time-travel inspection.
package badgerstore
