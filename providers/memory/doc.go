// Package memory defines the conversation persistence contract.
//
// A [Checkpointer] stores and restores message histories keyed by an
// opaque thread ID, so that separate pipeline runs can continue the same
// conversation. Implementations live in subpackages: inmemory for
// process-local storage and badgerstore for durable storage on BadgerDB.
package memory
