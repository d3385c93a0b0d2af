// Package kv provides a durable string-keyed value store. It is the
// persistence primitive under the session store: one key holds the whole
// serialized session collection.
package kv

// Store is a synchronous string-keyed store. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}
