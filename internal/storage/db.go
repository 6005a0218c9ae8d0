// Package storage holds the key-value stores behind the asset-description
// cache: Badger on disk, a map for tests, and per-network namespaces.
package storage

import "errors"

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

// DB is a key-value store. Implementations are safe for concurrent use.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Has(key []byte) (bool, error)
	// ForEach calls fn for every key starting with prefix, in key order.
	// A non-nil error from fn stops the walk and is returned.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
