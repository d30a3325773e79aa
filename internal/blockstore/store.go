// Package blockstore implements spec.md §4.3's pluggable raw block
// storage backends: an in-memory store, an LRU-cache wrapper, a
// call-counting wrapper for tests, a durable bbolt-backed store, and an
// optional zstd-compressing wrapper.
package blockstore

import "github.com/prollykv/prollytree/internal/block"

// Store is a raw content-addressed byte store: hash in, bytes out. Put
// must be idempotent — writing the same hash twice is a no-op the second
// time, never an error.
type Store interface {
	// Get returns the bytes stored under hash, or a *block.MissingBlockError
	// wrapping block.ErrMissingBlock if hash is not present.
	Get(hash block.Hash) ([]byte, error)
	// Put stores data under hash. Implementations may assume the caller
	// has already computed hash correctly; Put does not re-verify it.
	Put(hash block.Hash, data []byte) error
	// Has reports whether hash is present, without fetching its bytes.
	Has(hash block.Hash) (bool, error)
}
