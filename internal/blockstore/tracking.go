package blockstore

import (
	"sync"

	"github.com/prollykv/prollytree/internal/block"
)

// TrackingStore wraps an inner Store and counts Get/Put calls, letting
// tests assert exactly how many times the backing store was touched
// (spec.md §8 Scenarios D/E, and the original crate's lru_store_caches
// test).
type TrackingStore struct {
	inner Store

	mu    sync.Mutex
	gets  int
	puts  int
	hases int
}

// NewTrackingStore wraps inner with call counters.
func NewTrackingStore(inner Store) *TrackingStore {
	return &TrackingStore{inner: inner}
}

// Get implements Store.
func (s *TrackingStore) Get(hash block.Hash) ([]byte, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.inner.Get(hash)
}

// Put implements Store.
func (s *TrackingStore) Put(hash block.Hash, data []byte) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return s.inner.Put(hash, data)
}

// Has implements Store.
func (s *TrackingStore) Has(hash block.Hash) (bool, error) {
	s.mu.Lock()
	s.hases++
	s.mu.Unlock()
	return s.inner.Has(hash)
}

// Gets returns the number of Get calls observed so far.
func (s *TrackingStore) Gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

// Puts returns the number of Put calls observed so far.
func (s *TrackingStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Reset zeroes all counters without touching the inner store.
func (s *TrackingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets, s.puts, s.hases = 0, 0, 0
}
