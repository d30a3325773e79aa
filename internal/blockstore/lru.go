package blockstore

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/prollykv/prollytree/internal/block"
)

// LRUStore wraps an inner Store with a bounded, recency-ordered cache
// (spec.md §4.3's "LRU-cache wrapper"): Get moves a hit to the front, Put
// both writes through to inner and seeds the cache, and the cache evicts
// its least-recently-used entry once it reaches capacity.
type LRUStore struct {
	inner Store
	cache *lru.Cache[block.Hash, []byte]
}

// NewLRUStore wraps inner with an LRU cache holding up to capacity
// blocks. capacity must be at least 1.
func NewLRUStore(inner Store, capacity int) (*LRUStore, error) {
	cache, err := lru.New[block.Hash, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &LRUStore{inner: inner, cache: cache}, nil
}

// Get implements Store.
func (s *LRUStore) Get(hash block.Hash) ([]byte, error) {
	if data, ok := s.cache.Get(hash); ok {
		return data, nil
	}
	data, err := s.inner.Get(hash)
	if err != nil {
		return nil, err
	}
	s.cache.Add(hash, data)
	return data, nil
}

// Put implements Store.
func (s *LRUStore) Put(hash block.Hash, data []byte) error {
	if err := s.inner.Put(hash, data); err != nil {
		return err
	}
	s.cache.Add(hash, data)
	return nil
}

// Has implements Store.
func (s *LRUStore) Has(hash block.Hash) (bool, error) {
	if s.cache.Contains(hash) {
		return true, nil
	}
	return s.inner.Has(hash)
}

// Len returns the number of entries currently cached.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}
