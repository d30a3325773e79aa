package blockstore

import (
	"sync"

	"github.com/prollykv/prollytree/internal/block"
)

// MemoryStore is an in-memory Store backed by a map, guarded by a mutex
// so a single Tree/Node can be shared across goroutines for reads even
// though writes are expected to come from one owner at a time (spec.md
// §5). Modeled on the teacher repo's internal/cas.MemoryCAS.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[block.Hash][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[block.Hash][]byte)}
}

// Get implements Store.
func (s *MemoryStore) Get(hash block.Hash) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[hash]
	if !ok {
		return nil, &block.MissingBlockError{Hash: hash}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put implements Store.
func (s *MemoryStore) Put(hash block.Hash, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[hash]; ok {
		return nil
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[hash] = stored
	return nil
}

// Has implements Store.
func (s *MemoryStore) Has(hash block.Hash) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[hash]
	return ok, nil
}

// Len returns the number of blocks currently stored, mainly useful in
// tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
