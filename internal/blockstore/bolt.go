package blockstore

import (
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/prollykv/prollytree/internal/block"
)

// blocksBucket holds every stored block, keyed by its 32-byte hash.
// Modeled on the teacher repo's internal/store/kv.go bucket convention
// (one package-level bucket name per logical table).
var blocksBucket = []byte("blocks")

// BoltStore is a durable, file-backed Store built on bbolt, standing in
// for the original implementation's browser IndexedDB backend (there is
// no browser target in this module — see SPEC_FULL.md §D.5).
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (creating if necessary) a bbolt database at path
// and ensures the blocks bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0644, nil)
	if err != nil {
		return nil, fmt.Errorf("blockstore: failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blocksBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("blockstore: failed to initialize bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying bbolt database handle.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *BoltStore) Get(hash block.Hash) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(blocksBucket).Get(hash[:])
		if data == nil {
			return &block.MissingBlockError{Hash: hash}
		}
		out = make([]byte, len(data))
		copy(out, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put implements Store.
func (s *BoltStore) Put(hash block.Hash, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(blocksBucket)
		if bucket.Get(hash[:]) != nil {
			return nil
		}
		return bucket.Put(hash[:], data)
	})
}

// Has implements Store.
func (s *BoltStore) Has(hash block.Hash) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(blocksBucket).Get(hash[:]) != nil
		return nil
	})
	return found, err
}
