// Package nodestore composes a block encoder with a raw block store into
// the typed node storage spec.md §4.4 calls for: read(hash) -> Block,
// write(block) -> hash.
package nodestore

import (
	"fmt"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/blockstore"
	"github.com/prollykv/prollytree/internal/encoding"
)

// NodeStorage reads and writes whole Blocks by composing an Encoder with
// a blockstore.Store. It structurally satisfies package node's Storage
// interface without either package importing the other.
type NodeStorage struct {
	Encoder encoding.Encoder
	Store   blockstore.Store
}

// New composes enc and store into a NodeStorage.
func New(enc encoding.Encoder, store blockstore.Store) *NodeStorage {
	return &NodeStorage{Encoder: enc, Store: store}
}

// Read decodes the block stored under hash.
func (s *NodeStorage) Read(hash block.Hash) (*block.Block, error) {
	data, err := s.Store.Get(hash)
	if err != nil {
		return nil, err
	}
	blk, err := s.Encoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("nodestore: failed to decode block %s: %w", hash, err)
	}
	return blk, nil
}

// Write encodes blk and stores it, returning its content hash. Writing an
// already-stored block is a no-op beyond recomputing its hash, since the
// underlying Store's Put is idempotent.
func (s *NodeStorage) Write(blk *block.Block) (block.Hash, error) {
	hash, data, err := s.Encoder.Encode(blk)
	if err != nil {
		return block.Hash{}, fmt.Errorf("nodestore: failed to encode block: %w", err)
	}
	if err := s.Store.Put(hash, data); err != nil {
		return block.Hash{}, err
	}
	return hash, nil
}
