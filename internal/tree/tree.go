// Package tree implements spec.md §4.6's thin Tree façade over package
// node: an optional root NodeRef plus a storage handle, exposing
// get/set/range/hash/from_set/from_hash.
package tree

import (
	"fmt"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/node"
	"github.com/prollykv/prollytree/internal/pkey"
	"github.com/prollykv/prollytree/internal/rank"
)

// Tree is a persistent ordered key/value map backed by a ranked prolly
// tree. The zero value is not usable; construct with New, FromHash, or
// FromSet.
type Tree struct {
	factor  uint32
	storage node.Storage
	root    *node.Node // nil means an empty tree
}

// New returns an empty Tree using factor as the branching factor. factor
// must be a power of two (spec.md §6.5); storage is typically a
// *nodestore.NodeStorage.
func New(factor uint32, storage node.Storage) (*Tree, error) {
	if !rank.Valid(factor) {
		return nil, fmt.Errorf("tree: invalid branching factor %d: must be a power of two >= %d", factor, rank.MinFactor)
	}
	return &Tree{factor: factor, storage: storage}, nil
}

// FromHash reopens a previously built tree from its root content hash.
func FromHash(factor uint32, hash block.Hash, storage node.Storage) (*Tree, error) {
	t, err := New(factor, storage)
	if err != nil {
		return nil, err
	}
	root, err := node.FromHash(hash, storage)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// FromSet bulk-builds a tree from entries in O(N), bottom-up, rather than
// one insert at a time (spec.md §4.5.4).
func FromSet(factor uint32, entries []block.Entry, storage node.Storage) (*Tree, error) {
	t, err := New(factor, storage)
	if err != nil {
		return nil, err
	}
	root, err := node.FromSet(entries, factor, storage)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// Get returns the value stored under key, or (nil, nil) if key is absent.
func (t *Tree) Get(key pkey.Key) ([]byte, error) {
	if t.root == nil {
		return nil, nil
	}
	entry, err := t.root.GetEntry(key, t.storage)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return entry.Value, nil
}

// Set inserts or updates key with value, returning the tree's new root
// hash. t is updated in place to point at the new root; the previous
// root and every block untouched by the update remain in storage,
// unmodified and still reachable by their old hash (spec.md §3
// immutability).
func (t *Tree) Set(key pkey.Key, value []byte) (block.Hash, error) {
	entry := block.Entry{Key: key, Value: value}
	if t.root == nil {
		root, err := node.FromSet([]block.Entry{entry}, t.factor, t.storage)
		if err != nil {
			return block.Hash{}, err
		}
		t.root = root
		return root.Hash(), nil
	}
	root, err := t.root.Insert(entry, t.factor, t.storage)
	if err != nil {
		return block.Hash{}, err
	}
	t.root = root
	return root.Hash(), nil
}

// GetRange returns a Cursor streaming entries within r in key order.
func (t *Tree) GetRange(r node.Range) *node.Cursor {
	return node.NewCursor(t.root, r, t.storage)
}

// Hash returns the tree's current root hash, or nil for an empty tree.
func (t *Tree) Hash() *block.Hash {
	if t.root == nil {
		return nil
	}
	h := t.root.Hash()
	return &h
}

// IsEmpty reports whether the tree currently has no entries.
func (t *Tree) IsEmpty() bool {
	return t.root == nil
}

// Factor returns the tree's branching factor.
func (t *Tree) Factor() uint32 {
	return t.factor
}
