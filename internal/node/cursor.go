package node

import (
	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/pkey"
)

// Cursor streams entries within a Range in key order, advancing one block
// at a time so a range over a huge tree never loads more than the
// O(depth) path of blocks it is currently visiting into memory at once
// (spec.md §4.5.2, §9 "streaming range rationale"). It is the idiomatic
// Go translation of the reference implementation's async generator: "In
// languages without generator syntax, implement the stream as a stateful
// object with a next() method that advances the stack."
type Cursor struct {
	storage  Storage
	r        Range
	stack    []level
	pending  []block.Entry
	matching bool
	done     bool
	err      error
}

type level struct {
	node         *Node
	visitedIndex int // -1 means no child visited yet at this level
}

// NewCursor returns a Cursor over root's entries within r. root may be
// nil, representing an empty tree; the returned Cursor then yields
// nothing.
func NewCursor(root *Node, r Range, storage Storage) *Cursor {
	c := &Cursor{storage: storage, r: r}
	if root == nil {
		c.done = true
		return c
	}
	c.stack = []level{{node: root, visitedIndex: -1}}
	return c
}

// Next advances the cursor and returns the next matching entry. ok is
// false once the range is exhausted (or immediately, for an empty tree);
// callers should check err after a false return to distinguish a clean
// end from a storage/decode failure.
func (c *Cursor) Next() (block.Entry, bool, error) {
	for {
		if len(c.pending) > 0 {
			entry := c.pending[0]
			c.pending = c.pending[1:]
			if c.r.Contains(entry.Key) {
				c.matching = true
				return entry, true, nil
			}
			if c.matching {
				c.stop()
				return block.Entry{}, false, nil
			}
			continue
		}
		if c.done || c.err != nil {
			return block.Entry{}, false, c.err
		}
		if len(c.stack) == 0 {
			c.done = true
			return block.Entry{}, false, nil
		}

		top := &c.stack[len(c.stack)-1]
		if top.node.IsBranch() {
			if err := c.descendBranch(top); err != nil {
				c.fail(err)
				return block.Entry{}, false, c.err
			}
			continue
		}

		c.stack = c.stack[:len(c.stack)-1]
		entries, err := top.node.blk.SegmentEntries()
		if err != nil {
			c.fail(err)
			return block.Entry{}, false, c.err
		}
		c.pending = entries
	}
}

func (c *Cursor) descendBranch(top *level) error {
	refs, err := top.node.blk.NodeRefs()
	if err != nil {
		return err
	}

	if !c.matching && top.visitedIndex < 0 {
		startKey, bounded := c.r.startKey()
		idx := 0
		if bounded {
			idx = -1
			for i, ref := range refs {
				if pkey.Compare(startKey, ref.Boundary) <= 0 {
					idx = i
					break
				}
			}
			if idx == -1 {
				// start key is past every child; range is empty from here.
				c.stop()
				return nil
			}
		}
		child, err := FromRef(refs[idx], c.storage)
		if err != nil {
			return err
		}
		top.visitedIndex = idx
		c.stack = append(c.stack, level{node: child, visitedIndex: -1})
		return nil
	}

	next := top.visitedIndex + 1
	if next >= len(refs) {
		c.stack = c.stack[:len(c.stack)-1]
		return nil
	}
	child, err := FromRef(refs[next], c.storage)
	if err != nil {
		return err
	}
	top.visitedIndex = next
	c.stack = append(c.stack, level{node: child, visitedIndex: -1})
	return nil
}

func (c *Cursor) stop() {
	c.done = true
	c.stack = nil
	c.pending = nil
}

func (c *Cursor) fail(err error) {
	c.err = err
	c.stack = nil
	c.pending = nil
}
