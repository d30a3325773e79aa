// Package node implements the ranked prolly tree's core node algorithms
// (spec.md §4.5): point lookup, streaming range queries, persistent
// insert-with-rebalance, and bulk bottom-up construction from a sorted
// entry set. Ported from the active recursive-rebuild path of the
// reference implementation's node.rs; the commented-out unzip/zip path
// there is intentionally not implemented (SPEC_FULL.md §D.3).
package node

import (
	"errors"
	"sort"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/pkey"
	"github.com/prollykv/prollytree/internal/rank"
)

// ErrUnexpected marks an internal invariant violation — a code path the
// algorithm's structure should make unreachable (spec.md §7 Unexpected).
var ErrUnexpected = errors.New("node: unexpected internal state")

// Storage reads and writes whole Blocks by content hash. Package
// nodestore's NodeStorage structurally satisfies this interface.
type Storage interface {
	Read(hash block.Hash) (*block.Block, error)
	Write(blk *block.Block) (block.Hash, error)
}

// Node is an in-memory Block together with its own NodeRef (boundary key
// plus content hash), so callers never need to recompute either once a
// Node has been built or hydrated.
type Node struct {
	blk     *block.Block
	selfRef block.NodeRef
}

// IsBranch reports whether n is an interior node.
func (n *Node) IsBranch() bool { return n.blk.IsBranch() }

// IsSegment reports whether n is a leaf node.
func (n *Node) IsSegment() bool { return n.blk.IsSegment() }

// Boundary returns the maximum key reachable through n.
func (n *Node) Boundary() pkey.Key { return n.selfRef.Boundary }

// Hash returns n's content hash.
func (n *Node) Hash() block.Hash { return n.selfRef.Hash }

// SelfRef returns the NodeRef describing n (boundary + hash), the form
// used to reference n from a parent branch block.
func (n *Node) SelfRef() block.NodeRef { return n.selfRef }

// Rank returns the rank of n's boundary key under the given branching
// factor. Insert ranks sibling NodeRefs the same way, from their boundary
// keys (see toRankedRefs).
func (n *Node) Rank(factor uint32) uint32 {
	return rank.Of(n.selfRef.Boundary.Bytes(), factor)
}

// Block exposes the underlying Block, mainly for tests and tooling.
func (n *Node) Block() *block.Block { return n.blk }

// newBranch builds a branch Node from children and writes it to storage.
func newBranch(children []block.NodeRef, storage Storage) (*Node, error) {
	blk, err := block.NewBranch(children)
	if err != nil {
		return nil, err
	}
	hash, err := storage.Write(blk)
	if err != nil {
		return nil, err
	}
	return &Node{blk: blk, selfRef: block.NodeRef{Boundary: blk.Boundary(), Hash: hash}}, nil
}

// newSegment builds a segment Node from entries and writes it to storage.
func newSegment(entries []block.Entry, storage Storage) (*Node, error) {
	blk, err := block.NewSegment(entries)
	if err != nil {
		return nil, err
	}
	hash, err := storage.Write(blk)
	if err != nil {
		return nil, err
	}
	return &Node{blk: blk, selfRef: block.NodeRef{Boundary: blk.Boundary(), Hash: hash}}, nil
}

// FromRef hydrates a Node from storage given a NodeRef already known to a
// parent (so the boundary need not be recomputed from the decoded block).
func FromRef(ref block.NodeRef, storage Storage) (*Node, error) {
	blk, err := storage.Read(ref.Hash)
	if err != nil {
		return nil, err
	}
	return &Node{blk: blk, selfRef: ref}, nil
}

// FromHash hydrates a Node from storage given only its content hash —
// used to open a Tree from a previously recorded root hash, where no
// parent NodeRef exists to supply the boundary.
func FromHash(hash block.Hash, storage Storage) (*Node, error) {
	blk, err := storage.Read(hash)
	if err != nil {
		return nil, err
	}
	return &Node{blk: blk, selfRef: block.NodeRef{Boundary: blk.Boundary(), Hash: hash}}, nil
}

// GetEntry recursively descends the tree rooted at n, returning the entry
// matching key, or nil if key is not present.
func (n *Node) GetEntry(key pkey.Key, storage Storage) (*block.Entry, error) {
	current := n
	for {
		if current.IsBranch() {
			child, err := current.childByKey(key, storage)
			if err != nil {
				return nil, err
			}
			if child == nil {
				return nil, nil
			}
			current = child
			continue
		}
		return current.entryByKey(key)
	}
}

func (n *Node) childByKey(key pkey.Key, storage Storage) (*Node, error) {
	refs, err := n.blk.NodeRefs()
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if pkey.Compare(key, ref.Boundary) <= 0 {
			return FromRef(ref, storage)
		}
	}
	return nil, nil
}

func (n *Node) entryByKey(key pkey.Key) (*block.Entry, error) {
	entries, err := n.blk.SegmentEntries()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if pkey.Equal(key, entries[i].Key) {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

// Insert persistently inserts (or updates) newEntry into the tree rooted
// at n, returning the new root. n itself, and every block unaffected by
// the insert, are left untouched in storage — only the path from root to
// the modified segment, and the rebuilt levels immediately around it, are
// rewritten (spec.md §4.5.3 / §5's post-order write ordering).
func (n *Node) Insert(newEntry block.Entry, factor uint32, storage Storage) (*Node, error) {
	type splice struct {
		left  []block.NodeRef
		right []block.NodeRef
	}

	current := n
	var stack []splice

	for current.IsBranch() {
		refs, err := current.blk.NodeRefs()
		if err != nil {
			return nil, err
		}
		var left, right []block.NodeRef
		var next *block.NodeRef
		for _, ref := range refs {
			switch {
			case next != nil:
				right = append(right, ref)
			case pkey.Compare(newEntry.Key, ref.Boundary) <= 0:
				r := ref
				next = &r
			default:
				left = append(left, ref)
			}
		}
		if next == nil {
			if len(left) == 0 {
				return nil, ErrUnexpected
			}
			last := left[len(left)-1]
			left = left[:len(left)-1]
			next = &last
		}
		stack = append(stack, splice{left: left, right: right})

		child, err := FromRef(*next, storage)
		if err != nil {
			return nil, err
		}
		current = child
	}

	entries, err := current.blk.SegmentEntries()
	if err != nil {
		return nil, err
	}
	entries = append([]block.Entry(nil), entries...)
	idx := sort.Search(len(entries), func(i int) bool {
		return pkey.Compare(entries[i].Key, newEntry.Key) >= 0
	})
	if idx < len(entries) && pkey.Equal(entries[idx].Key, newEntry.Key) {
		entries[idx].Value = newEntry.Value
	} else {
		entries = append(entries, block.Entry{})
		copy(entries[idx+1:], entries[idx:])
		entries[idx] = newEntry
	}

	rankedEntries := make([]rankedEntry, len(entries))
	for i, e := range entries {
		rankedEntries[i] = rankedEntry{entry: e, rank: rank.Of(e.Key.Bytes(), factor)}
	}
	nodes, err := joinEntriesWithRank(rankedEntries, 1, storage)
	if err != nil {
		return nil, err
	}

	minRank := uint32(2)
	for {
		refs := make([]rankedRef, len(nodes))
		for i, rn := range nodes {
			refs[i] = rankedRef{ref: rn.node.SelfRef(), rank: rn.rank}
		}

		var combined []rankedRef
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			combined = append(combined, toRankedRefs(top.left, factor)...)
			combined = append(combined, refs...)
			combined = append(combined, toRankedRefs(top.right, factor)...)
		} else {
			combined = refs
		}

		nodes, err = joinRefsWithRank(combined, minRank, storage)
		if err != nil {
			return nil, err
		}
		if len(stack) == 0 && len(nodes) == 1 {
			break
		}
		minRank++
	}
	return nodes[0].node, nil
}

// FromSet bulk-builds a tree bottom-up from entries in O(N), without the
// per-level sibling splicing Insert performs (there is no existing tree
// to splice into). entries need not be pre-sorted; duplicate keys keep
// their last occurrence, matching a map's overwrite semantics. Returns a
// nil Node, nil error for an empty entries set (an empty tree has no
// root).
func FromSet(entries []block.Entry, factor uint32, storage Storage) (*Node, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	sorted := append([]block.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return pkey.Less(sorted[i].Key, sorted[j].Key)
	})
	deduped := sorted[:0:0]
	for i, e := range sorted {
		if i+1 < len(sorted) && pkey.Equal(sorted[i].Key, sorted[i+1].Key) {
			continue
		}
		deduped = append(deduped, e)
	}

	rankedEntries := make([]rankedEntry, len(deduped))
	for i, e := range deduped {
		rankedEntries[i] = rankedEntry{entry: e, rank: rank.Of(e.Key.Bytes(), factor)}
	}
	nodes, err := joinEntriesWithRank(rankedEntries, 1, storage)
	if err != nil {
		return nil, err
	}

	// Mirror Insert's join-then-check loop (lines above): always perform at
	// least one joinRefsWithRank, even when joinEntriesWithRank already
	// produced a single segment, so a set small enough to fit in one
	// segment is wrapped in a branch exactly as Insert would wrap it. A
	// check-then-join loop here (join only while len(nodes) > 1) would
	// return a bare segment root for such sets, disagreeing with Insert's
	// root for the same entries and breaking history independence.
	minRank := uint32(2)
	for {
		refs := make([]rankedRef, len(nodes))
		for i, rn := range nodes {
			refs[i] = rankedRef{ref: rn.node.SelfRef(), rank: rn.rank}
		}
		nodes, err = joinRefsWithRank(refs, minRank, storage)
		if err != nil {
			return nil, err
		}
		if len(nodes) == 1 {
			break
		}
		minRank++
	}
	return nodes[0].node, nil
}

type rankedEntry struct {
	entry block.Entry
	rank  uint32
}

type rankedRef struct {
	ref  block.NodeRef
	rank uint32
}

type rankedNode struct {
	node *Node
	rank uint32
}

func toRankedRefs(refs []block.NodeRef, factor uint32) []rankedRef {
	out := make([]rankedRef, len(refs))
	for i, ref := range refs {
		out[i] = rankedRef{ref: ref, rank: rank.Of(ref.Boundary.Bytes(), factor)}
	}
	return out
}

// joinEntriesWithRank implements "rule S": walk entries in order,
// accumulating into pending; whenever an entry's rank exceeds minRank,
// adopt pending into a new segment Node at that entry's rank and start a
// fresh pending group. Any trailing pending becomes a final segment Node
// at minRank.
func joinEntriesWithRank(entries []rankedEntry, minRank uint32, storage Storage) ([]rankedNode, error) {
	var output []rankedNode
	var pending []block.Entry
	for _, re := range entries {
		pending = append(pending, re.entry)
		if re.rank > minRank {
			node, err := newSegment(pending, storage)
			if err != nil {
				return nil, err
			}
			output = append(output, rankedNode{node: node, rank: re.rank})
			pending = nil
		}
	}
	if len(pending) > 0 {
		node, err := newSegment(pending, storage)
		if err != nil {
			return nil, err
		}
		output = append(output, rankedNode{node: node, rank: minRank})
	}
	if len(output) == 0 {
		return nil, ErrUnexpected
	}
	return output, nil
}

// joinRefsWithRank is joinEntriesWithRank's branch-level counterpart: it
// groups NodeRefs by rank and adopts each group into a new branch Node.
func joinRefsWithRank(refs []rankedRef, minRank uint32, storage Storage) ([]rankedNode, error) {
	var output []rankedNode
	var pending []block.NodeRef
	for _, rr := range refs {
		pending = append(pending, rr.ref)
		if rr.rank > minRank {
			node, err := newBranch(pending, storage)
			if err != nil {
				return nil, err
			}
			output = append(output, rankedNode{node: node, rank: rr.rank})
			pending = nil
		}
	}
	if len(pending) > 0 {
		node, err := newBranch(pending, storage)
		if err != nil {
			return nil, err
		}
		output = append(output, rankedNode{node: node, rank: minRank})
	}
	if len(output) == 0 {
		return nil, ErrUnexpected
	}
	return output, nil
}
