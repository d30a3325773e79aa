// Package encoding implements the two wire encoders spec.md §4.2 requires
// for a ranked prolly tree Block: a simple TLV BasicEncoder, and the
// columnar, dictionary-deduplicated ColumnarEncoder used by default.
package encoding

import "github.com/prollykv/prollytree/internal/block"

// Encoder turns a Block into bytes and back. Implementations must be
// deterministic: encoding the same Block twice must produce byte-identical
// output, since the output's hash becomes the block's storage address.
type Encoder interface {
	// Encode serializes blk and returns its content hash alongside the
	// encoded bytes.
	Encode(blk *block.Block) (block.Hash, []byte, error)
	// Decode parses previously encoded bytes back into a Block.
	Decode(data []byte) (*block.Block, error)
}

// blockType is the on-wire tag distinguishing branch from segment blocks,
// shared by both encoders.
type blockType uint8

const (
	blockTypeBranch  blockType = 0
	blockTypeSegment blockType = 1
)

func blockTypeOf(blk *block.Block) blockType {
	if blk.IsBranch() {
		return blockTypeBranch
	}
	return blockTypeSegment
}
