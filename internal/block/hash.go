// Package block defines the content-addressed building blocks of a ranked
// prolly tree: the Hash identifying a block's bytes, the Entry and NodeRef
// types a block can contain, and the Block itself (a tagged union of
// branch children or segment entries).
package block

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Hash is a blake3-256 content hash, used both as a block's storage key
// and as the payload of a NodeRef pointing at a child block.
type Hash [32]byte

// String renders the hash as lowercase hex, matching how block stores and
// error messages display it.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero hash (never a real block's hash,
// since blake3 never returns all-zero output on byte input we produce).
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Sum computes the content hash of data.
func Sum(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// ParseHash decodes a hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != len(h) {
		return h, errWrongHashLength(len(b))
	}
	copy(h[:], b)
	return h, nil
}
