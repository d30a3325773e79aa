// Package rank computes the rank used to choose node boundaries in a
// ranked prolly tree. Rank is a deterministic function of a key's content
// hash, so tree structure depends only on the set of keys stored, never on
// insertion order.
package rank

import (
	"fmt"
	"math/bits"

	"lukechampine.com/blake3"
)

// MinFactor is the smallest branching factor accepted by Valid.
const MinFactor = 2

// Valid reports whether factor is usable as a branching factor: a power of
// two no smaller than MinFactor.
func Valid(factor uint32) bool {
	return factor >= MinFactor && factor&(factor-1) == 0
}

// Of returns the rank of keyBytes for the given branching factor. factor
// must satisfy Valid; callers validate it once at construction time (see
// internal/config) rather than on every call.
func Of(keyBytes []byte, factor uint32) uint32 {
	digest := blake3.Sum256(keyBytes)
	lz := leadingZeroBits(digest[:])
	bitsPerLevel := bits.Len32(factor) - 1 // log2(factor); factor is a power of two
	return uint32(lz) / uint32(bitsPerLevel)
}

// MustValidateFactor panics with a descriptive message if factor is not a
// valid branching factor. Config.Validate and tree.New report an invalid
// factor as an error instead; no non-test code in this module calls
// MustValidateFactor.
func MustValidateFactor(factor uint32) {
	if !Valid(factor) {
		panic(fmt.Sprintf("rank: invalid branching factor %d: must be a power of two >= %d", factor, MinFactor))
	}
}

func leadingZeroBits(digest []byte) int {
	count := 0
	for _, b := range digest {
		if b == 0 {
			count += 8
			continue
		}
		count += bits.LeadingZeros8(b)
		break
	}
	return count
}
