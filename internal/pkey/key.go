// Package pkey defines the ordered-key abstraction shared by every level
// of a ranked prolly tree. A Key is opaque ordered bytes; the tree never
// interprets key contents beyond comparing and hashing them.
package pkey

import "bytes"

// Key is any value that can act as a prolly tree key: it must expose a
// total byte-ordering and, for the columnar encoder, the 1-or-more byte
// components that make it up.
//
// Components lets a single Key implementation serve both generic
// byte-slice keys (one component) and composite keys such as the
// entity/namespace/attribute triple in package ckey (three components)
// without the encoder needing to know the concrete type.
type Key interface {
	// Bytes returns the full ordered byte representation of the key.
	Bytes() []byte
	// Components returns the key split into its dictionary-encodable
	// parts, in a fixed order. Concatenating them need not reproduce
	// Bytes(); it only needs to be stable for a given key value.
	Components() [][]byte
}

// RawKey is a Key backed directly by an opaque byte slice, the generic
// (non-composite) case described in spec.md's C2/C9 discussion.
type RawKey []byte

// Bytes implements Key.
func (k RawKey) Bytes() []byte { return []byte(k) }

// Components implements Key; a RawKey is always a single component.
func (k RawKey) Components() [][]byte { return [][]byte{[]byte(k)} }

// Composite is a Key reconstructed from an ordered list of byte-slice
// components; Bytes() is their concatenation in order. It is the concrete
// type package encoding produces when decoding a stored block, regardless
// of whether the original Key had one component (RawKey) or several (a
// composite key such as package ckey's), so that per-component dictionary
// structure survives storage round-trips.
type Composite [][]byte

// Bytes implements Key.
func (c Composite) Bytes() []byte {
	n := 0
	for _, part := range c {
		n += len(part)
	}
	out := make([]byte, 0, n)
	for _, part := range c {
		out = append(out, part...)
	}
	return out
}

// Components implements Key.
func (c Composite) Components() [][]byte { return [][]byte(c) }

// Compare returns -1, 0 or 1 as a's bytes are less than, equal to, or
// greater than b's bytes.
func Compare(a, b Key) int {
	return bytes.Compare(a.Bytes(), b.Bytes())
}

// Less reports whether a sorts strictly before b.
func Less(a, b Key) bool {
	return Compare(a, b) < 0
}

// Equal reports whether a and b have identical byte representations.
func Equal(a, b Key) bool {
	return bytes.Equal(a.Bytes(), b.Bytes())
}
