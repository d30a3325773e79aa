package encoding

import (
	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/pkey"
)

// basicVersion is the only encoding version BasicEncoder currently
// produces or accepts.
const basicVersion uint8 = 1

// BasicEncoder is a simple TLV block encoder: a 1-byte kind tag, a u32
// child count, and length-prefixed fields per child. It exists mainly as
// a reference/testing encoder (spec.md §4.2.1); ColumnarEncoder is the
// production default.
type BasicEncoder struct{}

// NewBasicEncoder returns a ready-to-use BasicEncoder.
func NewBasicEncoder() *BasicEncoder {
	return &BasicEncoder{}
}

// Encode implements Encoder.
func (e *BasicEncoder) Encode(blk *block.Block) (block.Hash, []byte, error) {
	w := NewWriter()
	w.WriteU8(basicVersion)
	kind := blockTypeOf(blk)
	w.WriteU8(uint8(kind))
	w.WriteU32(uint32(blk.Len()))

	if kind == blockTypeBranch {
		for _, ref := range blk.Children {
			writeKey(w, ref.Boundary)
			w.WriteChunk(ref.Hash[:])
		}
	} else {
		for _, entry := range blk.Entries {
			writeKey(w, entry.Key)
			w.WriteChunk(entry.Value)
		}
	}

	data := w.Bytes()
	return block.Sum(data), data, nil
}

// Decode implements Encoder.
func (e *BasicEncoder) Decode(data []byte) (*block.Block, error) {
	r := NewReader(data)
	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if version != basicVersion {
		return nil, block.ErrUnsupportedVersion
	}
	kindByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	switch blockType(kindByte) {
	case blockTypeBranch:
		children := make([]block.NodeRef, 0, count)
		for i := uint32(0); i < count; i++ {
			boundary, err := readKey(r)
			if err != nil {
				return nil, err
			}
			hashBytes, err := r.ReadChunk()
			if err != nil {
				return nil, err
			}
			var h block.Hash
			if len(hashBytes) != len(h) {
				return nil, block.ErrOutOfRange
			}
			copy(h[:], hashBytes)
			children = append(children, block.NodeRef{Boundary: boundary, Hash: h})
		}
		return block.NewBranch(children)
	case blockTypeSegment:
		entries := make([]block.Entry, 0, count)
		for i := uint32(0); i < count; i++ {
			key, err := readKey(r)
			if err != nil {
				return nil, err
			}
			value, err := r.ReadChunk()
			if err != nil {
				return nil, err
			}
			entries = append(entries, block.Entry{Key: key, Value: append([]byte(nil), value...)})
		}
		return block.NewSegment(entries)
	default:
		return nil, block.ErrOutOfRange
	}
}

// writeKey writes a key's components as a u32 count followed by
// length-prefixed component chunks, shared by both branch boundaries and
// segment entry keys.
func writeKey(w *Writer, key pkey.Key) {
	comps := key.Components()
	w.WriteU32(uint32(len(comps)))
	for _, c := range comps {
		w.WriteChunk(c)
	}
}

func readKey(r *Reader) (pkey.Key, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	comps := make([][]byte, 0, n)
	for i := uint32(0); i < n; i++ {
		c, err := r.ReadChunk()
		if err != nil {
			return nil, err
		}
		comps = append(comps, append([]byte(nil), c...))
	}
	return pkey.Composite(comps), nil
}
