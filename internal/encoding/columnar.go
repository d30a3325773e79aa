package encoding

import (
	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/pkey"
)

// columnarVersion is the only encoding version ColumnarEncoder currently
// produces or accepts (spec.md §4.2.2).
const columnarVersion uint8 = 1

// ColumnarEncoder is the default, production block encoder. Every key
// component and value across a block's children is deduplicated into a
// single dictionary of byte chunks; each child is then stored as a row of
// dictionary indices. Layout (all integers little-endian):
//
//	version        u8      = 1
//	block_type     u8      (0 branch, 1 segment)
//	header_length  u16     = 1
//	headers        1 byte  = key component count used by every row
//	chunk_count    u32
//	  chunk_length u32 | chunk bytes              (chunk_count times)
//	entry_count    u32
//	  (component count) u32 indices, then 1 u32 value index  (entry_count times)
//
// A generic RawKey has one component; a composite key (package ckey) has
// three. The component count is recorded once per block rather than
// fixed, so one encoder serves both (SPEC_FULL.md §D.1).
type ColumnarEncoder struct{}

// NewColumnarEncoder returns a ready-to-use ColumnarEncoder.
func NewColumnarEncoder() *ColumnarEncoder {
	return &ColumnarEncoder{}
}

// dictionary deduplicates byte chunks in first-seen order.
type dictionary struct {
	chunks  [][]byte
	indexOf map[string]uint32
}

func newDictionary() *dictionary {
	return &dictionary{indexOf: make(map[string]uint32)}
}

func (d *dictionary) intern(chunk []byte) uint32 {
	key := string(chunk)
	if idx, ok := d.indexOf[key]; ok {
		return idx
	}
	idx := uint32(len(d.chunks))
	d.chunks = append(d.chunks, chunk)
	d.indexOf[key] = idx
	return idx
}

// Encode implements Encoder.
func (e *ColumnarEncoder) Encode(blk *block.Block) (block.Hash, []byte, error) {
	kind := blockTypeOf(blk)
	dict := newDictionary()
	var rows [][]uint32
	var componentCount int

	if kind == blockTypeBranch {
		for _, ref := range blk.Children {
			comps := ref.Boundary.Components()
			if componentCount == 0 {
				componentCount = len(comps)
			}
			row := make([]uint32, 0, componentCount+1)
			for _, c := range comps {
				row = append(row, dict.intern(c))
			}
			row = append(row, dict.intern(ref.Hash[:]))
			rows = append(rows, row)
		}
	} else {
		for _, entry := range blk.Entries {
			comps := entry.Key.Components()
			if componentCount == 0 {
				componentCount = len(comps)
			}
			row := make([]uint32, 0, componentCount+1)
			for _, c := range comps {
				row = append(row, dict.intern(c))
			}
			row = append(row, dict.intern(entry.Value))
			rows = append(rows, row)
		}
	}

	w := NewWriter()
	w.WriteU8(columnarVersion)
	w.WriteU8(uint8(kind))
	w.WriteU16(1)
	w.WriteU8(uint8(componentCount))
	w.WriteU32(uint32(len(dict.chunks)))
	for _, chunk := range dict.chunks {
		w.WriteChunk(chunk)
	}
	w.WriteU32(uint32(len(rows)))
	for _, row := range rows {
		for _, idx := range row {
			w.WriteU32(idx)
		}
	}

	data := w.Bytes()
	return block.Sum(data), data, nil
}

// Decode implements Encoder.
func (e *ColumnarEncoder) Decode(data []byte) (*block.Block, error) {
	r := NewReader(data)
	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if version != columnarVersion {
		return nil, block.ErrUnsupportedVersion
	}
	kindByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	headerLen, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if headerLen < 1 {
		return nil, block.ErrOutOfRange
	}
	componentCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(int(headerLen) - 1); err != nil {
		return nil, err
	}

	chunkCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	chunks := make([][]byte, 0, chunkCount)
	for i := uint32(0); i < chunkCount; i++ {
		c, err := r.ReadChunk()
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, append([]byte(nil), c...))
	}
	resolve := func(idx uint32) ([]byte, error) {
		if int(idx) >= len(chunks) {
			return nil, block.ErrOutOfRange
		}
		return chunks[idx], nil
	}

	entryCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	switch blockType(kindByte) {
	case blockTypeBranch:
		children := make([]block.NodeRef, 0, entryCount)
		for i := uint32(0); i < entryCount; i++ {
			key, hashBytes, err := readRow(r, int(componentCount), resolve)
			if err != nil {
				return nil, err
			}
			var h block.Hash
			if len(hashBytes) != len(h) {
				return nil, block.ErrOutOfRange
			}
			copy(h[:], hashBytes)
			children = append(children, block.NodeRef{Boundary: key, Hash: h})
		}
		return block.NewBranch(children)
	case blockTypeSegment:
		entries := make([]block.Entry, 0, entryCount)
		for i := uint32(0); i < entryCount; i++ {
			key, value, err := readRow(r, int(componentCount), resolve)
			if err != nil {
				return nil, err
			}
			entries = append(entries, block.Entry{Key: key, Value: value})
		}
		return block.NewSegment(entries)
	default:
		return nil, block.ErrOutOfRange
	}
}

func readRow(r *Reader, componentCount int, resolve func(uint32) ([]byte, error)) (pkey.Key, []byte, error) {
	comps := make([][]byte, 0, componentCount)
	for i := 0; i < componentCount; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return nil, nil, err
		}
		c, err := resolve(idx)
		if err != nil {
			return nil, nil, err
		}
		comps = append(comps, c)
	}
	valueIdx, err := r.ReadU32()
	if err != nil {
		return nil, nil, err
	}
	value, err := resolve(valueIdx)
	if err != nil {
		return nil, nil, err
	}
	return pkey.Composite(comps), value, nil
}
