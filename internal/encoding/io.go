package encoding

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/prollykv/prollytree/internal/block"
)

// Writer accumulates a block's encoded bytes. It mirrors the low-level
// cursor the original ranked-prolly-tree crate used (encoding/io.rs),
// translated to the teacher repo's idiom of bytes.Buffer plus
// encoding/binary rather than a custom trait hierarchy.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteU8 appends a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU16 appends v as little-endian.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU32 appends v as little-endian.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteRaw appends data with no length prefix.
func (w *Writer) WriteRaw(data []byte) {
	w.buf.Write(data)
}

// WriteChunk appends a u32 length prefix followed by data, the dictionary
// chunk shape used by the columnar encoder.
func (w *Writer) WriteChunk(data []byte) {
	w.WriteU32(uint32(len(data)))
	w.buf.Write(data)
}

// Bytes returns the accumulated bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader consumes a block's encoded bytes in order, matching Writer's
// layout field-for-field.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadRaw reads exactly n raw bytes. The returned slice aliases r's
// underlying data; callers that retain it beyond decoding must copy.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// ReadChunk reads a u32 length prefix followed by that many bytes, the
// dictionary chunk shape used by the columnar encoder.
func (r *Reader) ReadChunk() ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return r.ReadRaw(int(n))
}

// Skip advances the cursor by n bytes without returning them, used to
// skip a header section whose contents are currently unused.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// need reports whether n further bytes are available without consuming
// them; callers advance r.pos themselves once they've copied the bytes.
func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return fmt.Errorf("encoding: unexpected end of block data (need %d bytes at offset %d, have %d): %w", n, r.pos, len(r.data), block.ErrOutOfRange)
	}
	return nil
}
