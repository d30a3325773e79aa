package encoding

import (
	"bytes"
	"testing"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/pkey"
)

func sampleSegment(t *testing.T) *block.Block {
	t.Helper()
	data := [][]byte{bytes.Repeat([]byte{0}, 32), bytes.Repeat([]byte{1}, 32), bytes.Repeat([]byte{2}, 32)}
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	values := []int{0, 0, 1, 1, 1, 1, 0, 2, 0}
	entries := make([]block.Entry, len(keys))
	for i, k := range keys {
		entries[i] = block.Entry{Key: pkey.RawKey(k), Value: data[values[i]]}
	}
	blk, err := block.NewSegment(entries)
	if err != nil {
		t.Fatal(err)
	}
	return blk
}

func TestColumnarRoundTrip(t *testing.T) {
	blk := sampleSegment(t)
	enc := NewColumnarEncoder()
	_, encoded, err := enc.Encode(blk)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := enc.Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	assertBlocksEqual(t, blk, decoded)
}

func TestBasicRoundTrip(t *testing.T) {
	blk := sampleSegment(t)
	enc := NewBasicEncoder()
	_, encoded, err := enc.Encode(blk)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := enc.Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	assertBlocksEqual(t, blk, decoded)
}

func TestBasicAndColumnarAgree(t *testing.T) {
	blk := sampleSegment(t)
	basic := NewBasicEncoder()
	columnar := NewColumnarEncoder()

	_, basicBytes, err := basic.Encode(blk)
	if err != nil {
		t.Fatal(err)
	}
	_, columnarBytes, err := columnar.Encode(blk)
	if err != nil {
		t.Fatal(err)
	}
	basicDecoded, err := basic.Decode(basicBytes)
	if err != nil {
		t.Fatal(err)
	}
	columnarDecoded, err := columnar.Decode(columnarBytes)
	if err != nil {
		t.Fatal(err)
	}
	assertBlocksEqual(t, basicDecoded, columnarDecoded)
}

func TestColumnarDeduplicatesDictionary(t *testing.T) {
	blk := sampleSegment(t)
	enc := NewColumnarEncoder()
	_, encoded, err := enc.Encode(blk)
	if err != nil {
		t.Fatal(err)
	}
	// 9 entries share only 3 distinct values and 9 distinct single-byte
	// keys: the dictionary should hold 12 chunks, not 18.
	r := NewReader(encoded)
	if _, err := r.ReadU8(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadU8(); err != nil {
		t.Fatal(err)
	}
	headerLen, err := r.ReadU16()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Skip(int(headerLen)); err != nil {
		t.Fatal(err)
	}
	chunkCount, err := r.ReadU32()
	if err != nil {
		t.Fatal(err)
	}
	if chunkCount != 12 {
		t.Fatalf("expected dictionary with 12 chunks (9 keys + 3 values), got %d", chunkCount)
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	enc := NewColumnarEncoder()
	bad := []byte{2, 1, 0, 0, 0, 0, 0, 0, 0}
	if _, err := enc.Decode(bad); err != block.ErrUnsupportedVersion {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func assertBlocksEqual(t *testing.T, a, b *block.Block) {
	t.Helper()
	if a.Kind != b.Kind {
		t.Fatalf("kind mismatch: %v != %v", a.Kind, b.Kind)
	}
	if a.Len() != b.Len() {
		t.Fatalf("length mismatch: %d != %d", a.Len(), b.Len())
	}
	if a.IsSegment() {
		for i := range a.Entries {
			if !pkey.Equal(a.Entries[i].Key, b.Entries[i].Key) {
				t.Fatalf("entry %d key mismatch", i)
			}
			if !bytes.Equal(a.Entries[i].Value, b.Entries[i].Value) {
				t.Fatalf("entry %d value mismatch", i)
			}
		}
	} else {
		for i := range a.Children {
			if !pkey.Equal(a.Children[i].Boundary, b.Children[i].Boundary) {
				t.Fatalf("child %d boundary mismatch", i)
			}
			if a.Children[i].Hash != b.Children[i].Hash {
				t.Fatalf("child %d hash mismatch", i)
			}
		}
	}
}
