package block

import (
	"testing"

	"github.com/prollykv/prollytree/internal/pkey"
)

func TestNewSegmentRejectsEmpty(t *testing.T) {
	if _, err := NewSegment(nil); err != ErrEmptyChildren {
		t.Fatalf("expected ErrEmptyChildren, got %v", err)
	}
}

func TestNewBranchRejectsEmpty(t *testing.T) {
	if _, err := NewBranch(nil); err != ErrEmptyChildren {
		t.Fatalf("expected ErrEmptyChildren, got %v", err)
	}
}

func TestSegmentBoundaryIsLastEntry(t *testing.T) {
	entries := []Entry{
		{Key: pkey.RawKey("a"), Value: []byte("1")},
		{Key: pkey.RawKey("z"), Value: []byte("2")},
	}
	b, err := NewSegment(entries)
	if err != nil {
		t.Fatal(err)
	}
	if !pkey.Equal(b.Boundary(), pkey.RawKey("z")) {
		t.Fatalf("expected boundary z, got %s", b.Boundary().Bytes())
	}
}

func TestKindAccessorsReject(t *testing.T) {
	seg, _ := NewSegment([]Entry{{Key: pkey.RawKey("a"), Value: []byte("1")}})
	if _, err := seg.NodeRefs(); err != ErrBranchOnly {
		t.Fatalf("expected ErrBranchOnly, got %v", err)
	}
	branch, _ := NewBranch([]NodeRef{{Boundary: pkey.RawKey("a"), Hash: Sum([]byte("x"))}})
	if _, err := branch.SegmentEntries(); err != ErrSegmentOnly {
		t.Fatalf("expected ErrSegmentOnly, got %v", err)
	}
}

func TestHashRoundTrip(t *testing.T) {
	h := Sum([]byte("payload"))
	parsed, err := ParseHash(h.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != h {
		t.Fatalf("ParseHash round trip mismatch: %s != %s", parsed, h)
	}
}
