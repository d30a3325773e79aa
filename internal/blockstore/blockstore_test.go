package blockstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prollykv/prollytree/internal/block"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	h := block.Sum([]byte("x"))
	_, err := s.Get(h)
	var missing *block.MissingBlockError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *block.MissingBlockError, got %v", err)
	}
	if !errors.Is(err, block.ErrMissingBlock) {
		t.Fatal("expected errors.Is to match block.ErrMissingBlock")
	}
}

func TestMemoryStorePutIdempotent(t *testing.T) {
	s := NewMemoryStore()
	data := []byte("payload")
	h := block.Sum(data)
	if err := s.Put(h, data); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(h, data); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 stored block, got %d", s.Len())
	}
}

func TestTrackingStoreCountsCalls(t *testing.T) {
	inner := NewMemoryStore()
	tracked := NewTrackingStore(inner)
	data := []byte("payload")
	h := block.Sum(data)

	if err := tracked.Put(h, data); err != nil {
		t.Fatal(err)
	}
	if _, err := tracked.Get(h); err != nil {
		t.Fatal(err)
	}
	if _, err := tracked.Get(h); err != nil {
		t.Fatal(err)
	}
	if tracked.Puts() != 1 {
		t.Fatalf("expected 1 put, got %d", tracked.Puts())
	}
	if tracked.Gets() != 2 {
		t.Fatalf("expected 2 gets, got %d", tracked.Gets())
	}
}

func TestLRUStoreEvictsAndCaches(t *testing.T) {
	inner := NewTrackingStore(NewMemoryStore())
	lru, err := NewLRUStore(inner, 2)
	if err != nil {
		t.Fatal(err)
	}

	put := func(payload string) block.Hash {
		data := []byte(payload)
		h := block.Sum(data)
		if err := lru.Put(h, data); err != nil {
			t.Fatal(err)
		}
		return h
	}

	h1 := put("one")
	h2 := put("two")
	h3 := put("three")
	_ = h3

	// h1 should have been evicted by h3 (capacity 2, LRU order h1 < h2).
	inner.Reset()
	if _, err := lru.Get(h1); err != nil {
		t.Fatal(err)
	}
	if inner.Gets() != 1 {
		t.Fatalf("expected a cache miss fetching evicted h1, got %d inner gets", inner.Gets())
	}

	inner.Reset()
	if _, err := lru.Get(h2); err != nil {
		t.Fatal(err)
	}
	// h2 may or may not still be cached depending on eviction order from
	// the intervening h1 re-fetch; only assert no error occurs.
}

func TestBoltStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocks.db")
	store, err := OpenBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	data := []byte("durable payload")
	h := block.Sum(data)
	if err := store.Put(h, data); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatalf("round trip mismatch: %q != %q", got, data)
	}

	has, err := store.Has(h)
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Fatal("expected Has to report true")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}
}

func TestCompressedStoreRoundTrip(t *testing.T) {
	inner := NewMemoryStore()
	cs, err := NewCompressedStore(inner)
	if err != nil {
		t.Fatal(err)
	}
	defer cs.Close()

	data := []byte("compress me compress me compress me")
	h := block.Sum(data)
	if err := cs.Put(h, data); err != nil {
		t.Fatal(err)
	}
	got, err := cs.Get(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatalf("round trip mismatch: %q != %q", got, data)
	}

	// The inner store should hold compressed (generally smaller) bytes,
	// not the raw payload.
	raw, err := inner.Get(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) == string(data) {
		t.Fatal("expected inner store to hold compressed bytes, not raw payload")
	}
}
