package tree

import (
	"testing"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/blockstore"
	"github.com/prollykv/prollytree/internal/encoding"
	"github.com/prollykv/prollytree/internal/node"
	"github.com/prollykv/prollytree/internal/nodestore"
	"github.com/prollykv/prollytree/internal/pkey"
)

func newStorage() node.Storage {
	return nodestore.New(encoding.NewColumnarEncoder(), blockstore.NewMemoryStore())
}

func TestBasicSetAndGet(t *testing.T) {
	storage := newStorage()
	tr, err := New(32, storage)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tr.Set(pkey.RawKey("foo1"), []byte("bar1")); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Set(pkey.RawKey("foo2"), []byte("bar2")); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Set(pkey.RawKey("foo3"), []byte("bar3")); err != nil {
		t.Fatal(err)
	}

	v, err := tr.Get(pkey.RawKey("bar"))
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatal("expected no value for missing key")
	}
	v, err = tr.Get(pkey.RawKey("foo2"))
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "bar2" {
		t.Fatalf("got %q want bar2", v)
	}
}

func TestNewRejectsBadFactor(t *testing.T) {
	storage := newStorage()
	if _, err := New(3, storage); err == nil {
		t.Fatal("expected error for non-power-of-two factor")
	}
}

func TestFromHashReopens(t *testing.T) {
	storage := newStorage()
	tr, _ := New(32, storage)
	tr.Set(pkey.RawKey("a"), []byte("1"))
	tr.Set(pkey.RawKey("b"), []byte("2"))
	hash := tr.Hash()
	if hash == nil {
		t.Fatal("expected non-nil hash")
	}

	reopened, err := FromHash(32, *hash, storage)
	if err != nil {
		t.Fatal(err)
	}
	v, err := reopened.Get(pkey.RawKey("a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "1" {
		t.Fatalf("got %q want 1", v)
	}
}

func TestFromSetMatchesIterative(t *testing.T) {
	storage1 := newStorage()
	iter, _ := New(64, storage1)
	var entries []block.Entry
	for i := 0; i <= 50; i++ {
		k := pkey.RawKey([]byte{byte(i)})
		v := []byte{byte(50 - i)}
		entries = append(entries, block.Entry{Key: k, Value: v})
		if _, err := iter.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	storage2 := newStorage()
	bulk, err := FromSet(64, entries, storage2)
	if err != nil {
		t.Fatal(err)
	}

	if *iter.Hash() != *bulk.Hash() {
		t.Fatalf("expected matching hashes: %s != %s", iter.Hash(), bulk.Hash())
	}
}

func TestEmptyTreeHasNilHash(t *testing.T) {
	storage := newStorage()
	tr, _ := New(32, storage)
	if tr.Hash() != nil {
		t.Fatal("expected nil hash for empty tree")
	}
	if !tr.IsEmpty() {
		t.Fatal("expected IsEmpty true")
	}
}

// Scenario (spec §8 prop 4): a no-op re-set of the same key/value must
// not change the root hash, even though the first Set builds the root
// via node.FromSet and the second goes through Node.Insert.
func TestReSettingSameKeyIsNoOp(t *testing.T) {
	storage := newStorage()
	tr, _ := New(32, storage)

	if _, err := tr.Set(pkey.RawKey("solo"), []byte("v1")); err != nil {
		t.Fatal(err)
	}
	first := *tr.Hash()

	if _, err := tr.Set(pkey.RawKey("solo"), []byte("v1")); err != nil {
		t.Fatal(err)
	}
	second := *tr.Hash()

	if first != second {
		t.Fatalf("expected re-setting an identical key to be a no-op on the root hash: %s != %s", first, second)
	}
}

func TestGetRangeStreamsInOrder(t *testing.T) {
	storage := newStorage()
	tr, _ := New(32, storage)
	keys := []string{"m", "a", "z", "c", "b"}
	for _, k := range keys {
		if _, err := tr.Set(pkey.RawKey(k), []byte(k)); err != nil {
			t.Fatal(err)
		}
	}

	cursor := tr.GetRange(node.UnboundedRange())
	var got []string
	for {
		entry, ok, err := cursor.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, string(entry.Key.Bytes()))
	}
	want := []string{"a", "b", "c", "m", "z"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
