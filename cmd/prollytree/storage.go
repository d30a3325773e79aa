package main

import (
	"fmt"
	"path/filepath"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/blockstore"
	"github.com/prollykv/prollytree/internal/config"
	"github.com/prollykv/prollytree/internal/encoding"
	"github.com/prollykv/prollytree/internal/node"
	"github.com/prollykv/prollytree/internal/nodestore"
)

// openedStorage bundles the node.Storage a command operates on with the
// underlying resources (a bbolt handle, chiefly) that must be closed
// when the command finishes.
type openedStorage struct {
	storage node.Storage
	bolt    *blockstore.BoltStore
	cfg     *config.Config
}

func (o *openedStorage) Close() error {
	if o.bolt != nil {
		return o.bolt.Close()
	}
	return nil
}

// openDataDir builds the pluggable storage stack described by cfg,
// rooted at dataDir/blocks.db, in the teacher repo's layered order:
// durable bbolt store, optionally wrapped in zstd compression, optionally
// wrapped in an LRU cache (spec.md §4.3).
func openDataDir(dataDir string, cfg *config.Config) (*openedStorage, error) {
	dbPath := filepath.Join(dataDir, "blocks.db")
	bolt, err := blockstore.OpenBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open block store at %s: %w", dbPath, err)
	}

	var store blockstore.Store = bolt
	if cfg.Store.Compress {
		compressed, err := blockstore.NewCompressedStore(store)
		if err != nil {
			bolt.Close()
			return nil, err
		}
		store = compressed
	}
	if cfg.Store.CacheCapacity > 0 {
		lru, err := blockstore.NewLRUStore(store, cfg.Store.CacheCapacity)
		if err != nil {
			bolt.Close()
			return nil, err
		}
		store = lru
	}

	enc, err := encoderFor(cfg.Tree.Encoder)
	if err != nil {
		bolt.Close()
		return nil, err
	}

	return &openedStorage{
		storage: nodestore.New(enc, store),
		bolt:    bolt,
		cfg:     cfg,
	}, nil
}

func encoderFor(kind config.EncoderKind) (encoding.Encoder, error) {
	switch kind {
	case config.EncoderColumnar, "":
		return encoding.NewColumnarEncoder(), nil
	case config.EncoderBasic:
		return encoding.NewBasicEncoder(), nil
	default:
		return nil, fmt.Errorf("unknown encoder %q", kind)
	}
}

// rootHashPath is where a tree's current root hash is recorded between
// CLI invocations, alongside its block store.
func rootHashPath(dataDir string) string {
	return filepath.Join(dataDir, "HEAD")
}

func parseRootHash(data []byte) (block.Hash, error) {
	return block.ParseHash(string(data))
}
