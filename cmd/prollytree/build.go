package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prollykv/prollytree/internal/block"
	"github.com/prollykv/prollytree/internal/colors"
	"github.com/prollykv/prollytree/internal/config"
	"github.com/prollykv/prollytree/internal/pkey"
	"github.com/prollykv/prollytree/internal/tree"
)

var buildCmd = &cobra.Command{
	Use:   "build key=value [key=value...]",
	Short: "Bulk-build a tree from key=value pairs and record its root hash",
	Long: `Builds a new tree from the given key=value pairs using from_set (O(N)
bulk construction) and writes its root hash to <data-dir>/HEAD, replacing
any tree previously built there.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("build requires at least one key=value pair")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	entries := make([]block.Entry, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid pair %q: expected key=value", arg)
		}
		entries = append(entries, block.Entry{Key: pkey.RawKey(k), Value: []byte(v)})
	}

	opened, err := openDataDir(dataDirFlag, cfg)
	if err != nil {
		return err
	}
	defer opened.Close()

	t, err := tree.FromSet(cfg.Tree.Factor, entries, opened.storage)
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}

	hash := t.Hash()
	if hash == nil {
		return fmt.Errorf("refusing to record an empty tree as HEAD")
	}
	if err := os.MkdirAll(dataDirFlag, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(rootHashPath(dataDirFlag), []byte(hash.String()), 0644); err != nil {
		return fmt.Errorf("failed to record root hash: %w", err)
	}

	fmt.Printf("%s %s\n", colors.SuccessText("built tree with root"), colors.InfoText(hash.String()))
	fmt.Printf("  entries: %d\n", len(entries))
	fmt.Printf("  factor:  %d\n", cfg.Tree.Factor)
	return nil
}
