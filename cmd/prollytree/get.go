package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prollykv/prollytree/internal/colors"
	"github.com/prollykv/prollytree/internal/config"
	"github.com/prollykv/prollytree/internal/pkey"
	"github.com/prollykv/prollytree/internal/tree"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Look up a single key in the tree recorded at HEAD",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(rootHashPath(dataDirFlag))
	if err != nil {
		return fmt.Errorf("no tree recorded at %s (run 'prollytree build' first): %w", dataDirFlag, err)
	}
	rootHash, err := parseRootHash(data)
	if err != nil {
		return fmt.Errorf("corrupt HEAD file: %w", err)
	}

	opened, err := openDataDir(dataDirFlag, cfg)
	if err != nil {
		return err
	}
	defer opened.Close()

	t, err := tree.FromHash(cfg.Tree.Factor, rootHash, opened.storage)
	if err != nil {
		return fmt.Errorf("failed to reopen tree: %w", err)
	}

	value, err := t.Get(pkey.RawKey(args[0]))
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if value == nil {
		fmt.Println(colors.Gray("(not found)"))
		return nil
	}
	fmt.Println(string(value))
	return nil
}
