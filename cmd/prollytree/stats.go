package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prollykv/prollytree/internal/colors"
	"github.com/prollykv/prollytree/internal/config"
	"github.com/prollykv/prollytree/internal/node"
	"github.com/prollykv/prollytree/internal/tree"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the root hash, factor, and entry count of the tree recorded at HEAD",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(rootHashPath(dataDirFlag))
	if err != nil {
		fmt.Println(colors.Gray("no tree recorded (run 'prollytree build' first)"))
		return nil
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

	count := 0
	cursor := t.GetRange(node.UnboundedRange())
	for {
		_, ok, err := cursor.Next()
		if err != nil {
			return fmt.Errorf("failed to count entries: %w", err)
		}
		if !ok {
			break
		}
		count++
	}

	fmt.Println(colors.SectionHeader("Tree Statistics:"))
	fmt.Printf("  root hash: %s\n", colors.InfoText(t.Hash().String()))
	fmt.Printf("  factor:    %d\n", t.Factor())
	fmt.Printf("  entries:   %d\n", count)
	fmt.Printf("  encoder:   %s\n", cfg.Tree.Encoder)
	return nil
}
