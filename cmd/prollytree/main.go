// Command prollytree is a small CLI for building, inspecting, and
// benchmarking ranked prolly trees, in the teacher repo's cobra
// root-command style (cli/cli.go).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var dataDirFlag string

var rootCmd = &cobra.Command{
	Use:   "prollytree",
	Short: "prollytree builds and inspects ranked prolly trees",
	Long:  `prollytree is a CLI over a content-addressed, deterministic, persistent key/value store backed by a ranked prolly tree.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Printf("prollytree version %s\n", version)
			os.Exit(0)
		}
		cmd.Help()
	},
}

var showVersion bool

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", ".prollytree-data", "directory holding the tree's block store and HEAD pointer")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print the prollytree version")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
