package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prollykv/prollytree/internal/colors"
	"github.com/prollykv/prollytree/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get and set tree configuration",
	Long: `Get and set prollytree configuration.

Configuration can be set at two levels:
- Global (~/.prollytreeconfig) - applies to every tree
- Repository (.prollytree/config) - applies to the tree in the current directory

Examples:
  prollytree config --list
  prollytree config tree.factor
  prollytree config tree.factor 64
  prollytree config --global tree.encoder columnar`,
	RunE: runConfig,
}

var (
	configGlobal bool
	configList   bool
)

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "use the global config file")
	configCmd.Flags().BoolVar(&configList, "list", false, "list all configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configList {
		return listConfig()
	}
	switch len(args) {
	case 0:
		return cmd.Help()
	case 1:
		return getConfigValue(args[0])
	case 2:
		return setConfigValue(args[0], args[1], configGlobal)
	default:
		return fmt.Errorf("invalid usage, see: prollytree config --help")
	}
}

func listConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(colors.SectionHeader("Tree Configuration:"))
	fmt.Printf("  tree.factor  = %s\n", colors.InfoText(fmt.Sprintf("%d", cfg.Tree.Factor)))
	fmt.Printf("  tree.encoder = %s\n", colors.InfoText(string(cfg.Tree.Encoder)))

	fmt.Println()
	fmt.Println(colors.SectionHeader("Store Configuration:"))
	fmt.Printf("  store.cache_capacity = %s\n", colors.InfoText(fmt.Sprintf("%d", cfg.Store.CacheCapacity)))
	fmt.Printf("  store.compress       = %s\n", colors.InfoText(fmt.Sprintf("%t", cfg.Store.Compress)))
	return nil
}

func getConfigValue(key string) error {
	value, err := config.GetValue(key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func setConfigValue(key, value string, global bool) error {
	if err := config.SetValue(key, value, global); err != nil {
		return err
	}
	scope := "repository"
	if global {
		scope = "global"
	}
	fmt.Printf("%s %s config: %s = %s\n",
		colors.SuccessText("Set"), scope, colors.Bold(key), colors.InfoText(value))
	return nil
}
