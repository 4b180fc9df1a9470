// Package main provides the config command group.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javapro/tweakctl/internal/config"
	"github.com/javapro/tweakctl/internal/ui"
)

// configCmd is the parent command for config.yaml.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create config.yaml",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(configPath(cmd))
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the default values",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	ui.PrintDim("# %s", path)
	fmt.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	ui.PrintSuccess("Wrote %s", path)
	return nil
}
