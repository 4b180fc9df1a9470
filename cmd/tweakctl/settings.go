// Package main provides the settings command group.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/config"
	"github.com/javapro/tweakctl/internal/ui"
)

// settingsCmd is the parent command for user settings.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change user settings",
	Long: `Show and change the user settings kept in the store.

Settings differ from config.yaml: they are device state (theme, language,
boot_apply, the FPS meter, stored display calibration) and live next to the
tweak state. Run 'tweakctl settings list' to see every key.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its value",
	Args:  cobra.NoArgs,
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "Print one setting",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.SettingKeys(),
	RunE:      runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting.

EXAMPLES:
  tweakctl settings set fps_enabled true
  tweakctl settings set lang id`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	values := a.Settings.List()
	if jsonOutput(cmd) {
		return printJSON(values)
	}
	table := ui.NewTable("KEY", "VALUE", "DEFAULT", "DESCRIPTION")
	for _, v := range values {
		table.AddRow(v.Key, v.Value, v.Default, v.Description)
	}
	table.Print()
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	v, err := a.Settings.Get(args[0])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(map[string]string{"key": args[0], "value": v})
	}
	fmt.Println(v)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	if err := a.Settings.Set(args[0], args[1]); err != nil {
		return err
	}
	v, _ := a.Settings.Get(args[0])
	ui.PrintSuccess("%s = %s", args[0], v)
	return nil
}
