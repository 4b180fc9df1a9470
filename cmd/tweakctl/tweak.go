// Package main provides the tweak command group.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/tweak"
	"github.com/javapro/tweakctl/internal/ui"
)

// tweakCmd is the parent command for individual tweak toggles.
var tweakCmd = &cobra.Command{
	Use:   "tweak",
	Short: "List and toggle individual tweaks",
	Long: `List and toggle individual tweaks.

While performance mode is on, performance tweaks read as enabled no matter
what is stored. Changing one only stores the preference; it is applied when
performance mode turns off.

EXAMPLES:
  tweakctl tweak list
  tweakctl tweak set perf_anim on
  tweakctl tweak describe game_thermal
  tweakctl tweak reset`,
}

var tweakListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tweak and its state",
	Args:  cobra.NoArgs,
	RunE:  runTweakList,
}

var tweakGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show whether a tweak reads as enabled",
	Args:  cobra.ExactArgs(1),
	RunE:  runTweakGet,
}

var tweakSetCmd = &cobra.Command{
	Use:   "set <key> <on|off>",
	Short: "Enable or disable a tweak",
	Args:  cobra.ExactArgs(2),
	RunE:  runTweakSet,
}

var tweakDescribeCmd = &cobra.Command{
	Use:   "describe <key>",
	Short: "Show a tweak's description and commands",
	Args:  cobra.ExactArgs(1),
	RunE:  runTweakDescribe,
}

var tweakResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Disable every tweak and turn performance mode off",
	Args:  cobra.NoArgs,
	RunE:  runTweakReset,
}

func init() {
	tweakCmd.AddCommand(tweakListCmd)
	tweakCmd.AddCommand(tweakGetCmd)
	tweakCmd.AddCommand(tweakSetCmd)
	tweakCmd.AddCommand(tweakDescribeCmd)
	tweakCmd.AddCommand(tweakResetCmd)
}

// tweakStateJSON is the --json shape of one tweak.
type tweakStateJSON struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Enabled  bool   `json:"enabled"`
	Stored   bool   `json:"stored"`
	Forced   bool   `json:"forced"`
}

func runTweakList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	states := a.Tweaks.States()

	if jsonOutput(cmd) {
		out := struct {
			PerformanceMode bool             `json:"performance_mode"`
			Tweaks          []tweakStateJSON `json:"tweaks"`
		}{PerformanceMode: a.Tweaks.PerformanceMode()}
		for _, st := range states {
			out.Tweaks = append(out.Tweaks, tweakStateJSON{
				Key:      st.Kind.Key(),
				Title:    st.Kind.Title(),
				Category: string(st.Kind.Category()),
				Enabled:  st.Enabled,
				Stored:   st.Stored,
				Forced:   st.Forced,
			})
		}
		return printJSON(out)
	}

	table := ui.NewTable("KEY", "TWEAK", "CATEGORY", "STATE")
	for _, st := range states {
		state := ui.OnOff(st.Enabled)
		if st.Forced {
			state = ui.StateForcedStyle.Render("on (performance mode)")
		}
		table.AddRow(st.Kind.Key(), st.Kind.Title(), string(st.Kind.Category()), state)
	}
	table.Print()
	ui.Println()
	ui.PrintDim("Performance mode: %s", ui.OnOff(a.Tweaks.PerformanceMode()))
	return nil
}

func runTweakGet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	k, err := tweak.ParseKey(args[0])
	if err != nil {
		return err
	}
	enabled := a.Tweaks.IsEnabled(k)
	if jsonOutput(cmd) {
		return printJSON(map[string]any{"key": k.Key(), "enabled": enabled, "stored": a.Tweaks.Stored(k)})
	}
	fmt.Println(ui.OnOff(enabled))
	return nil
}

func runTweakSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	k, err := tweak.ParseKey(args[0])
	if err != nil {
		return err
	}
	enabled, err := parseOnOff(args[1])
	if err != nil {
		return err
	}

	if err := a.Tweaks.SetState(cmd.Context(), k, enabled); err != nil {
		return err
	}

	switch {
	case !enabled && a.Tweaks.IsEnabled(k):
		ui.PrintWarning("%s stored as off; performance mode keeps it on until it is turned off", k.Key())
	case !enabled && !k.Reversible():
		ui.PrintSuccess("%s off (no revert command; reboot to undo)", k.Key())
	default:
		ui.PrintSuccess("%s %s", k.Key(), ui.OnOff(enabled))
	}
	return nil
}

func runTweakDescribe(cmd *cobra.Command, args []string) error {
	k, err := tweak.ParseKey(args[0])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"key":             k.Key(),
			"title":           k.Title(),
			"description":     k.Description(),
			"category":        k.Category(),
			"performance_set": k.InPerformanceSet(),
			"reversible":      k.Reversible(),
			"enable_command":  k.Command(true),
			"disable_command": k.Command(false),
		})
	}

	ui.PrintBox(k.Title(), k.Description())
	ui.PrintKeyValue("Key", k.Key())
	ui.PrintKeyValue("Category", string(k.Category()))
	ui.PrintKeyValue("Performance set", ui.OnOff(k.InPerformanceSet()))
	ui.Println()
	ui.PrintDim("Enable:")
	fmt.Println("  " + ui.CodeStyle.Render(k.Command(true)))
	ui.PrintDim("Disable:")
	if k.Reversible() {
		fmt.Println("  " + ui.CodeStyle.Render(k.Command(false)))
	} else {
		ui.PrintDim("  (none)")
	}
	return nil
}

func runTweakReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	if err := a.Tweaks.ResetAll(cmd.Context()); err != nil {
		return err
	}
	ui.PrintSuccess("All tweaks reset")
	return nil
}
