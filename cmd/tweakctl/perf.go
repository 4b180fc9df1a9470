// Package main provides the perf command group: performance mode and the
// one-step device presets.
package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/app"
	"github.com/javapro/tweakctl/internal/tweak"
	"github.com/javapro/tweakctl/internal/ui"
)

// perfCmd is the parent command for performance mode.
var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Switch performance mode and device presets",
	Long: `Switch global performance mode.

  on         performance mode on, every performance tweak forced on,
             the game monitor started and the performance profile applied
  off        performance mode off, stored tweak preferences restored,
             the monitor stopped and the balance profile applied
  powersave  performance mode off and the powersave profile applied
  status     show the current mode

Use --mode-only with on/off to skip the profile.`,
}

var perfModeOnly bool

var perfOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn performance mode on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPerf(cmd, app.PresetPerformance)
	},
}

var perfOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn performance mode off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPerf(cmd, app.PresetBalance)
	},
}

var perfPowersaveCmd = &cobra.Command{
	Use:   "powersave",
	Short: "Turn performance mode off and apply the powersave profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPerf(cmd, app.PresetPowersave)
	},
}

var perfStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show performance mode and the monitor state",
	Args:  cobra.NoArgs,
	RunE:  runPerfStatus,
}

func init() {
	perfOnCmd.Flags().BoolVar(&perfModeOnly, "mode-only", false, "Only switch performance mode; leave the CPU profile alone")
	perfOffCmd.Flags().BoolVar(&perfModeOnly, "mode-only", false, "Only switch performance mode; leave the CPU profile alone")

	perfCmd.AddCommand(perfOnCmd)
	perfCmd.AddCommand(perfOffCmd)
	perfCmd.AddCommand(perfPowersaveCmd)
	perfCmd.AddCommand(perfStatusCmd)
}

func runPerf(cmd *cobra.Command, preset app.Preset) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}

	ui.StartSpinner("Applying " + string(preset) + "...")
	if perfModeOnly && preset != app.PresetPowersave {
		err = a.Tweaks.SetPerformanceMode(cmd.Context(), preset == app.PresetPerformance)
	} else {
		err = a.ApplyPreset(cmd.Context(), preset)
	}
	ui.StopSpinner()
	if err != nil {
		return err
	}

	switch preset {
	case app.PresetPerformance:
		ui.PrintSuccess("Performance mode on")
	case app.PresetPowersave:
		ui.PrintSuccess("Powersave applied")
	default:
		ui.PrintSuccess("Performance mode off")
	}
	return nil
}

func runPerfStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	active := a.Tweaks.PerformanceMode()
	running := monitorRunning(a)

	forced := 0
	for _, st := range a.Tweaks.States() {
		if st.Forced {
			forced++
		}
	}

	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"performance_mode": active,
			"monitor_running":  running,
			"forced_tweaks":    forced,
			"performance_set":  len(tweak.PerformanceSet()),
		})
	}
	ui.PrintKeyValue("Performance mode", ui.OnOff(active))
	ui.PrintKeyValue("Monitor", ui.OnOff(running))
	if active {
		ui.PrintKeyValue("Forced tweaks", ui.AccentStyle.Render(strconv.Itoa(forced)))
	}
	return nil
}
