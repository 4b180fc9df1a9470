// Package main provides the display command group: resolution scaling and
// KCAL colour calibration.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/display"
	"github.com/javapro/tweakctl/internal/ui"
)

// displayCmd is the parent command for display adjustments.
var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Scale the render resolution and calibrate colour",
}

var displayYes bool

var displayScaleCmd = &cobra.Command{
	Use:   "scale <0.1-1.0>",
	Short: "Render at a fraction of the native resolution",
	Long: `Render at a fraction of the native resolution.

The density is pinned to the native value so UI elements keep their size.
A scale of 0.99 or more restores the native resolution. Some launchers and
games misbehave at a lowered resolution; the first change asks for
confirmation unless --yes is given.

EXAMPLES:
  tweakctl display scale 0.75
  tweakctl display scale 1`,
	Args: cobra.ExactArgs(1),
	RunE: runDisplayScale,
}

var displayResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the native resolution and density",
	Args:  cobra.NoArgs,
	RunE:  runDisplayReset,
}

var displayInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the panel metrics and stored display settings",
	Args:  cobra.NoArgs,
	RunE:  runDisplayInfo,
}

var displayColor display.Color

var displayColorCmd = &cobra.Command{
	Use:   "color",
	Short: "Apply KCAL colour and saturation (sliders 0-1000)",
	Long: `Apply KCAL colour channels and SurfaceFlinger saturation.

Each slider runs from 0 to 1000. Unset flags keep their stored value.

EXAMPLES:
  tweakctl display color --blue 850
  tweakctl display color --sat 1200   # rejected: out of range
  tweakctl display color --reset`,
	Args: cobra.NoArgs,
	RunE: runDisplayColor,
}

var displayColorReset bool

func init() {
	displayScaleCmd.Flags().BoolVarP(&displayYes, "yes", "y", false, "Skip the confirmation prompt")

	displayColorCmd.Flags().Float64Var(&displayColor.Red, "red", display.SliderMax, "Red slider")
	displayColorCmd.Flags().Float64Var(&displayColor.Green, "green", display.SliderMax, "Green slider")
	displayColorCmd.Flags().Float64Var(&displayColor.Blue, "blue", display.SliderMax, "Blue slider")
	displayColorCmd.Flags().Float64Var(&displayColor.Saturation, "sat", display.SliderMax, "Saturation slider")
	displayColorCmd.Flags().BoolVar(&displayColorReset, "reset", false, "Restore the neutral calibration")

	displayCmd.AddCommand(displayScaleCmd)
	displayCmd.AddCommand(displayResetCmd)
	displayCmd.AddCommand(displayInfoCmd)
	displayCmd.AddCommand(displayColorCmd)
}

func runDisplayScale(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	scale, err := strconv.ParseFloat(args[0], 64)
	if err != nil || scale < 0.1 || scale > 1 {
		return fmt.Errorf("scale must be a number between 0.1 and 1.0, got %q", args[0])
	}

	if scale < 0.99 && !a.Settings.ResolutionConfirmed() {
		if !displayYes {
			ok, err := ui.PromptConfirm("Lowering the resolution can break some launchers and games. Continue?", false)
			if err != nil {
				return err
			}
			if !ok {
				ui.PrintInfo("Cancelled")
				return nil
			}
		}
		if err := a.Settings.SetResolutionConfirmed(true); err != nil {
			return err
		}
	}

	if err := display.ApplyScale(cmd.Context(), a.Exec, scale); err != nil {
		return err
	}
	if err := a.Settings.SetScale(scale); err != nil {
		return err
	}
	ui.PrintSuccess("Resolution scale %.2f", scale)
	return nil
}

func runDisplayReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	for _, c := range display.ResetCommands() {
		if err := a.Exec.Run(cmd.Context(), c); err != nil {
			return err
		}
	}
	if err := a.Settings.SetScale(1); err != nil {
		return err
	}
	ui.PrintSuccess("Native resolution restored")
	return nil
}

func runDisplayInfo(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	m, err := display.ReadMetrics(cmd.Context(), a.Exec)
	if err != nil {
		return err
	}
	color := a.Settings.Color()
	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"metrics": m,
			"scale":   a.Settings.Scale(),
			"color":   color,
		})
	}
	ui.PrintKeyValue("Panel", fmt.Sprintf("%dx%d", m.Width, m.Height))
	ui.PrintKeyValue("Density", strconv.Itoa(m.Density))
	ui.PrintKeyValue("Scale", fmt.Sprintf("%.2f", a.Settings.Scale()))
	ui.PrintKeyValue("Colour", fmt.Sprintf("R %.0f  G %.0f  B %.0f  Sat %.0f", color.Red, color.Green, color.Blue, color.Saturation))
	return nil
}

func runDisplayColor(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}

	c := a.Settings.Color()
	if displayColorReset {
		c = display.DefaultColor
	}
	flags := cmd.Flags()
	if flags.Changed("red") {
		c.Red = displayColor.Red
	}
	if flags.Changed("green") {
		c.Green = displayColor.Green
	}
	if flags.Changed("blue") {
		c.Blue = displayColor.Blue
	}
	if flags.Changed("sat") {
		c.Saturation = displayColor.Saturation
	}

	if err := display.ApplyColor(cmd.Context(), a.Exec, c); err != nil {
		return err
	}
	if err := a.Settings.SetColor(c); err != nil {
		return err
	}
	ui.PrintSuccess("Colour applied (R %.0f G %.0f B %.0f Sat %.0f)", c.Red, c.Green, c.Blue, c.Saturation)
	return nil
}
