// Package main provides the boot command group.
package main

import (
	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/tweak"
	"github.com/javapro/tweakctl/internal/ui"
)

// bootCmd is the parent command for boot-time tweaks.
var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Apply tweaks once after the device boots",
	Long: `Apply tweaks once after the device boots.

Run 'tweakctl boot apply' from a boot script (for example a Magisk
service.d script). It only acts when the boot_apply setting is on.

BOOT TWEAKS:
  - CPU0 governor set to performance
  - GPU clock forced on
  - Peak refresh rate set to 120Hz`,
}

var bootForce bool

var bootApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the boot tweaks if enabled",
	Args:  cobra.NoArgs,
	RunE:  runBootApply,
}

var bootEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Turn the boot_apply setting on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setBootApply(cmd, true)
	},
}

var bootDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn the boot_apply setting off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setBootApply(cmd, false)
	},
}

func init() {
	bootApplyCmd.Flags().BoolVar(&bootForce, "force", false, "Apply even when boot_apply is off")

	bootCmd.AddCommand(bootApplyCmd)
	bootCmd.AddCommand(bootEnableCmd)
	bootCmd.AddCommand(bootDisableCmd)
}

func runBootApply(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	if bootForce {
		if err := tweak.ApplyBoot(cmd.Context(), a.Runner); err != nil {
			return err
		}
		ui.PrintSuccess("Boot tweaks applied")
		return nil
	}

	ran, err := a.ApplyBoot(cmd.Context())
	if err != nil {
		return err
	}
	if !ran {
		ui.PrintDim("boot_apply is off; nothing to do")
		return nil
	}
	ui.PrintSuccess("Boot tweaks applied")
	return nil
}

func setBootApply(cmd *cobra.Command, on bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	if err := a.Settings.SetBootApply(on); err != nil {
		return err
	}
	ui.PrintSuccess("Apply on boot %s", ui.OnOff(on))
	return nil
}
