// Package main provides the profile command group for per-app CPU profiles.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/profile"
	"github.com/javapro/tweakctl/internal/ui"
)

// profileCmd is the parent command for per-app profiles.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Assign CPU profiles to apps",
	Long: `Assign a CPU profile to an app package.

PROFILES:
  balance      schedutil governor, thermal services running
  performance  performance governor, max clocks pinned, thermal stopped
  powersave    powersave governor, min clocks, forced doze

Apps without a stored profile read as balance.

EXAMPLES:
  tweakctl profile apps
  tweakctl profile set com.example.game performance
  tweakctl profile apply powersave`,
}

var profileGetCmd = &cobra.Command{
	Use:   "get <package>",
	Short: "Show an app's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileGet,
}

var profileSetCmd = &cobra.Command{
	Use:   "set <package> [balance|performance|powersave]",
	Short: "Store and apply an app's profile",
	Long: `Store and apply an app's profile.

Without a profile argument the profile is picked from a numbered list.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runProfileSet,
}

var profileClearCmd = &cobra.Command{
	Use:   "clear <package>",
	Short: "Forget an app's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileClear,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List apps with a stored profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileApplyCmd = &cobra.Command{
	Use:   "apply <balance|performance|powersave>",
	Short: "Apply a profile now without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileApply,
}

var profileAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed third-party apps with their profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileApps,
}

func init() {
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileClearCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileApplyCmd)
	profileCmd.AddCommand(profileAppsCmd)
}

// parseModeArg rejects names that are not a profile.
func parseModeArg(s string) (profile.Mode, error) {
	if !profile.Valid(s) {
		return "", fmt.Errorf("unknown profile %q (want balance, performance or powersave)", s)
	}
	return profile.ParseMode(s), nil
}

// promptMode asks which profile pkg should use.
func promptMode(pkg string, current profile.Mode) (profile.Mode, error) {
	modes := profile.Modes()
	options := make([]string, len(modes))
	for i, m := range modes {
		options[i] = string(m)
		if m == current {
			options[i] += " (current)"
		}
	}
	idx, err := ui.PromptSelect(fmt.Sprintf("Profile for %s", pkg), options)
	if err != nil {
		return "", err
	}
	return modes[idx], nil
}

func runProfileGet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	mode := a.Profiles.Get(args[0])
	if jsonOutput(cmd) {
		return printJSON(profile.Assignment{Package: args[0], Mode: mode})
	}
	fmt.Println(mode)
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	var mode profile.Mode
	if len(args) == 2 {
		mode, err = parseModeArg(args[1])
	} else {
		mode, err = promptMode(args[0], a.Profiles.Get(args[0]))
	}
	if err != nil {
		return err
	}
	if err := a.Profiles.Set(cmd.Context(), args[0], mode); err != nil {
		return err
	}
	ui.PrintSuccess("%s → %s", args[0], mode)
	return nil
}

func runProfileClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	if err := a.Profiles.Clear(args[0]); err != nil {
		return err
	}
	ui.PrintSuccess("%s profile cleared", args[0])
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	list, err := a.Profiles.List()
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(list)
	}
	if len(list) == 0 {
		ui.PrintDim("No app profiles stored")
		return nil
	}
	table := ui.NewTable("PACKAGE", "PROFILE")
	for _, as := range list {
		table.AddRow(as.Package, string(as.Mode))
	}
	table.Print()
	return nil
}

func runProfileApply(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	mode, err := parseModeArg(args[0])
	if err != nil {
		return err
	}
	if err := a.Profiles.Apply(cmd.Context(), mode); err != nil {
		return err
	}
	ui.PrintSuccess("%s profile applied", mode)
	return nil
}

func runProfileApps(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	ui.StartSpinner("Listing packages...")
	pkgs, err := profile.ListPackages(cmd.Context(), a.Exec)
	ui.StopSpinner()
	if err != nil {
		return err
	}

	list := make([]profile.Assignment, 0, len(pkgs))
	for _, pkg := range pkgs {
		list = append(list, profile.Assignment{Package: pkg, Mode: a.Profiles.Get(pkg)})
	}
	if jsonOutput(cmd) {
		return printJSON(list)
	}

	table := ui.NewTable("PACKAGE", "PROFILE", "GAME")
	table.SetMaxWidth(0, 48)
	for _, as := range list {
		game := ""
		if a.Games.Contains(as.Package) {
			game = ui.AccentStyle.Render("yes")
		}
		table.AddRow(as.Package, string(as.Mode), game)
	}
	table.Print()
	return nil
}
