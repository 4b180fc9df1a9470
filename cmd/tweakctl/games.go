// Package main provides the games command group.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/ui"
)

// gamesCmd is the parent command for the game list.
var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Manage the packages the monitor treats as games",
	Long: `Manage the game list.

While performance mode is on, the monitor checks the focused app against
this list every few seconds. A running monitor picks up changes made here
without restarting.`,
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List game packages",
	Args:  cobra.NoArgs,
	RunE:  runGamesList,
}

var gamesAddCmd = &cobra.Command{
	Use:   "add <package...>",
	Short: "Add packages to the game list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGamesAdd,
}

var gamesRemoveCmd = &cobra.Command{
	Use:     "remove <package...>",
	Aliases: []string{"rm"},
	Short:   "Remove packages from the game list",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runGamesRemove,
}

func init() {
	gamesCmd.AddCommand(gamesListCmd)
	gamesCmd.AddCommand(gamesAddCmd)
	gamesCmd.AddCommand(gamesRemoveCmd)
}

func runGamesList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	games, err := a.Games.List()
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		if games == nil {
			games = []string{}
		}
		return printJSON(games)
	}
	if len(games) == 0 {
		ui.PrintDim("No games listed. Add one with 'tweakctl games add <package>'")
		return nil
	}
	for _, g := range games {
		fmt.Println(g)
	}
	return nil
}

func runGamesAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	for _, pkg := range args {
		if err := a.Games.Add(pkg); err != nil {
			return err
		}
		ui.PrintSuccess("%s added", pkg)
	}
	return nil
}

func runGamesRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	for _, pkg := range args {
		if !a.Games.Contains(pkg) {
			ui.PrintWarning("%s is not in the game list", pkg)
			continue
		}
		if err := a.Games.Remove(pkg); err != nil {
			return err
		}
		ui.PrintSuccess("%s removed", pkg)
	}
	return nil
}
