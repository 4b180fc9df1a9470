// Package main provides command suggestion functionality for the CLI.
//
// This file implements "did you mean" suggestions when users type commands
// in the wrong order (e.g., "tweakctl add games" instead of "tweakctl games add").
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/ui"
)

// subcommandParents maps each second-level command name to the top-level
// commands that own it, e.g. "list" -> ["games", "profile", "settings", "tweak"].
func subcommandParents(root *cobra.Command) map[string][]string {
	parents := make(map[string][]string)
	for _, parent := range root.Commands() {
		for _, sub := range parent.Commands() {
			parents[sub.Name()] = append(parents[sub.Name()], parent.Name())
		}
	}
	return parents
}

// suggestCorrectCommand checks if the user typed a subcommand at the wrong level
// and returns a suggestion if found.
//
// Parameters:
//   - unknownCmd: The command that was not recognized by Cobra
//   - allArgs: All command line arguments (excluding program name)
//   - root: The root command to search for valid parent commands
//
// Returns:
//   - string: A suggested command string with correct order, or empty if no suggestion found
//   - bool: True if a valid suggestion was found
//
// Example:
//
//	unknownCmd: "add"
//	allArgs: ["-q", "add", "games", "com.example.game"]
//	Returns: "tweakctl -q games add com.example.game", true
func suggestCorrectCommand(unknownCmd string, allArgs []string, root *cobra.Command) (string, bool) {
	parents, ok := subcommandParents(root)[unknownCmd]
	if !ok {
		return "", false
	}

	unknownIdx := -1
	for i, arg := range allArgs {
		if arg == unknownCmd {
			unknownIdx = i
			break
		}
	}
	if unknownIdx == -1 {
		return "", false
	}

	for i := unknownIdx + 1; i < len(allArgs); i++ {
		arg := allArgs[i]
		if strings.HasPrefix(arg, "-") {
			continue
		}
		for _, parent := range parents {
			if arg != parent {
				continue
			}
			parts := []string{root.Name()}
			parts = append(parts, allArgs[:unknownIdx]...)
			parts = append(parts, parent, unknownCmd)
			parts = append(parts, allArgs[unknownIdx+1:i]...)
			parts = append(parts, allArgs[i+1:]...)
			return strings.Join(parts, " "), true
		}
	}
	return "", false
}

// printCommandSuggestion prints a "did you mean" suggestion to the user.
func printCommandSuggestion(suggestion string) {
	ui.Println()
	ui.PrintInfo("Did you mean:")
	ui.PrintDim("  %s", suggestion)
	ui.Println()
}
