// Package ui provides the ASCII banner for tweakctl.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// banner is the ASCII art logo.
const banner = `
  ▀█▀ █ █ █ █▀▀ ▄▀█ █▄▀ █▀▀ ▀█▀ █
   █  ▀▄▀▄▀ ██▄ █▀█ █ █ █▄▄  █  █▄▄`

// tagline is the product tagline.
const tagline = "Root performance tweaks for Android"

// PrintBanner prints the banner with version info.
//
// Parameters:
//   - version: The CLI version string to display
func PrintBanner(version string) {
	if IsQuiet() {
		return
	}

	styledBanner := lipgloss.NewStyle().
		Foreground(Orange).
		Bold(true).
		Render(banner)

	fmt.Println(styledBanner)
	fmt.Println()

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		PaddingLeft(2)
	fmt.Println(taglineStyle.Render(tagline))
	fmt.Println()

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		PaddingLeft(2)
	fmt.Println(infoStyle.Render(fmt.Sprintf("Version: %s", version)))
	fmt.Println()
}

// GetCondensedHelp returns a compact cheat-sheet shown when tweakctl runs
// with no arguments.
func GetCondensedHelp() string {
	accent := lipgloss.NewStyle().Foreground(Orange).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	return fmt.Sprintf(`%s

%s
  %s                 Check root access and device support
  %s                Turn performance mode on
  %s               Turn performance mode off
  %s                List tweaks and their state

%s
  %s  Toggle one tweak
  %s  Assign a profile to an app
  %s       Mark an app as a game
  %s              Watch the frame rate

%s
  %s                  Interactive root shell
  %s                    Start MCP server for AI integration

%s
`,
		accent.Render("tweakctl")+" - "+dim.Render(tagline),
		accent.Render("Getting Started:"),
		accent.Render("tweakctl doctor"),
		accent.Render("tweakctl perf on"),
		accent.Render("tweakctl perf off"),
		accent.Render("tweakctl tweak list"),
		accent.Render("Manage:"),
		accent.Render("tweakctl tweak set <key> on|off"),
		accent.Render("tweakctl profile set <pkg> <mode>"),
		accent.Render("tweakctl games add <pkg>"),
		accent.Render("tweakctl fps watch"),
		accent.Render("Tools:"),
		accent.Render("tweakctl shell"),
		accent.Render("tweakctl mcp"),
		hint.Render(`Use "tweakctl --help" for a full list of commands.`),
	)
}

// GetHelpText returns the long description used by `tweakctl --help`.
func GetHelpText() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return dim.Render(tagline + ". Tweaks, per-app profiles, FPS monitoring and a root shell, driven through su.")
}
