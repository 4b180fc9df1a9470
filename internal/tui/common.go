// Package tui provides the Bubble Tea QuickShell terminal for tweakctl.
//
// The TUI launches when a human runs `tweakctl shell` in an interactive
// terminal. It is never activated for scripts or piped output: --json,
// --quiet and isatty each prevent it, and `shell --plain` forces the line REPL.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/javapro/tweakctl/internal/shell"
	"github.com/javapro/tweakctl/internal/ui"
)

// --- TTY gate ---

// ShouldRunTUI returns true if the TUI should be launched.
// Returns false when stdout is not a terminal, or --json/--quiet flags are set.
//
// Parameters:
//   - jsonOutput: whether --json was passed
//   - quiet: whether --quiet was passed
//
// Returns:
//   - bool: true if the TUI should run
func ShouldRunTUI(jsonOutput, quiet bool) bool {
	if jsonOutput || quiet {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// --- Shared TUI styles ---

var (
	// titleStyle renders the QuickShell header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.Orange)

	// dimStyle renders low-priority text.
	dimStyle = lipgloss.NewStyle().
			Foreground(ui.DimGray)

	// helpStyle renders the bottom key hint bar.
	helpStyle = lipgloss.NewStyle().
			Foreground(ui.Gray)

	// promptStyle renders the input prompt.
	promptStyle = lipgloss.NewStyle().
			Foreground(ui.Orange).
			Bold(true)

	// separatorStyle renders horizontal rules.
	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#374151"))

	// stateStyles colours the session state badge.
	stateStyles = map[shell.State]lipgloss.Style{
		shell.StateRunning:  lipgloss.NewStyle().Foreground(ui.Green),
		shell.StateStarting: lipgloss.NewStyle().Foreground(ui.Amber),
		shell.StateStopped:  lipgloss.NewStyle().Foreground(ui.Red),
	}
)

// separator returns a horizontal line of the given width.
func separator(width int) string {
	if width < 1 {
		width = 1
	}
	return separatorStyle.Render(strings.Repeat("─", width))
}

// renderEntry styles one log entry by channel.
func renderEntry(e shell.LogEntry) string {
	switch e.Channel {
	case shell.ChannelIn:
		return ui.ShellInStyle.Render(e.Text)
	case shell.ChannelErr:
		return ui.ShellErrStyle.Render(e.Text)
	case shell.ChannelSys:
		return ui.ShellSysStyle.Render(e.Text)
	default:
		return ui.ShellOutStyle.Render(e.Text)
	}
}
