// Package ui provides terminal UI components using Charm libraries.
//
// This package contains the styling and rendering helpers shared by the
// tweakctl commands and the QuickShell terminal.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Brand colors for tweakctl.
var (
	// Primary brand color
	Orange = lipgloss.Color("#FF7A1A")

	// Secondary colors
	Cyan    = lipgloss.Color("#22D3EE")
	Red     = lipgloss.Color("#EF4444")
	Amber   = lipgloss.Color("#F59E0B")
	Green   = lipgloss.Color("#22C55E")
	Gray    = lipgloss.Color("#6B7280")
	DimGray = lipgloss.Color("#9CA3AF")

	// Background colors
	DarkBg = lipgloss.Color("#111827")
)

// Text styles.
var (
	// TitleStyle for main headings
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Orange)

	// SubtitleStyle for secondary headings
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// WarningStyle for warning messages
	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	// InfoStyle for informational messages
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	// DimStyle for less important text
	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// AccentStyle for option numbers and highlights
	AccentStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	// CodeStyle for inline commands
	CodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F3F4F6")).
			Background(lipgloss.Color("#374151")).
			Padding(0, 1)
)

// Box styles.
var (
	// BoxStyle for content boxes
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Orange).
			Padding(0, 1)

	// BoxTitleStyle for box titles
	BoxTitleStyle = lipgloss.NewStyle().
			Foreground(Orange).
			Bold(true)
)

// Table styles.
var (
	// TableHeaderStyle for table headers
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Bold(true)

	// TableCellStyle for table cells
	TableCellStyle = lipgloss.NewStyle()
)

// Toggle state styles.
var (
	// StateOnStyle for enabled tweaks
	StateOnStyle = lipgloss.NewStyle().
			Foreground(Green)

	// StateOffStyle for disabled tweaks
	StateOffStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// StateForcedStyle for tweaks held on by performance mode
	StateForcedStyle = lipgloss.NewStyle().
				Foreground(Amber)

	// StatusRunningStyle for spinners and live indicators
	StatusRunningStyle = lipgloss.NewStyle().
				Foreground(Cyan)
)

// Shell log channel styles.
var (
	// ShellInStyle for echoed commands
	ShellInStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	// ShellOutStyle for stdout lines
	ShellOutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	// ShellErrStyle for stderr lines
	ShellErrStyle = lipgloss.NewStyle().
			Foreground(Red)

	// ShellSysStyle for lifecycle notices
	ShellSysStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Italic(true)
)

// FPSStyle colours a frame rate: red below 45, white otherwise.
func FPSStyle(fps int) lipgloss.Style {
	if fps < 45 {
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
}
