// Package ui provides message printing utilities.
package ui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

var quietMode atomic.Bool

// SetQuietMode suppresses banners, info, dim and success output.
// Warnings and errors are always printed.
func SetQuietMode(quiet bool) {
	quietMode.Store(quiet)
}

// IsQuiet reports whether quiet mode is on.
func IsQuiet() bool {
	return quietMode.Load()
}

// Println prints an empty line.
func Println() {
	if IsQuiet() {
		return
	}
	fmt.Println()
}

// PrintSuccess prints a success message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintSuccess(format string, args ...interface{}) {
	if IsQuiet() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(SuccessStyle.Render("✓ " + msg))
}

// PrintError prints an error message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(ErrorStyle.Render("✗ " + msg))
}

// PrintWarning prints a warning message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(WarningStyle.Render("⚠ " + msg))
}

// PrintInfo prints an informational message.
func PrintInfo(format string, args ...interface{}) {
	if IsQuiet() {
		return
	}
	fmt.Println(InfoStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintDim prints a dimmed message.
func PrintDim(format string, args ...interface{}) {
	if IsQuiet() {
		return
	}
	fmt.Println(DimStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintBox prints content in a styled box.
//
// Parameters:
//   - title: Box title
//   - content: Box content
func PrintBox(title, content string) {
	titleStyled := BoxTitleStyle.Render(title)
	fmt.Println(BoxStyle.Render(titleStyled + "\n" + content))
}

// PrintKeyValue prints an aligned "key: value" line.
func PrintKeyValue(key, value string) {
	fmt.Printf("  %s %s\n", DimStyle.Render(padRight(key+":", 16)), InfoStyle.Render(value))
}

// OnOff renders a boolean toggle state.
func OnOff(enabled bool) string {
	if enabled {
		return StateOnStyle.Render("on")
	}
	return StateOffStyle.Render("off")
}

// Table represents a table with dynamic column widths.
type Table struct {
	// Headers contains the column header names.
	Headers []string

	// Rows contains all data rows.
	Rows [][]string

	// MaxWidths specifies maximum width per column index (truncates with ellipsis).
	MaxWidths map[int]int
}

// NewTable creates a new table with the specified headers.
//
// Parameters:
//   - headers: Column header names
//
// Returns:
//   - *Table: A new table instance
func NewTable(headers ...string) *Table {
	return &Table{
		Headers:   headers,
		Rows:      make([][]string, 0),
		MaxWidths: make(map[int]int),
	}
}

// AddRow adds a data row to the table.
func (t *Table) AddRow(values ...string) {
	t.Rows = append(t.Rows, values)
}

// SetMaxWidth sets the maximum width for a column.
// Values exceeding this width will be truncated with ellipsis.
func (t *Table) SetMaxWidth(col, width int) {
	t.MaxWidths[col] = width
}

// calculateColumnWidths computes the width for each column from its
// visible content, ignoring ANSI styling.
func (t *Table) calculateColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = visibleWidth(header)
	}
	for _, row := range t.Rows {
		for i, val := range row {
			if i < len(widths) && visibleWidth(val) > widths[i] {
				widths[i] = visibleWidth(val)
			}
		}
	}
	for i := range widths {
		if max, ok := t.MaxWidths[i]; ok && widths[i] > max {
			widths[i] = max
		}
	}
	return widths
}

// truncateWithEllipsis truncates a plain string to width with ellipsis.
func truncateWithEllipsis(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

// visibleWidth returns the printed width of s, ignoring ANSI sequences.
func visibleWidth(s string) int {
	return lipgloss.Width(s)
}

// padRight pads s to width visible columns.
func padRight(s string, width int) string {
	w := visibleWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Render returns the table as text.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths()
	colGap := "  "
	var b strings.Builder

	var headerCells []string
	for i, header := range t.Headers {
		headerCells = append(headerCells, TableHeaderStyle.Render(padRight(header, widths[i])))
	}
	b.WriteString(strings.Join(headerCells, colGap) + "\n")

	totalWidth := len(colGap) * (len(widths) - 1)
	for _, w := range widths {
		totalWidth += w
	}
	b.WriteString(DimStyle.Render(strings.Repeat("─", totalWidth)) + "\n")

	for _, row := range t.Rows {
		var cells []string
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if max, ok := t.MaxWidths[i]; ok && visibleWidth(val) == len(val) {
				val = truncateWithEllipsis(val, max)
			}
			cells = append(cells, TableCellStyle.Render(padRight(val, widths[i])))
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, colGap), " ") + "\n")
	}
	return b.String()
}

// Print writes the rendered table to stdout.
func (t *Table) Print() {
	fmt.Print(t.Render())
}
