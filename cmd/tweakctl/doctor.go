// Package main provides the doctor command for device diagnostics.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/app"
	"github.com/javapro/tweakctl/internal/display"
	"github.com/javapro/tweakctl/internal/shell"
	"github.com/javapro/tweakctl/internal/ui"
)

// DoctorCheck represents a single diagnostic check result.
type DoctorCheck struct {
	// Name is the check name (e.g., "Root", "FPS node").
	Name string `json:"name"`

	// Status is the check status: "ok", "warning", "error".
	Status string `json:"status"`

	// Message is the human-readable result message.
	Message string `json:"message"`

	// Details contains additional information (optional).
	Details string `json:"details,omitempty"`
}

// DoctorResult contains all diagnostic check results.
type DoctorResult struct {
	// Checks contains all individual check results.
	Checks []DoctorCheck `json:"checks"`

	// Issues is the count of checks with status "error" or "warning".
	Issues int `json:"issues"`

	// Healthy is true if no errors were found.
	Healthy bool `json:"healthy"`
}

// add records c and updates the counters.
func (r *DoctorResult) add(c DoctorCheck) {
	r.Checks = append(r.Checks, c)
	switch c.Status {
	case "error":
		r.Healthy = false
		r.Issues++
	case "warning":
		r.Issues++
	}
}

// doctorCmd runs diagnostic checks on the device and the local setup.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check root access and device support",
	Long: `Run diagnostic checks on the device and the tweakctl setup.

CHECKS PERFORMED:
  - CLI version
  - Root access (su runs commands as uid 0?)
  - Store (state can be read and written?)
  - FPS node (hardware frame rate counter present?)
  - Display (panel size and density readable?)
  - Monitor (background service running?)

OUTPUT:
  Human-readable by default, JSON with --json flag.

EXAMPLES:
  tweakctl doctor              # Run all checks
  tweakctl doctor --json       # Output as JSON for scripting`,
	RunE: runDoctor,
}

// runDoctor executes all diagnostic checks.
func runDoctor(cmd *cobra.Command, args []string) error {
	asJSON := jsonOutput(cmd)

	a, err := openApp(cmd)
	if err != nil {
		return err
	}

	if !asJSON {
		ui.PrintBanner(version)
		ui.PrintInfo("Running diagnostic checks...")
		ui.Println()
	}

	result := collectDoctorChecks(cmd.Context(), a)

	if asJSON {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printDoctorResults(result)
	}

	if !result.Healthy {
		return fmt.Errorf("health check failed")
	}
	return nil
}

// collectDoctorChecks runs every check against a.
func collectDoctorChecks(ctx context.Context, a *app.App) DoctorResult {
	result := DoctorResult{Checks: make([]DoctorCheck, 0), Healthy: true}
	result.add(checkVersion())
	result.add(checkRoot(ctx, a))
	result.add(checkStore(a))
	result.add(checkFPSNode(ctx, a))
	result.add(checkDisplay(ctx, a))
	result.add(checkMonitor(a))
	return result
}

// checkVersion reports the CLI version.
func checkVersion() DoctorCheck {
	check := DoctorCheck{Name: "Version", Status: "ok"}
	if version == "dev" {
		check.Status = "warning"
		check.Message = "Development build"
		check.Details = "Running a development build, not a released version"
	} else {
		check.Message = fmt.Sprintf("v%s", version)
		check.Details = fmt.Sprintf("Commit: %s, Built: %s", commit, date)
	}
	return check
}

// checkRoot verifies that the root executor runs as uid 0.
func checkRoot(ctx context.Context, a *app.App) DoctorCheck {
	check := DoctorCheck{Name: "Root", Status: "ok"}
	if !shell.CheckRoot(ctx, a.Exec) {
		check.Status = "error"
		check.Message = "Root access unavailable"
		check.Details = fmt.Sprintf("'%s -c id' did not report uid=0; grant root to tweakctl in your su manager", a.Config.Shell.Privileged)
		return check
	}
	check.Message = "Commands run as uid 0"
	check.Details = fmt.Sprintf("Executor: %s via %s", a.Config.Shell.Executor, a.Config.Shell.Privileged)
	return check
}

// checkStore round-trips the settings namespace.
func checkStore(a *app.App) DoctorCheck {
	check := DoctorCheck{Name: "Store", Status: "ok"}
	if _, err := a.Games.List(); err != nil {
		check.Status = "error"
		check.Message = "Store unreadable"
		check.Details = err.Error()
		return check
	}
	check.Message = fmt.Sprintf("%s backend", a.Config.Store.Backend)
	check.Details = a.Config.StorePath()
	return check
}

// checkFPSNode probes for a hardware frame rate node.
func checkFPSNode(ctx context.Context, a *app.App) DoctorCheck {
	check := DoctorCheck{Name: "FPS node", Status: "ok"}
	node, ok := a.FPS.Probe(ctx)
	if !ok {
		check.Status = "warning"
		check.Message = "No hardware FPS node"
		check.Details = "Frame rate falls back to SurfaceFlinger timestats"
		return check
	}
	check.Message = node
	return check
}

// checkDisplay reads the physical panel metrics.
func checkDisplay(ctx context.Context, a *app.App) DoctorCheck {
	check := DoctorCheck{Name: "Display", Status: "ok"}
	m, err := display.ReadMetrics(ctx, a.Exec)
	if err != nil {
		check.Status = "warning"
		check.Message = "Panel metrics unreadable"
		check.Details = err.Error()
		return check
	}
	check.Message = fmt.Sprintf("%dx%d @ %d dpi", m.Width, m.Height, m.Density)
	return check
}

// checkMonitor reports whether the background monitor is running.
func checkMonitor(a *app.App) DoctorCheck {
	check := DoctorCheck{Name: "Monitor", Status: "ok"}
	running := monitorRunning(a)
	switch {
	case running:
		check.Message = "Running"
	case a.Tweaks.PerformanceMode():
		check.Status = "warning"
		check.Message = "Not running while performance mode is on"
		check.Details = "Run 'tweakctl perf on' again to restart it"
	default:
		check.Message = "Stopped"
	}
	return check
}

// printDoctorResults prints the doctor results in human-readable format.
func printDoctorResults(result DoctorResult) {
	for _, check := range result.Checks {
		var icon string
		switch check.Status {
		case "ok":
			icon = ui.SuccessStyle.Render("✓")
		case "warning":
			icon = ui.WarningStyle.Render("⚠")
		default:
			icon = ui.ErrorStyle.Render("✗")
		}
		fmt.Printf("  %s %-10s %s\n", icon, check.Name, check.Message)
		if check.Details != "" {
			ui.PrintDim("               %s", check.Details)
		}
	}
	ui.Println()
	if result.Healthy && result.Issues == 0 {
		ui.PrintSuccess("All checks passed")
	} else if result.Healthy {
		ui.PrintWarning("%d warning(s)", result.Issues)
	} else {
		ui.PrintError("%d issue(s) found", result.Issues)
	}
}
