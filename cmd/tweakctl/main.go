// Package main provides the entry point for the tweakctl CLI.
//
// tweakctl applies root performance tweaks to an Android device: individual
// toggles, a global performance mode, per-app CPU profiles, FPS monitoring,
// display calibration and an interactive root shell.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/app"
	"github.com/javapro/tweakctl/internal/config"
	"github.com/javapro/tweakctl/internal/ui"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	// currentApp is the application opened by the running command.
	currentApp *app.App

	// appOverrides replaces parts of the wiring. Tests set it.
	appOverrides app.Options
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "tweakctl",
	Short:         "Root performance tweaks for Android",
	Long:          ui.GetHelpText(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			log.SetLevel(log.DebugLevel)
			log.Debug("Debug logging enabled")
		}

		// Set quiet mode from global flag
		quiet, _ := cmd.Flags().GetBool("quiet")
		ui.SetQuietMode(quiet)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(ui.GetCondensedHelp())
	},
}

// Execute runs the root command and closes the application afterwards.
// Unknown commands typed in the wrong order get a "did you mean" hint
// (e.g., "tweakctl list tweak" instead of "tweakctl tweak list").
func Execute() {
	err := rootCmd.Execute()
	closeApp()
	if err != nil {
		ui.PrintError("%v", err)

		errStr := err.Error()
		if start := strings.Index(errStr, `unknown command "`); start != -1 {
			start += len(`unknown command "`)
			if end := strings.Index(errStr[start:], `"`); end != -1 {
				unknownCmd := errStr[start : start+end]
				if suggestion, found := suggestCorrectCommand(unknownCmd, os.Args[1:], rootCmd); found {
					printCommandSuggestion(suggestion)
				}
			}
		}
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON (where supported)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $TWEAKCTL_HOME/config.yaml or ~/.tweakctl/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(tweakCmd)
	rootCmd.AddCommand(perfCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(fpsCmd)
	rootCmd.AddCommand(displayCmd)
	rootCmd.AddCommand(bootCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput(cmd) {
			_ = printJSON(map[string]string{"version": version, "commit": commit, "date": date})
			return
		}
		ui.PrintBanner(version)
		ui.PrintInfo("Version: %s", version)
		ui.PrintInfo("Commit: %s", commit)
		ui.PrintInfo("Built: %s", date)
	},
}

// configPath returns the --config value or the default location.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath()
}

// loadConfig loads and validates the configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path := configPath(cmd)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

// openApp loads the config and wires the application once per invocation.
//
// Parameters:
//   - cmd: The running command (for --config and its context)
//
// Returns:
//   - *app.App: The wired application
//   - error: Config or store failures
func openApp(cmd *cobra.Command) (*app.App, error) {
	if currentApp != nil {
		return currentApp, nil
	}
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts := appOverrides
	if opts.ConfigPath == "" {
		if p, _ := cmd.Flags().GetString("config"); p != "" {
			opts.ConfigPath = p
		}
	}
	log.Debug("Opening tweakctl", "config", path, "store", cfg.Store.Backend, "executor", cfg.Shell.Executor)

	a, err := app.Open(cmd.Context(), cfg, opts)
	if err != nil {
		return nil, err
	}
	currentApp = a
	return a, nil
}

// closeApp releases the application opened by openApp, if any.
func closeApp() {
	if currentApp == nil {
		return
	}
	if err := currentApp.Close(); err != nil {
		log.Debug("Close failed", "error", err)
	}
	currentApp = nil
}

// jsonOutput reports whether --json was passed.
func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// parseOnOff accepts on/off, true/false, enable/disable, 1/0 and yes/no.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "enable", "enabled", "1", "yes":
		return true, nil
	case "off", "false", "disable", "disabled", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func main() {
	Execute()
}
