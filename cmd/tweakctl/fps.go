// Package main provides the fps command group.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/fps"
	"github.com/javapro/tweakctl/internal/ui"
)

// fpsCmd is the parent command for frame rate readings.
var fpsCmd = &cobra.Command{
	Use:   "fps",
	Short: "Read the display frame rate",
	Long: `Read the display frame rate.

The rate comes from the first vendor sysfs node that exists. When none does,
watch falls back to counting SurfaceFlinger frames via timestats, clamping
58-62 to 60 and capping at 120.`,
}

var fpsProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Find the hardware FPS node",
	Args:  cobra.NoArgs,
	RunE:  runFPSProbe,
}

var fpsReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Print one reading from the hardware FPS node",
	Args:  cobra.NoArgs,
	RunE:  runFPSRead,
}

var (
	fpsWatchInterval time.Duration
	fpsWatchCount    int
)

var fpsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the frame rate until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runFPSWatch,
}

func init() {
	fpsWatchCmd.Flags().DurationVar(&fpsWatchInterval, "interval", fps.DefaultInterval, "Sampling interval")
	fpsWatchCmd.Flags().IntVarP(&fpsWatchCount, "count", "n", 0, "Stop after this many samples (0 = until interrupted)")

	fpsCmd.AddCommand(fpsProbeCmd)
	fpsCmd.AddCommand(fpsReadCmd)
	fpsCmd.AddCommand(fpsWatchCmd)
}

func runFPSProbe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	node, ok := a.FPS.Probe(cmd.Context())
	if jsonOutput(cmd) {
		return printJSON(map[string]any{"found": ok, "node": node, "candidates": a.FPS.Nodes()})
	}
	if !ok {
		ui.PrintWarning("No hardware FPS node; 'fps watch' will count SurfaceFlinger frames")
		return nil
	}
	ui.PrintSuccess("%s", node)
	return nil
}

func runFPSRead(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	node, ok := a.FPS.Probe(cmd.Context())
	if !ok {
		return fmt.Errorf("no hardware FPS node; use 'tweakctl fps watch'")
	}
	rate := a.FPS.Read(cmd.Context())
	if jsonOutput(cmd) {
		return printJSON(fps.Sample{FPS: rate, Source: fps.SourceSysfs, Node: node, Time: time.Now()})
	}
	fmt.Println(ui.FPSStyle(rate).Render(fmt.Sprintf("FPS: %d", rate)))
	return nil
}

// errSampleLimit ends a watch once --count samples were printed.
var errSampleLimit = errors.New("sample limit reached")

func runFPSWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	asJSON := jsonOutput(cmd)
	enc := json.NewEncoder(os.Stdout)
	n := 0
	err = fps.Watch(ctx, a.Exec, a.FPS, fpsWatchInterval, func(s fps.Sample) {
		if asJSON {
			_ = enc.Encode(s)
		} else {
			fmt.Printf("%s  %s\n", ui.FPSStyle(s.FPS).Render(fmt.Sprintf("FPS: %3d", s.FPS)), ui.DimStyle.Render(string(s.Source)))
		}
		n++
		if fpsWatchCount > 0 && n >= fpsWatchCount {
			cancel(errSampleLimit)
		}
	})
	return err
}
