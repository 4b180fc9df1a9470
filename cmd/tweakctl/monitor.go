// Package main provides the monitor command: the foreground booster service
// that performance mode launches in the background.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/app"
	"github.com/javapro/tweakctl/internal/booster"
	"github.com/javapro/tweakctl/internal/config"
	"github.com/javapro/tweakctl/internal/store"
	"github.com/javapro/tweakctl/internal/ui"
)

// monitorCmd runs the game monitor in the foreground.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the game monitor in the foreground",
	Long: `Run the game monitor until interrupted.

The monitor polls the focused app against the game list and, when the
fps_enabled setting is on, samples the frame rate. 'tweakctl perf on'
starts it in the background and 'tweakctl perf off' stops it; run it
directly to watch its status live.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pidFile := config.MonitorPIDFile()
	if err := claimPIDFile(pidFile); err != nil {
		return err
	}
	defer releasePIDFile(pidFile)

	if err := watchGames(ctx, a); err != nil {
		log.Warn("Game list changes will need a monitor restart", "error", err)
	}

	asJSON := jsonOutput(cmd)
	svc := a.NewMonitorService(booster.Options{
		OnStatus: func(st booster.Status) {
			if asJSON {
				_ = printJSON(st)
				return
			}
			ui.PrintInfo("%s  %s", ui.TitleStyle.Render(st.Title), st.Message)
		},
		OnFPS: func(rate int) {
			if !asJSON {
				ui.PrintInfo("%s", ui.FPSStyle(rate).Render(fmt.Sprintf("FPS: %d", rate)))
			}
		},
	})

	log.Info("Monitor running", "pid", os.Getpid())
	svc.Run(ctx)
	log.Info("Monitor stopped")
	return nil
}

// watchGames reloads the YAML games namespace when another process edits it.
// Other backends read through on every lookup and need no watcher.
func watchGames(ctx context.Context, a *app.App) error {
	fb, ok := a.Backend.(*store.FileBackend)
	if !ok {
		return nil
	}
	ns, err := fb.FileNamespace(store.NamespaceGames)
	if err != nil {
		return err
	}
	go func() {
		err := ns.Watch(ctx, func() { log.Debug("Game list reloaded") })
		if err != nil {
			log.Warn("Game list watcher stopped", "error", err)
		}
	}()
	return nil
}

// claimPIDFile records this process as the running monitor. It refuses to
// start when another live monitor owns the file. A detached launch has
// already written our pid.
func claimPIDFile(path string) error {
	owner := &booster.ProcessController{PIDFile: path}
	if pid, ok := owner.PID(); ok && pid != os.Getpid() {
		return fmt.Errorf("monitor already running (pid %d)", pid)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create pid dir: %w", err)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600)
}

// releasePIDFile removes path if it still names this process.
func releasePIDFile(path string) {
	owner := &booster.ProcessController{PIDFile: path}
	if pid, ok := owner.PID(); !ok || pid != os.Getpid() {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug("Remove pid file failed", "error", err)
	}
}

// monitorRunning reports whether the configured monitor is alive.
func monitorRunning(a *app.App) bool {
	switch m := a.Monitor.(type) {
	case interface{ PID() (int, bool) }:
		_, ok := m.PID()
		return ok
	case interface{ Running() bool }:
		return m.Running()
	}
	return false
}
