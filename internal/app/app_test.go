package app

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/javapro/tweakctl/internal/config"
	"github.com/javapro/tweakctl/internal/profile"
	"github.com/javapro/tweakctl/internal/shell/shelltest"
	"github.com/javapro/tweakctl/internal/store"
	"github.com/javapro/tweakctl/internal/tweak"
)

type fakeMonitor struct{ running bool }

func (f *fakeMonitor) Start(context.Context) error { f.running = true; return nil }
func (f *fakeMonitor) Stop() error                 { f.running = false; return nil }

func newTestApp(t *testing.T) (*App, *shelltest.Recorder, *fakeMonitor) {
	t.Helper()
	rec := shelltest.NewRecorder()
	mon := &fakeMonitor{}
	a, err := Open(context.Background(), config.Default(), Options{
		Backend: store.NewMemoryBackend(),
		Exec:    rec,
		Monitor: mon,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, rec, mon
}

func TestOpen_FileBackend(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	a, err := Open(context.Background(), config.Default(), Options{
		Exec:    shelltest.NewRecorder(),
		Monitor: &fakeMonitor{},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if err := a.Games.Add("com.example.game"); err != nil {
		t.Fatal(err)
	}
	if a.Runner != a.Exec {
		t.Error("oneshot executor should run tweaks directly")
	}
}

func TestApplyPreset(t *testing.T) {
	a, rec, mon := newTestApp(t)
	ctx := context.Background()

	if err := a.ApplyPreset(ctx, PresetPerformance); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if !a.Tweaks.PerformanceMode() || !mon.running {
		t.Error("performance preset should turn performance mode on")
	}
	if !rec.Contains(profile.Commands(profile.Performance)[0]) {
		t.Error("performance profile not applied")
	}

	rec.Reset()
	if err := a.ApplyPreset(ctx, PresetPowersave); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if a.Tweaks.PerformanceMode() || mon.running {
		t.Error("powersave preset should turn performance mode off")
	}
	if !rec.Contains("dumpsys deviceidle force-idle") {
		t.Error("powersave profile not applied")
	}
}

func TestApplyBoot(t *testing.T) {
	a, rec, _ := newTestApp(t)
	ctx := context.Background()

	ran, err := a.ApplyBoot(ctx)
	if err != nil || ran {
		t.Fatalf("ApplyBoot with setting off = %v, %v", ran, err)
	}
	if len(rec.Commands()) != 0 {
		t.Errorf("boot commands ran while disabled: %v", rec.Commands())
	}

	if err := a.Settings.SetBootApply(true); err != nil {
		t.Fatal(err)
	}
	ran, err = a.ApplyBoot(ctx)
	if err != nil || !ran {
		t.Fatalf("ApplyBoot = %v, %v", ran, err)
	}
	if len(rec.Commands()) != len(tweak.BootCommands()) {
		t.Errorf("commands = %v", rec.Commands())
	}
}

func openSessionApp(t *testing.T) *App {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cfg := config.Default()
	cfg.Shell.Privileged = "sh"
	cfg.Shell.Fallback = ""
	cfg.Shell.Executor = config.ExecutorSession
	a, err := Open(context.Background(), cfg, Options{
		Backend: store.NewMemoryBackend(),
		Monitor: &fakeMonitor{},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.session == nil || a.Runner != a.session {
		_ = a.Close()
		t.Fatal("session executor should run tweaks through the persistent shell")
	}
	return a
}

func TestSessionRunner_WaitsForSlowCommand(t *testing.T) {
	a := openSessionApp(t)
	defer a.Close()

	marker := filepath.Join(t.TempDir(), "done")
	if err := a.Runner.Run(context.Background(), "sleep 0.5; echo ok > "+marker); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("Run returned before the command finished: %v", err)
	}
}

func TestClose_DrainsQueuedSessionCommands(t *testing.T) {
	a := openSessionApp(t)

	marker := filepath.Join(t.TempDir(), "done")
	a.session.Exec("sleep 0.5; echo ok > " + marker)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("queued command was killed by Close: %v", err)
	}
}
