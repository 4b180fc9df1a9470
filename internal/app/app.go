// Package app wires configuration, storage and executors into the
// components the commands and the MCP server operate on.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/booster"
	"github.com/javapro/tweakctl/internal/config"
	"github.com/javapro/tweakctl/internal/fps"
	"github.com/javapro/tweakctl/internal/profile"
	"github.com/javapro/tweakctl/internal/shell"
	"github.com/javapro/tweakctl/internal/store"
	"github.com/javapro/tweakctl/internal/tweak"
)

// App holds every long-lived component for one invocation.
type App struct {
	Config     *config.Config
	ConfigPath string

	Backend store.Backend

	// Exec runs one-shot root commands and captures their output.
	Exec shell.OutputExecutor

	// Runner runs tweak and profile commands. It is Exec, or a persistent
	// session when the config selects one.
	Runner shell.Executor

	Tweaks   *tweak.Registry
	Profiles *profile.Manager
	Games    *booster.GameList
	Settings *config.Settings
	FPS      *fps.Reader
	Monitor  tweak.ServiceController

	session *shell.Session
}

// Options overrides parts of the wiring, mainly for tests.
type Options struct {
	// ConfigPath is passed to the detached monitor.
	ConfigPath string

	// Backend replaces the configured store.
	Backend store.Backend

	// Exec replaces the root executor. It also becomes the Runner.
	Exec shell.OutputExecutor

	// Monitor replaces the detached monitor process controller.
	Monitor tweak.ServiceController
}

// Open builds an App from cfg.
//
// Parameters:
//   - ctx: Context used when starting a persistent shell session
//   - cfg: Loaded configuration
//   - opts: Overrides; the zero value wires everything from cfg
//
// Returns:
//   - *App: The wired application; call Close when done
//   - error: Store or namespace failures
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg, ConfigPath: opts.ConfigPath}

	backend := opts.Backend
	if backend == nil {
		var err error
		backend, err = store.Open(cfg.Store.Backend, cfg.StorePath())
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
		}
	}
	a.Backend = backend

	namespaces := make(map[string]store.KV)
	for _, name := range []string{store.NamespaceTweaks, store.NamespaceProfiles, store.NamespaceSettings, store.NamespaceGames} {
		kv, err := backend.Namespace(name)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("open %s namespace: %w", name, err)
		}
		namespaces[name] = kv
	}

	a.Exec = opts.Exec
	if a.Exec == nil {
		a.Exec = shell.NewRootExecutor(cfg.Shell.Privileged)
	}
	a.Runner = a.Exec
	if opts.Exec == nil && cfg.Shell.Executor == config.ExecutorSession {
		a.session = shell.NewSession(shell.NewExecSpawner(cfg.Shell.Privileged, cfg.Shell.Fallback))
		a.session.SetOnError(func(e shell.LogEntry) { log.Warn("Shell", "stderr", e.Text) })
		a.session.SetOnOutput(func(e shell.LogEntry) { log.Debug("Shell", "stdout", e.Text) })
		if err := a.session.Start(ctx); err != nil {
			log.Warn("Persistent shell unavailable, using one-shot commands", "error", err)
			a.session = nil
		} else {
			a.Runner = a.session
		}
	}

	a.Tweaks = tweak.NewRegistry(namespaces[store.NamespaceTweaks], a.Runner)
	a.Profiles = profile.NewManager(namespaces[store.NamespaceProfiles], a.Runner)
	a.Games = booster.NewGameList(namespaces[store.NamespaceGames])
	a.Settings = config.NewSettings(namespaces[store.NamespaceSettings])
	a.FPS = fps.NewReader(a.Exec, cfg.Monitor.FPSNodes)

	a.Monitor = opts.Monitor
	if a.Monitor == nil {
		a.Monitor = a.monitorProcess()
	}
	a.Tweaks.SetService(a.Monitor)
	return a, nil
}

// monitorProcess returns the controller for the detached `monitor` command.
func (a *App) monitorProcess() *booster.ProcessController {
	bin, err := os.Executable()
	if err != nil {
		bin = os.Args[0]
	}
	args := []string{"monitor"}
	if a.ConfigPath != "" {
		args = append(args, "--config", a.ConfigPath)
	}
	return &booster.ProcessController{
		Binary:  bin,
		Args:    args,
		PIDFile: config.MonitorPIDFile(),
		LogFile: config.MonitorLogFile(),
	}
}

// NewMonitorService builds the in-process monitor used by `tweakctl monitor`
// and the MCP server.
func (a *App) NewMonitorService(opts booster.Options) *booster.Service {
	if opts.GameInterval == 0 {
		opts.GameInterval = a.Config.Monitor.GameInterval
	}
	if opts.FPSInterval == 0 {
		opts.FPSInterval = a.Config.Monitor.FPSInterval
	}
	var reader *fps.Reader
	if a.Settings.FPSEnabled() {
		reader = a.FPS
	}
	return booster.NewService(a.Exec, a.Games, reader, opts)
}

// NewSession returns a stopped interactive shell session.
func (a *App) NewSession() *shell.Session {
	return shell.NewSession(shell.NewExecSpawner(a.Config.Shell.Privileged, a.Config.Shell.Fallback))
}

// drainTimeout bounds how long Close waits for queued shell commands.
const drainTimeout = 30 * time.Second

// Close waits for the persistent shell to finish its queued commands, stops
// it and closes the store.
func (a *App) Close() error {
	var errs []error
	if a.session != nil {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		if err := a.session.Sync(ctx); err != nil && !errors.Is(err, shell.ErrSessionStopped) {
			log.Warn("Shell commands still running at exit", "error", err)
		}
		cancel()
		errs = append(errs, a.session.Stop())
	}
	if a.Backend != nil {
		errs = append(errs, a.Backend.Close())
	}
	return errors.Join(errs...)
}
