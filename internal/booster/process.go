package booster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/shell"
)

// ProcessController runs the monitor as a detached `monitor` subprocess so
// it survives the CLI invocation that turned performance mode on.
// It implements tweak.ServiceController.
type ProcessController struct {
	// Binary is the executable to launch, normally os.Executable().
	Binary string

	// Args are passed to Binary, e.g. ["monitor"].
	Args []string

	// PIDFile records the running monitor's PID.
	PIDFile string

	// LogFile receives the monitor's output; empty discards it.
	LogFile string
}

// PID returns the recorded monitor PID if that process is alive.
func (p *ProcessController) PID() (int, bool) {
	data, err := os.ReadFile(p.PIDFile)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || !shell.Alive(pid) {
		return 0, false
	}
	return pid, true
}

// Start launches the monitor unless one is already running.
func (p *ProcessController) Start(ctx context.Context) error {
	if pid, ok := p.PID(); ok {
		log.Debug("Monitor already running", "pid", pid)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.PIDFile), 0700); err != nil {
		return fmt.Errorf("create pid dir: %w", err)
	}

	pid, err := shell.StartDetached(p.Binary, p.Args, p.LogFile)
	if err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}
	if err := os.WriteFile(p.PIDFile, []byte(strconv.Itoa(pid)+"\n"), 0600); err != nil {
		_ = shell.Terminate(pid)
		return fmt.Errorf("write pid file: %w", err)
	}
	log.Debug("Monitor launched", "pid", pid, "pidfile", p.PIDFile)
	return nil
}

// Stop terminates the recorded monitor and removes the PID file.
func (p *ProcessController) Stop() error {
	pid, ok := p.PID()
	if ok {
		if err := shell.Terminate(pid); err != nil {
			return fmt.Errorf("stop monitor %d: %w", pid, err)
		}
		deadline := time.Now().Add(2 * time.Second)
		for shell.Alive(pid) && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
		}
	}
	if err := os.Remove(p.PIDFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}
