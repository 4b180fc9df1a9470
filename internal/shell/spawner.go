package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Default shells tried by ExecSpawner, in order.
const (
	DefaultPrivilegedShell = "su"
	DefaultFallbackShell   = "sh"
)

// ErrNoShell is returned when no candidate shell could be spawned.
var ErrNoShell = errors.New("no shell available")

// Process is a running interactive shell.
type Process interface {
	// Stdin is the shell's standard input.
	Stdin() io.WriteCloser

	// Stdout is the shell's standard output.
	Stdout() io.Reader

	// Stderr is the shell's standard error.
	Stderr() io.Reader

	// Pid returns the OS process id, or 0 when there is none.
	Pid() int

	// Wait blocks until the process exits. Callers must finish reading
	// Stdout and Stderr before calling Wait.
	Wait() error

	// Kill force-terminates the process and everything it started.
	Kill() error
}

// Spawner starts shell processes for a Session.
type Spawner interface {
	// Spawn starts a shell and reports which binary is running.
	Spawn(ctx context.Context) (Process, string, error)
}

// ExecSpawner spawns OS processes, trying each shell in turn.
type ExecSpawner struct {
	// Shells lists the binaries to try. Empty means su then sh.
	Shells []string
}

// NewExecSpawner returns a spawner that tries privileged first, then fallback.
// Empty names are skipped.
func NewExecSpawner(privileged, fallback string) *ExecSpawner {
	var shells []string
	for _, s := range []string{privileged, fallback} {
		if s != "" {
			shells = append(shells, s)
		}
	}
	return &ExecSpawner{Shells: shells}
}

// Spawn implements Spawner.
func (s *ExecSpawner) Spawn(ctx context.Context) (Process, string, error) {
	shells := s.Shells
	if len(shells) == 0 {
		shells = []string{DefaultPrivilegedShell, DefaultFallbackShell}
	}

	var errs []error
	for _, name := range shells {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		proc, err := startExecProcess(name)
		if err != nil {
			log.Debug("Shell spawn failed", "shell", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return proc, name, nil
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoShell, errors.Join(errs...))
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	stderr io.Reader
}

func startExecProcess(name string) (*execProcess, error) {
	cmd := exec.Command(name)
	setSysProcAttr(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

func (p *execProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *execProcess) Stdout() io.Reader     { return p.stdout }
func (p *execProcess) Stderr() io.Reader     { return p.stderr }
func (p *execProcess) Wait() error           { return p.cmd.Wait() }

func (p *execProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *execProcess) Kill() error {
	pid := p.Pid()
	if pid == 0 {
		return nil
	}
	if err := killProcessGroup(pid); err != nil {
		return p.cmd.Process.Kill()
	}
	return nil
}
