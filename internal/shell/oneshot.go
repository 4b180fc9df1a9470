package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs shell command strings.
// Implementations differ in what a nil error means: a Session only confirms
// the command was written, a RootExecutor waits for a zero exit status.
type Executor interface {
	Run(ctx context.Context, command string) error
}

// OutputExecutor is an Executor that can also capture standard output.
type OutputExecutor interface {
	Executor
	Output(ctx context.Context, command string) (string, error)
}

// RootExecutor runs each command in a fresh `<shell> -c <command>` process.
type RootExecutor struct {
	// Shell is the binary invoked with -c. Empty means su.
	Shell string
}

// NewRootExecutor returns an executor that runs commands through shell.
func NewRootExecutor(shell string) *RootExecutor {
	return &RootExecutor{Shell: shell}
}

func (e *RootExecutor) shell() string {
	if e.Shell == "" {
		return DefaultPrivilegedShell
	}
	return e.Shell
}

// Run implements Executor. Empty commands are no-ops.
func (e *RootExecutor) Run(ctx context.Context, command string) error {
	_, err := e.Output(ctx, command)
	return err
}

// Output runs command and returns its standard output.
//
// Parameters:
//   - ctx: Cancels the child process when done
//   - command: Shell command text; empty returns "" without spawning
//
// Returns:
//   - string: Captured standard output
//   - error: Spawn failure or non-zero exit, with trimmed stderr attached
func (e *RootExecutor) Output(ctx context.Context, command string) (string, error) {
	if command == "" {
		return "", nil
	}

	cmd := exec.CommandContext(ctx, e.shell(), "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("%s -c %q: %w: %s", e.shell(), command, err, msg)
		}
		return stdout.String(), fmt.Errorf("%s -c %q: %w", e.shell(), command, err)
	}
	return stdout.String(), nil
}

// CheckRoot reports whether exec runs commands as uid 0.
func CheckRoot(ctx context.Context, exec OutputExecutor) bool {
	out, err := exec.Output(ctx, "id")
	return err == nil && strings.Contains(out, "uid=0")
}

// RunAll runs commands in order, continuing past failures.
// Empty commands are skipped. The returned error joins every failure.
func RunAll(ctx context.Context, exec Executor, commands []string) error {
	var errs []error
	for _, c := range commands {
		if c == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := exec.Run(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
