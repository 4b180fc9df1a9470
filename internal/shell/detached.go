package shell

import (
	"fmt"
	"os"
	"os/exec"
)

// StartDetached starts name with args in its own session so it outlives the
// caller. Output is appended to logPath when set, discarded otherwise.
//
// Returns:
//   - int: PID of the started process
//   - error: Any error opening the log or starting the process
func StartDetached(name string, args []string, logPath string) (int, error) {
	cmd := exec.Command(name, args...)
	setDetachedAttr(cmd)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return 0, fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		cmd.Stdout = f
		cmd.Stderr = f
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", name, err)
	}
	pid := cmd.Process.Pid
	// Reap in the background so the child never lingers as a zombie while
	// the caller is still alive.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

// Terminate asks pid to exit.
func Terminate(pid int) error {
	return terminateProcess(pid)
}

// Alive reports whether pid names a running process.
func Alive(pid int) bool {
	return processAlive(pid)
}
