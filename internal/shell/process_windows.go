//go:build windows

package shell

import (
	"fmt"
	"os"
	"os/exec"
)

// setSysProcAttr is a no-op on Windows (no process groups via Setpgid).
func setSysProcAttr(cmd *exec.Cmd) {}

// setDetachedAttr is a no-op on Windows.
func setDetachedAttr(cmd *exec.Cmd) {}

// killProcessGroup forcefully terminates the process tree using taskkill.
func killProcessGroup(pid int) error {
	return exec.Command("taskkill", "/F", "/T", "/PID", fmt.Sprintf("%d", pid)).Run()
}

// terminateProcess terminates a single process.
func terminateProcess(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

// processAlive reports whether pid names a running process.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}
