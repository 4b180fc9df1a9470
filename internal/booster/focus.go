package booster

import (
	"context"
	"strings"

	"github.com/javapro/tweakctl/internal/shell"
)

// FocusCommand prints the window that currently has input focus.
const FocusCommand = "dumpsys window | grep mCurrentFocus"

// ParseFocusedPackage extracts the package from the first mCurrentFocus line,
// e.g. "mCurrentFocus=Window{1a2b u0 com.example.game/com.example.Main}".
// It returns "" when the line names no activity.
func ParseFocusedPackage(out string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	line = strings.TrimRight(strings.TrimSpace(line), "}")
	if !strings.Contains(line, "/") {
		return ""
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	pkg, _, found := strings.Cut(last, "/")
	if !found {
		return ""
	}
	if i := strings.LastIndex(pkg, "{"); i >= 0 {
		pkg = pkg[i+1:]
	}
	return strings.TrimSpace(pkg)
}

// TopApp returns the focused package, or "" when it cannot be determined.
func TopApp(ctx context.Context, exec shell.OutputExecutor) string {
	out, err := exec.Output(ctx, FocusCommand)
	if err != nil {
		return ""
	}
	return ParseFocusedPackage(out)
}
