package profile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/javapro/tweakctl/internal/shell"
)

// ListPackagesCommand lists third-party packages.
const ListPackagesCommand = "pm list packages -3"

// ListPackages returns the installed third-party packages, sorted.
func ListPackages(ctx context.Context, exec shell.OutputExecutor) ([]string, error) {
	out, err := exec.Output(ctx, ListPackagesCommand)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return ParsePackages(out), nil
}

// ParsePackages parses `pm list packages` output. Lines without the
// "package:" prefix are ignored.
func ParsePackages(out string) []string {
	seen := make(map[string]bool)
	var pkgs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		name, ok := strings.CutPrefix(line, "package:")
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		pkgs = append(pkgs, name)
	}
	sort.Strings(pkgs)
	return pkgs
}
