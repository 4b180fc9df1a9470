package tweak

import (
	"context"
	"fmt"

	"github.com/javapro/tweakctl/internal/shell"
)

// BootCommands returns the commands applied once after the device boots.
func BootCommands() []string {
	return []string{
		fmt.Sprintf("echo performance > %s", cpu0Governor),
		"echo 1 > /sys/class/kgsl/kgsl-3d0/force_clk_on",
		"settings put system peak_refresh_rate 120",
	}
}

// ApplyBoot runs BootCommands in order, continuing past failures.
func ApplyBoot(ctx context.Context, exec shell.Executor) error {
	return shell.RunAll(ctx, exec, BootCommands())
}
