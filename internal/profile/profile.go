// Package profile assigns a power profile to each installed app and applies
// the command sequence for a profile.
package profile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/shell"
	"github.com/javapro/tweakctl/internal/store"
)

// Mode is a per-app power profile.
type Mode string

const (
	Balance     Mode = "balance"
	Performance Mode = "performance"
	Powersave   Mode = "powersave"
)

// Modes returns every mode in display order.
func Modes() []Mode {
	return []Mode{Balance, Performance, Powersave}
}

// ParseMode resolves s to a Mode. Anything unrecognised is Balance.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Performance:
		return Performance
	case Powersave:
		return Powersave
	default:
		return Balance
	}
}

// Valid reports whether s names a mode exactly.
func Valid(s string) bool {
	for _, m := range Modes() {
		if string(m) == strings.ToLower(strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

const (
	kgsl   = "/sys/class/kgsl/kgsl-3d0"
	cpuctl = "/dev/cpuctl/foreground"
)

var thermalStop = []string{
	"stop thermal-engine",
	"stop thermald",
	"setprop init.svc.vendor.thermal-hal-2-0.mtk stopped",
	"setprop init.svc.vendor.thermal-hal-1-0 stopped",
	"setprop init.svc.thermal-engine stopped",
	"setprop ctl.stop thermal-engine",
	"setprop vendor.thermal.mode.disable 1",
}

var thermalStart = []string{
	"start thermal-engine",
	"start thermald",
	"setprop vendor.thermal.mode.disable 0",
	"setprop ctl.start thermal-engine",
}

// governorSweep sets governor on every core and pins the min frequency to
// cpuinfo_<minFrom>_freq. Performance also raises the max to cpuinfo_max_freq.
func governorSweep(governor, minFrom string, pinMax bool) string {
	var b strings.Builder
	b.WriteString("sh -c 'for cpu in /sys/devices/system/cpu/cpu*/cpufreq; do ")
	fmt.Fprintf(&b, "echo %s > $cpu/scaling_governor; ", governor)
	if pinMax {
		b.WriteString("cat $cpu/cpuinfo_max_freq > $cpu/scaling_max_freq; ")
	}
	fmt.Fprintf(&b, "cat $cpu/cpuinfo_%s_freq > $cpu/scaling_min_freq; done'", minFrom)
	return b.String()
}

// Commands returns the ordered command list for m. Thermal commands come
// first so throttling cannot undo the frequency changes that follow.
func Commands(m Mode) []string {
	var cmds []string
	switch ParseMode(string(m)) {
	case Performance:
		cmds = append(cmds, thermalStop...)
		cmds = append(cmds,
			governorSweep("performance", "max", true),
			fmt.Sprintf("sh -c 'echo performance > %s/devfreq/governor'", kgsl),
			fmt.Sprintf("sh -c 'echo 0 > %s/min_pwrlevel'", kgsl),
			fmt.Sprintf("sh -c 'echo 1 > %s/force_bus_on'", kgsl),
			fmt.Sprintf("sh -c 'echo 1 > %s/force_clk_on'", kgsl),
			fmt.Sprintf("echo 100 > %s/cpu.uclamp.min", cpuctl),
			fmt.Sprintf("echo 100 > %s/cpu.uclamp.max", cpuctl),
			fmt.Sprintf("echo 1024 > %s/cpu.shares", cpuctl),
			"echo 0 > /proc/sys/vm/swappiness",
			"echo 10 > /proc/sys/vm/vfs_cache_pressure",
			"echo 1 > /proc/sys/kernel/sched_child_runs_first",
			"echo 0 > /proc/sys/kernel/sched_autogroup_enabled",
			"dumpsys deviceidle disable",
			"echo 3 > /proc/sys/vm/drop_caches",
		)
	case Powersave:
		cmds = append(cmds, thermalStart...)
		cmds = append(cmds,
			governorSweep("powersave", "min", false),
			fmt.Sprintf("echo 10 > %s/cpu.uclamp.max", cpuctl),
			"echo 100 > /proc/sys/vm/swappiness",
			"dumpsys deviceidle force-idle",
		)
	default:
		cmds = append(cmds, thermalStart...)
		cmds = append(cmds,
			governorSweep("schedutil", "min", false),
			"echo 40 > /proc/sys/vm/swappiness",
			"dumpsys deviceidle enable",
		)
	}
	return cmds
}

// Assignment is one app's stored profile.
type Assignment struct {
	Package string `json:"package" yaml:"package"`
	Mode    Mode   `json:"mode" yaml:"mode"`
}

// Manager stores per-app profiles and applies them.
type Manager struct {
	kv   store.KV
	exec shell.Executor
}

// NewManager creates a manager over the profiles namespace.
func NewManager(kv store.KV, exec shell.Executor) *Manager {
	return &Manager{kv: kv, exec: exec}
}

// Get returns pkg's profile, Balance when none is stored.
func (m *Manager) Get(pkg string) Mode {
	return ParseMode(store.GetString(m.kv, pkg, string(Balance)))
}

// Set persists mode for pkg and applies its commands.
//
// Parameters:
//   - ctx: Context for command execution
//   - pkg: Android package name
//   - mode: Profile to assign
//
// Returns:
//   - error: Persist failure, or the joined command failures
func (m *Manager) Set(ctx context.Context, pkg string, mode Mode) error {
	if pkg == "" {
		return fmt.Errorf("package name is required")
	}
	mode = ParseMode(string(mode))
	if err := m.kv.Set(pkg, string(mode)); err != nil {
		return fmt.Errorf("persist profile for %s: %w", pkg, err)
	}
	log.Debug("Profile assigned", "package", pkg, "mode", mode)
	return m.Apply(ctx, mode)
}

// Clear removes pkg's stored profile.
func (m *Manager) Clear(pkg string) error {
	return m.kv.Delete(pkg)
}

// Apply runs mode's commands in order. A failing command does not stop the
// rest and nothing is rolled back.
func (m *Manager) Apply(ctx context.Context, mode Mode) error {
	if err := shell.RunAll(ctx, m.exec, Commands(mode)); err != nil {
		log.Warn("Profile applied with failures", "mode", mode, "error", err)
		return fmt.Errorf("apply %s profile: %w", mode, err)
	}
	return nil
}

// List returns every stored assignment sorted by package.
func (m *Manager) List() ([]Assignment, error) {
	keys, err := m.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]Assignment, 0, len(keys))
	for _, k := range keys {
		out = append(out, Assignment{Package: k, Mode: m.Get(k)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Package < out[j].Package })
	return out, nil
}
