package tweak

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/javapro/tweakctl/internal/shell"
	"github.com/javapro/tweakctl/internal/store"
)

// KeyPerformanceMode is the stored key of the performance mode flag.
const KeyPerformanceMode = "perf_mode"

const cpu0Governor = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor"

// ServiceController starts and stops the background monitor that runs while
// performance mode is on.
type ServiceController interface {
	Start(ctx context.Context) error
	Stop() error
}

// State is a snapshot of one tweak.
type State struct {
	Kind Kind

	// Enabled is what the tweak reads as, after performance mode is applied.
	Enabled bool

	// Stored is the user's individually persisted preference.
	Stored bool

	// Forced is true when performance mode overrides the stored preference.
	Forced bool
}

// Registry persists tweak preferences and issues the matching commands.
type Registry struct {
	kv      store.KV
	exec    shell.Executor
	service ServiceController

	mu sync.Mutex
}

// NewRegistry creates a registry over kv that runs commands with exec.
//
// Parameters:
//   - kv: Namespace holding tweak booleans and the performance flag
//   - exec: Executor for tweak commands (one-shot or a running session)
//
// Returns:
//   - *Registry: Registry without a monitoring service attached
func NewRegistry(kv store.KV, exec shell.Executor) *Registry {
	return &Registry{kv: kv, exec: exec}
}

// SetService attaches the monitor started and stopped by performance mode.
func (r *Registry) SetService(svc ServiceController) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.service = svc
}

// PerformanceMode reports whether performance mode is on.
func (r *Registry) PerformanceMode() bool {
	return store.GetBool(r.kv, KeyPerformanceMode, false)
}

// Stored returns the user's persisted preference for k, ignoring performance mode.
func (r *Registry) Stored(k Kind) bool {
	return store.GetBool(r.kv, k.Key(), false)
}

// IsEnabled reports whether k reads as enabled. Performance-set kinds are
// always enabled while performance mode is on.
func (r *Registry) IsEnabled(k Kind) bool {
	if k.InPerformanceSet() && r.PerformanceMode() {
		return true
	}
	return r.Stored(k)
}

// IsKeyEnabled is IsEnabled for a raw key. Unknown keys read their stored value.
func (r *Registry) IsKeyEnabled(key string) bool {
	k, err := ParseKey(key)
	if err != nil {
		return store.GetBool(r.kv, key, false)
	}
	return r.IsEnabled(k)
}

// Command resolves key to its command. Unknown keys resolve to "".
func (r *Registry) Command(key string, enabled bool) string {
	k, err := ParseKey(key)
	if err != nil {
		return ""
	}
	return k.Command(enabled)
}

// SetState persists enabled for k and applies its command, unless
// performance mode is on and k is in the performance set. In that case only
// the preference is stored; it takes effect when performance mode turns off.
func (r *Registry) SetState(ctx context.Context, k Kind, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := store.SetBool(r.kv, k.Key(), enabled); err != nil {
		return fmt.Errorf("persist %s: %w", k, err)
	}
	if k.InPerformanceSet() && r.PerformanceMode() {
		log.Debug("Tweak change stored, performance mode holds it on", "tweak", k, "enabled", enabled)
		return nil
	}
	return r.apply(ctx, k, enabled)
}

// SetKeyState is SetState for a raw key. Unknown keys are persisted and
// resolve to no command.
func (r *Registry) SetKeyState(ctx context.Context, key string, enabled bool) error {
	k, err := ParseKey(key)
	if err != nil {
		if err := store.SetBool(r.kv, key, enabled); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		log.Debug("Stored unknown tweak key without a command", "key", key)
		return nil
	}
	return r.SetState(ctx, k, enabled)
}

// PerformanceModeCommands returns the global commands issued when
// performance mode turns on (active) or off.
func PerformanceModeCommands(active bool) []string {
	if active {
		return []string{
			fmt.Sprintf("echo performance > %s", cpu0Governor),
			"dumpsys deviceidle disable",
			"settings put global low_power 0",
		}
	}
	return []string{
		fmt.Sprintf("echo schedutil > %s", cpu0Governor),
		"dumpsys deviceidle enable",
	}
}

// SetPerformanceMode persists the flag and reconciles the device.
//
// Turning on starts the monitor, runs the global performance commands, then
// enables every performance-set kind. Turning off stops the monitor, runs the
// revert commands, then re-applies each performance-set kind's stored
// preference. Command failures do not stop the sequence; they are joined into
// the returned error and the flag stays persisted.
func (r *Registry) SetPerformanceMode(ctx context.Context, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := store.SetBool(r.kv, KeyPerformanceMode, active); err != nil {
		return fmt.Errorf("persist %s: %w", KeyPerformanceMode, err)
	}
	log.Debug("Performance mode", "active", active)

	var errs []error
	if r.service != nil {
		var err error
		if active {
			err = r.service.Start(ctx)
		} else {
			err = r.service.Stop()
		}
		if err != nil {
			log.Warn("Monitoring service transition failed", "active", active, "error", err)
			errs = append(errs, fmt.Errorf("monitor: %w", err))
		}
	}

	if err := shell.RunAll(ctx, r.exec, PerformanceModeCommands(active)); err != nil {
		errs = append(errs, err)
	}

	for _, k := range PerformanceSet() {
		enabled := true
		if !active {
			enabled = r.Stored(k)
		}
		if err := r.apply(ctx, k, enabled); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResetAll disables every performance-set kind plus game_fps and bat_doze,
// clears performance mode and stops the monitor.
func (r *Registry) ResetAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	kinds := append(PerformanceSet(), GameFPS, BatDoze)
	for _, k := range kinds {
		if err := store.SetBool(r.kv, k.Key(), false); err != nil {
			errs = append(errs, fmt.Errorf("persist %s: %w", k, err))
			continue
		}
		if err := r.apply(ctx, k, false); err != nil {
			errs = append(errs, err)
		}
	}

	if err := store.SetBool(r.kv, KeyPerformanceMode, false); err != nil {
		errs = append(errs, fmt.Errorf("persist %s: %w", KeyPerformanceMode, err))
	}
	if r.service != nil {
		if err := r.service.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("monitor: %w", err))
		}
	}
	return errors.Join(errs...)
}

// States returns a snapshot of every kind in catalogue order.
func (r *Registry) States() []State {
	perf := r.PerformanceMode()
	out := make([]State, 0, numKinds)
	for _, k := range Kinds() {
		stored := r.Stored(k)
		forced := perf && k.InPerformanceSet()
		out = append(out, State{
			Kind:    k,
			Enabled: stored || forced,
			Stored:  stored,
			Forced:  forced && !stored,
		})
	}
	return out
}

// apply runs k's command for enabled. Callers hold r.mu.
func (r *Registry) apply(ctx context.Context, k Kind, enabled bool) error {
	cmd := k.Command(enabled)
	if cmd == "" {
		return nil
	}
	if err := r.exec.Run(ctx, cmd); err != nil {
		log.Warn("Tweak command failed", "tweak", k, "enabled", enabled, "error", err)
		return fmt.Errorf("apply %s: %w", k, err)
	}
	log.Debug("Tweak applied", "tweak", k, "enabled", enabled)
	return nil
}
