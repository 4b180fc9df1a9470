package app

import (
	"context"
	"errors"

	"github.com/javapro/tweakctl/internal/profile"
	"github.com/javapro/tweakctl/internal/tweak"
)

// Preset is a one-step device mode combining performance mode and a profile.
type Preset string

const (
	PresetPerformance Preset = "performance"
	PresetBalance     Preset = "balance"
	PresetPowersave   Preset = "powersave"
)

// ApplyPreset switches performance mode and applies the matching profile.
// Performance turns the mode on; balance and powersave turn it off first.
func (a *App) ApplyPreset(ctx context.Context, p Preset) error {
	var errs []error
	switch p {
	case PresetPerformance:
		errs = append(errs, a.Tweaks.SetPerformanceMode(ctx, true))
		errs = append(errs, a.Profiles.Apply(ctx, profile.Performance))
	case PresetPowersave:
		errs = append(errs, a.Tweaks.SetPerformanceMode(ctx, false))
		errs = append(errs, a.Profiles.Apply(ctx, profile.Powersave))
	default:
		errs = append(errs, a.Tweaks.SetPerformanceMode(ctx, false))
		errs = append(errs, a.Profiles.Apply(ctx, profile.Balance))
	}
	return errors.Join(errs...)
}

// ApplyBoot runs the boot tweaks when the boot_apply setting is on.
// It reports whether anything ran.
func (a *App) ApplyBoot(ctx context.Context) (bool, error) {
	if !a.Settings.BootApply() {
		return false, nil
	}
	return true, tweak.ApplyBoot(ctx, a.Runner)
}
