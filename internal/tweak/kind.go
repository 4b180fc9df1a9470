// Package tweak maps tweak kinds to the shell commands that switch them and
// reconciles stored preferences with the global performance mode.
package tweak

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned by ParseKey for keys outside the catalogue.
var ErrUnknownKey = errors.New("unknown tweak key")

// Kind is one switchable tweak. The set is closed: every Kind has a
// definition and a command generator.
type Kind int

const (
	PerfGPU Kind = iota
	PerfAnim
	PerfDex2oat
	PerfRAM
	GameFPS
	GameTouch
	GameThermal
	GameOverlay
	BatDoze

	numKinds
)

// Category groups kinds for display.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryGaming      Category = "gaming"
	CategoryBattery     Category = "battery"
)

type definition struct {
	key         string
	title       string
	description string
	category    Category
	performance bool
	command     func(enabled bool) string
}

// definitions is indexed by Kind.
var definitions = [numKinds]definition{
	PerfGPU: {
		key:         "perf_gpu",
		title:       "GPU rendering",
		description: "Force GPU composition instead of the display processor",
		category:    CategoryPerformance,
		performance: true,
		command:     gpuCommand,
	},
	PerfAnim: {
		key:         "perf_anim",
		title:       "Disable animations",
		description: "Set window, transition and animator scales to zero",
		category:    CategoryPerformance,
		performance: true,
		command:     animationCommand,
	},
	PerfDex2oat: {
		key:         "perf_dex2oat",
		title:       "Dex2oat speed",
		description: "Compile apps with the speed filter",
		category:    CategoryPerformance,
		performance: true,
		command:     dex2oatCommand,
	},
	PerfRAM: {
		key:         "perf_ram",
		title:       "RAM optimizer",
		description: "Keep the global low power flag off",
		category:    CategoryPerformance,
		performance: true,
		command:     ramCommand,
	},
	GameFPS: {
		key:         "game_fps",
		title:       "FPS unlock",
		description: "Spoof a high refresh rate flagship identity; not reverted when disabled",
		category:    CategoryGaming,
		command:     fpsUnlockCommand,
	},
	GameTouch: {
		key:         "game_touch",
		title:       "Touch boost",
		description: "Raise pointer speed",
		category:    CategoryGaming,
		performance: true,
		command:     touchCommand,
	},
	GameThermal: {
		key:         "game_thermal",
		title:       "Disable thermal throttling",
		description: "Stop thermal services and the msm thermal driver",
		category:    CategoryGaming,
		performance: true,
		command:     thermalCommand,
	},
	GameOverlay: {
		key:         "game_overlay",
		title:       "Disable HW overlays",
		description: "Tell SurfaceFlinger to stop using hardware overlays",
		category:    CategoryGaming,
		performance: true,
		command:     overlayCommand,
	},
	BatDoze: {
		key:         "bat_doze",
		title:       "Force doze",
		description: "Force the device into deep idle",
		category:    CategoryBattery,
		command:     dozeCommand,
	},
}

// Key returns the persisted key for k.
func (k Kind) Key() string {
	if !k.valid() {
		return ""
	}
	return definitions[k].key
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return definitions[k].key
}

// Title returns a short human-readable name.
func (k Kind) Title() string {
	if !k.valid() {
		return ""
	}
	return definitions[k].title
}

// Description returns a one-line explanation of the tweak.
func (k Kind) Description() string {
	if !k.valid() {
		return ""
	}
	return definitions[k].description
}

// Category returns the display group of k.
func (k Kind) Category() Category {
	if !k.valid() {
		return ""
	}
	return definitions[k].category
}

// InPerformanceSet reports whether performance mode forces k on.
func (k Kind) InPerformanceSet() bool {
	return k.valid() && definitions[k].performance
}

// Command returns the shell command that switches k on or off.
// An empty string means there is nothing to run.
func (k Kind) Command(enabled bool) string {
	if !k.valid() {
		return ""
	}
	return definitions[k].command(enabled)
}

// Reversible reports whether disabling k issues a command.
func (k Kind) Reversible() bool {
	return k.Command(false) != ""
}

func (k Kind) valid() bool {
	return k >= 0 && k < numKinds
}

// ParseKey resolves a persisted key to its Kind.
func ParseKey(key string) (Kind, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for k := Kind(0); k < numKinds; k++ {
		if definitions[k].key == key {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Kinds returns every kind in catalogue order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// PerformanceSet returns the kinds forced on by performance mode.
func PerformanceSet() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if k.InPerformanceSet() {
			out = append(out, k)
		}
	}
	return out
}
