package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/javapro/tweakctl/internal/display"
	"github.com/javapro/tweakctl/internal/store"
)

// Setting keys in the settings namespace.
const (
	KeyDarkMode     = "dark_mode"
	KeyLanguage     = "lang"
	KeyBootApply    = "boot_apply"
	KeyFPSEnabled   = "fps_enabled"
	KeyScale        = "scale_val"
	KeyRed          = "red_val"
	KeyGreen        = "green_val"
	KeyBlue         = "blue_val"
	KeySaturation   = "sat_val"
	KeyResConfirmed = "res_confirmed"
)

type settingKind int

const (
	kindBool settingKind = iota
	kindString
	kindFloat
)

type settingDef struct {
	kind        settingKind
	def         string
	description string
	validate    func(string) error
}

var settingDefs = map[string]settingDef{
	KeyDarkMode:     {kind: kindBool, def: "true", description: "Use the dark palette"},
	KeyLanguage:     {kind: kindString, def: "en", description: "Interface language (en or id)", validate: oneOf("en", "id")},
	KeyBootApply:    {kind: kindBool, def: "false", description: "Apply boot tweaks from `tweakctl boot apply`"},
	KeyFPSEnabled:   {kind: kindBool, def: "false", description: "Show the FPS meter while the monitor runs"},
	KeyScale:        {kind: kindFloat, def: "1", description: "Render resolution scale", validate: floatRange(0.1, 1)},
	KeyRed:          {kind: kindFloat, def: "1000", description: "KCAL red (0-1000)", validate: floatRange(0, display.SliderMax)},
	KeyGreen:        {kind: kindFloat, def: "1000", description: "KCAL green (0-1000)", validate: floatRange(0, display.SliderMax)},
	KeyBlue:         {kind: kindFloat, def: "1000", description: "KCAL blue (0-1000)", validate: floatRange(0, display.SliderMax)},
	KeySaturation:   {kind: kindFloat, def: "1000", description: "Saturation (0-1000)", validate: floatRange(0, display.SliderMax)},
	KeyResConfirmed: {kind: kindBool, def: "false", description: "Resolution change warning acknowledged"},
}

func oneOf(values ...string) func(string) error {
	return func(v string) error {
		for _, ok := range values {
			if v == ok {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(values, ", "))
	}
}

func floatRange(lo, hi float64) func(string) error {
	return func(v string) error {
		f, _ := strconv.ParseFloat(v, 64)
		if f < lo || f > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

// SettingValue is one setting as shown by `settings list`.
type SettingValue struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

// Settings is the typed view of the settings namespace.
type Settings struct {
	kv store.KV
}

// NewSettings wraps kv.
func NewSettings(kv store.KV) *Settings {
	return &Settings{kv: kv}
}

// SettingKeys returns every known key, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingDefs))
	for k := range settingDefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the stored value of key, or its default.
func (s *Settings) Get(key string) (string, error) {
	def, ok := settingDefs[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return store.GetString(s.kv, key, def.def), nil
}

// Set validates value for key and stores it in canonical form.
func (s *Settings) Set(key, value string) error {
	def, ok := settingDefs[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	value = strings.TrimSpace(value)

	switch def.kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", key, value)
		}
		value = strconv.FormatBool(b)
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, value)
		}
		value = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if def.validate != nil {
		if err := def.validate(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return s.kv.Set(key, value)
}

// List returns every setting with its current value.
func (s *Settings) List() []SettingValue {
	out := make([]SettingValue, 0, len(settingDefs))
	for _, k := range SettingKeys() {
		def := settingDefs[k]
		v, _ := s.Get(k)
		out = append(out, SettingValue{Key: k, Value: v, Default: def.def, Description: def.description})
	}
	return out
}

// DarkMode reports whether the dark palette is selected.
func (s *Settings) DarkMode() bool { return store.GetBool(s.kv, KeyDarkMode, true) }

// Language returns the interface language.
func (s *Settings) Language() string { return store.GetString(s.kv, KeyLanguage, "en") }

// BootApply reports whether boot tweaks are enabled.
func (s *Settings) BootApply() bool { return store.GetBool(s.kv, KeyBootApply, false) }

// SetBootApply enables or disables boot tweaks.
func (s *Settings) SetBootApply(v bool) error { return store.SetBool(s.kv, KeyBootApply, v) }

// FPSEnabled reports whether the FPS meter is on.
func (s *Settings) FPSEnabled() bool { return store.GetBool(s.kv, KeyFPSEnabled, false) }

// Scale returns the stored resolution scale.
func (s *Settings) Scale() float64 { return store.GetFloat(s.kv, KeyScale, 1) }

// SetScale stores the resolution scale.
func (s *Settings) SetScale(v float64) error { return store.SetFloat(s.kv, KeyScale, v) }

// ResolutionConfirmed reports whether the resolution warning was acknowledged.
func (s *Settings) ResolutionConfirmed() bool { return store.GetBool(s.kv, KeyResConfirmed, false) }

// SetResolutionConfirmed records that the resolution warning was acknowledged.
func (s *Settings) SetResolutionConfirmed(v bool) error {
	return store.SetBool(s.kv, KeyResConfirmed, v)
}

// Color returns the stored KCAL calibration.
func (s *Settings) Color() display.Color {
	return display.Color{
		Red:        store.GetFloat(s.kv, KeyRed, display.SliderMax),
		Green:      store.GetFloat(s.kv, KeyGreen, display.SliderMax),
		Blue:       store.GetFloat(s.kv, KeyBlue, display.SliderMax),
		Saturation: store.GetFloat(s.kv, KeySaturation, display.SliderMax),
	}
}

// SetColor stores a KCAL calibration.
func (s *Settings) SetColor(c display.Color) error {
	for key, v := range map[string]float64{KeyRed: c.Red, KeyGreen: c.Green, KeyBlue: c.Blue, KeySaturation: c.Saturation} {
		if err := store.SetFloat(s.kv, key, v); err != nil {
			return err
		}
	}
	return nil
}
