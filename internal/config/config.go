// Package config provides tweakctl configuration management.
//
// This package handles reading and writing ~/.tweakctl/config.yaml and
// exposes the typed user settings kept in the settings store namespace.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javapro/tweakctl/internal/store"
)

// EnvHome overrides the configuration directory.
const EnvHome = "TWEAKCTL_HOME"

const (
	dirName        = ".tweakctl"
	configFileName = "config.yaml"
)

// Executor kinds for tweak and profile commands.
const (
	ExecutorOneShot = "oneshot"
	ExecutorSession = "session"
)

// Config represents the config.yaml file.
type Config struct {
	// Store selects where tweak state, profiles, games and settings live.
	Store StoreConfig `yaml:"store"`

	// Shell configures the shells used to run commands.
	Shell ShellConfig `yaml:"shell"`

	// Monitor configures the performance mode monitor.
	Monitor MonitorConfig `yaml:"monitor"`

	// QuickShell configures the interactive shell.
	QuickShell QuickShellConfig `yaml:"quickshell,omitempty"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is yaml, sqlite or memory.
	Backend string `yaml:"backend"`

	// Path is the data directory (yaml) or database file (sqlite).
	// Empty uses a location under the config directory.
	Path string `yaml:"path,omitempty"`
}

// ShellConfig names the shell binaries.
type ShellConfig struct {
	// Privileged is tried first, normally su.
	Privileged string `yaml:"privileged"`

	// Fallback is used by the interactive shell when Privileged cannot be spawned.
	Fallback string `yaml:"fallback,omitempty"`

	// Executor is oneshot (one `su -c` per command) or session (one
	// persistent shell per invocation).
	Executor string `yaml:"executor,omitempty"`
}

// MonitorConfig configures the game and FPS polling loops.
type MonitorConfig struct {
	GameInterval time.Duration `yaml:"game_interval,omitempty"`
	FPSInterval  time.Duration `yaml:"fps_interval,omitempty"`

	// FPSNodes replaces the built-in sysfs node list when set.
	FPSNodes []string `yaml:"fps_nodes,omitempty"`
}

// QuickShellConfig configures the interactive shell.
type QuickShellConfig struct {
	// LogDir receives saved session logs. Empty uses <config dir>/logs.
	LogDir string `yaml:"log_dir,omitempty"`

	// History caps the number of entries kept on screen. 0 keeps everything.
	History int `yaml:"history,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Backend: store.BackendYAML},
		Shell: ShellConfig{
			Privileged: "su",
			Fallback:   "sh",
			Executor:   ExecutorOneShot,
		},
		Monitor: MonitorConfig{
			GameInterval: 3 * time.Second,
			FPSInterval:  time.Second,
		},
		QuickShell: QuickShellConfig{History: 5000},
	}
}

// Dir returns the configuration directory: $TWEAKCTL_HOME, or ~/.tweakctl.
//
// Returns:
//   - string: Absolute path of the directory (it may not exist yet)
func Dir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// DefaultPath returns the default config.yaml path.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}

// Load reads the configuration at path. A missing file yields Default().
// Fields absent from the file keep their default values.
//
// Parameters:
//   - path: Path to config.yaml
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Read, parse or validation failure
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	content := "# tweakctl configuration\n\n" + string(data)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
//
// Returns:
//   - error: Validation error or nil if valid
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case store.BackendYAML, store.BackendSQLite, store.BackendMemory:
	default:
		return fmt.Errorf("store.backend: unknown backend %q (want yaml, sqlite or memory)", c.Store.Backend)
	}
	if c.Shell.Privileged == "" {
		return fmt.Errorf("shell.privileged is required")
	}
	switch c.Shell.Executor {
	case "", ExecutorOneShot, ExecutorSession:
	default:
		return fmt.Errorf("shell.executor: unknown executor %q (want oneshot or session)", c.Shell.Executor)
	}
	if c.Monitor.GameInterval < 0 || c.Monitor.FPSInterval < 0 {
		return fmt.Errorf("monitor intervals must not be negative")
	}
	if c.QuickShell.History < 0 {
		return fmt.Errorf("quickshell.history must not be negative")
	}
	return nil
}

// StorePath returns the resolved store location for the configured backend.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Backend == store.BackendSQLite {
		return filepath.Join(Dir(), "tweakctl.db")
	}
	return filepath.Join(Dir(), "data")
}

// LogDir returns the resolved QuickShell log directory.
func (c *Config) LogDir() string {
	if c.QuickShell.LogDir != "" {
		return c.QuickShell.LogDir
	}
	return filepath.Join(Dir(), "logs")
}

// MonitorPIDFile is where the detached monitor records its PID.
func MonitorPIDFile() string {
	return filepath.Join(Dir(), "monitor.pid")
}

// MonitorLogFile receives the detached monitor's output.
func MonitorLogFile() string {
	return filepath.Join(Dir(), "monitor.log")
}
