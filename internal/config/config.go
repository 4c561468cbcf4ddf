// Package config loads bandtint settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/bandtint/internal/device"
)

// Environment variables that override file settings.
const (
	EnvAdapter         = "BANDTINT_ADAPTER"
	EnvDevice          = "BANDTINT_DEVICE"
	EnvHardwareVersion = "BANDTINT_HARDWARE_VERSION"
	EnvPluginDir       = "BANDTINT_PLUGIN_DIR"
)

// Config is the root configuration structure.
type Config struct {
	// Adapter names the device adapter: a built-in name or an executable in PluginDir.
	Adapter string `yaml:"adapter"`

	// Device is the identifier of the band to personalize.
	Device string `yaml:"device"`

	// HardwareVersion of the target band, when known.
	HardwareVersion *int `yaml:"hardware_version,omitempty"`

	// PluginDir holds adapter executables.
	PluginDir string `yaml:"plugin_dir"`

	Simulator SimulatorConfig `yaml:"simulator"`
	ImageGen  ImageGenConfig  `yaml:"imagegen"`
}

// SimulatorConfig configures the built-in simulated band.
type SimulatorConfig struct {
	StatePath       string        `yaml:"state_path"`
	HardwareVersion int           `yaml:"hardware_version"`
	Latency         time.Duration `yaml:"latency"`
}

// ImageGenConfig configures Me Tile generation.
type ImageGenConfig struct {
	Model   string `yaml:"model"`
	Backend string `yaml:"backend"`
}

// Dir returns the bandtint configuration directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bandtint"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(home, ".config", "bandtint"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns a Config with defaults rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Adapter:   device.SimulatorName,
		Device:    "band",
		PluginDir: filepath.Join(dir, "adapters"),
		Simulator: SimulatorConfig{
			StatePath:       filepath.Join(dir, "simulator.json"),
			HardwareVersion: device.DefaultSimulatedVersion,
		},
	}
}

// Load reads path, applies environment overrides and validates the result.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvAdapter); v != "" {
		cfg.Adapter = v
	}
	if v := os.Getenv(EnvDevice); v != "" {
		cfg.Device = v
	}
	if v := os.Getenv(EnvPluginDir); v != "" {
		cfg.PluginDir = v
	}
	if v := os.Getenv(EnvHardwareVersion); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid hardware version %q", EnvHardwareVersion, v)
		}
		cfg.HardwareVersion = &n
	}
	return nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Adapter) == "" {
		return fmt.Errorf("adapter is required")
	}
	if c.HardwareVersion != nil && *c.HardwareVersion < 0 {
		return fmt.Errorf("hardware_version must not be negative")
	}
	if c.Simulator.HardwareVersion < 0 {
		return fmt.Errorf("simulator.hardware_version must not be negative")
	}
	if c.Simulator.Latency < 0 {
		return fmt.Errorf("simulator.latency must not be negative")
	}
	return nil
}

// Save writes the configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
