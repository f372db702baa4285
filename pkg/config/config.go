// Package config provides TOML configuration loading for detect.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultAPIURL is the collection service used when nothing overrides it.
const DefaultAPIURL = "https://creamycourier.pizzapill.com/ioctl/packagesubmissions"

// Environment variables consulted by ApplyEnv.
const (
	EnvAPIURL       = "CREAMYCOURIER_API_URL"
	EnvSharedSecret = "DETECT_SHARED_SECRET"
)

// Config is the top-level configuration structure.
type Config struct {
	Submit  bool `toml:"-"`
	Verbose bool `toml:"-"`

	APIURL        string `toml:"api_url"`
	SharedSecret  string `toml:"shared_secret"`
	SubmitTimeout string `toml:"submit_timeout"`
	LogLevel      string `toml:"log_level"`

	Probe ProbeConfig `toml:"probe"`

	// Output, when set, receives the assembled payload ("-" is stdout).
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// ProbeConfig holds settings for the individual probes.
type ProbeConfig struct {
	OSReleasePath  string `toml:"os_release_path"`
	PacmanBinary   string `toml:"pacman_binary"`
	PackageTimeout string `toml:"package_timeout"`
}

// ParseSubmitTimeout parses the submit timeout string to a time.Duration.
func (c *Config) ParseSubmitTimeout() (time.Duration, error) {
	if c.SubmitTimeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.SubmitTimeout)
}

// ParsePackageTimeout parses the package manager timeout string to a time.Duration.
func (p *ProbeConfig) ParsePackageTimeout() (time.Duration, error) {
	if p.PackageTimeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(p.PackageTimeout)
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a TOML config file, applying defaults for unset values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadOptional behaves like Load but returns defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overlays environment settings using lookup (os.LookupEnv in
// production). Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup(EnvSharedSecret); ok && v != "" {
		c.SharedSecret = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := c.ParseSubmitTimeout(); err != nil {
		return fmt.Errorf("submit_timeout: %w", err)
	}
	if _, err := c.Probe.ParsePackageTimeout(); err != nil {
		return fmt.Errorf("probe.package_timeout: %w", err)
	}
	switch c.Format {
	case "json", "msgpack":
	default:
		return fmt.Errorf("format must be json or msgpack, got %q", c.Format)
	}
	if c.Submit && c.APIURL == "" {
		return fmt.Errorf("api_url must be set to submit")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.SubmitTimeout == "" {
		cfg.SubmitTimeout = "30s"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	// Probe defaults
	if cfg.Probe.OSReleasePath == "" {
		cfg.Probe.OSReleasePath = "/etc/os-release"
	}
	if cfg.Probe.PacmanBinary == "" {
		cfg.Probe.PacmanBinary = "pacman"
	}
	if cfg.Probe.PackageTimeout == "" {
		cfg.Probe.PackageTimeout = "30s"
	}
}
