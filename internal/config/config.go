package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/gammactl/internal/backend/dummy"
	"github.com/1broseidon/gammactl/internal/method"
)

// MethodAuto selects the first method the environment suggests.
const MethodAuto = "auto"

// Config is the effective gammactl configuration.
type Config struct {
	// Method is an adjustment method name or id, or "auto".
	Method string `yaml:"method"`
	// Site overrides the method's default site. Empty means the default.
	Site string `yaml:"site,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Display is the site of the X methods when Site is empty.
	Display string `yaml:"display,omitempty"`
	// DRMCardDir is where card nodes are looked up (default /dev/dri).
	DRMCardDir string `yaml:"drm_card_dir,omitempty"`
	// Dummy describes the simulated topology of the dummy method.
	Dummy dummy.Config `yaml:"dummy"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Method:   MethodAuto,
		LogLevel: "info",
		Dummy:    dummy.DefaultConfig(),
	}
}

// MethodID resolves Method. auto is reported through the second result.
func (c *Config) MethodID() (method.ID, bool, error) {
	if strings.EqualFold(strings.TrimSpace(c.Method), MethodAuto) || strings.TrimSpace(c.Method) == "" {
		return 0, true, nil
	}
	id, err := method.Parse(c.Method)
	if err != nil {
		return 0, false, err
	}
	return id, false, nil
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if _, _, err := c.MethodID(); err != nil {
		return &ValidationError{Path: "method", Err: err}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("must be one of debug, info, warn, error (got %q)", c.LogLevel)}
	}

	if c.DRMCardDir != "" && !filepath.IsAbs(c.DRMCardDir) {
		return &ValidationError{Path: "drm_card_dir", Err: fmt.Errorf("must be an absolute path (got %q)", c.DRMCardDir)}
	}

	for si, site := range c.Dummy.Sites {
		for pi, part := range site.Partitions {
			for ci, crtc := range part.CRTCs {
				path := fmt.Sprintf("dummy.sites.%d.partitions.%d.crtcs.%d", si, pi, ci)
				if crtc.RedSize < 0 || crtc.GreenSize < 0 || crtc.BlueSize < 0 {
					return &ValidationError{Path: path, Err: fmt.Errorf("gamma ramp sizes must be >= 0")}
				}
			}
		}
	}
	if _, err := dummy.New(c.Dummy); err != nil {
		return &ValidationError{Path: "dummy", Err: err}
	}
	return nil
}

// Save writes the configuration to path, or to DefaultConfigPath when path
// is empty.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
