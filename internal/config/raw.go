package config

import "github.com/1broseidon/gammactl/internal/backend/dummy"

// RawConfig is the file as written. Nil fields were not set and keep their
// defaults.
type RawConfig struct {
	Method     *string       `yaml:"method"`
	Site       *string       `yaml:"site"`
	LogLevel   *string       `yaml:"log_level"`
	Display    *string       `yaml:"display"`
	DRMCardDir *string       `yaml:"drm_card_dir"`
	Dummy      *dummy.Config `yaml:"dummy"`
}
