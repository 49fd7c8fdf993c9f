package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Method != nil {
		cfg.Method = strings.TrimSpace(*raw.Method)
	}
	if raw.Site != nil {
		cfg.Site = *raw.Site
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.DRMCardDir != nil {
		cfg.DRMCardDir = *raw.DRMCardDir
	}
	if raw.Dummy != nil {
		cfg.Dummy = *raw.Dummy
		if len(cfg.Dummy.Sites) == 0 {
			return nil, &ValidationError{Path: "dummy.sites", Err: fmt.Errorf("at least one site is required")}
		}
	}
	return cfg, nil
}
