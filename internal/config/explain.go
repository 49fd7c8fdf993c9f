package config

import "fmt"

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	method
//	site
//	log_level
//	display
//	drm_card_dir
//	dummy
//	dummy.default_site
//	dummy.sites
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.lookup(path); ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "method":
		return cfg.Method, nil
	case "site":
		return cfg.Site, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "display":
		return cfg.Display, nil
	case "drm_card_dir":
		return cfg.DRMCardDir, nil
	case "dummy":
		return cfg.Dummy, nil
	case "dummy.default_site":
		return cfg.Dummy.DefaultSite, nil
	case "dummy.sites":
		return cfg.Dummy.Sites, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
