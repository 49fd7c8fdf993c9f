package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides DefaultConfigPath when set.
const EnvConfigPath = "GAMMACTL_CONFIG"

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is where an effective value came from.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	if s.Kind == SourceFile {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
	return string(s.Kind)
}

// LoadResult is a loaded config plus the position of every key the file set.
// Sources is keyed by dotted path; list items use their index, as in
// "dummy.sites.0.partitions.1.crtcs.0".
type LoadResult struct {
	Config  *Config
	Sources map[string]Source
	File    string // empty when no file existed
}

// DefaultConfigPath is $GAMMACTL_CONFIG or ~/.config/gammactl/config.yaml.
func DefaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gammactl", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load keeping the source of every value for Explain.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path over DefaultConfig. Unknown keys are errors, and a
// ValidationError carries the file position of the offending value.
func LoadFromPath(path string) (*LoadResult, error) {
	res := &LoadResult{Sources: map[string]Source{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		data = nil
	case err != nil:
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	default:
		res.File = path
	}

	var raw RawConfig
	if len(data) > 0 {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
		}
		if err := decodeStrict(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(doc.Content) > 0 {
			recordSources(doc.Content[0], path, "", res.Sources)
		}
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, res.locate(err)
	}
	res.Config = cfg
	return res, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// recordSources stores the position of every mapping value and list item
// under node.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	child := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path := child(node.Content[i].Value)
			out[path] = at(node.Content[i+1])
			recordSources(node.Content[i+1], file, path, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			path := child(strconv.Itoa(i))
			out[path] = at(item)
			recordSources(item, file, path, out)
		}
	}
}

// lookup returns the source of path, or of its closest recorded ancestor.
func (r *LoadResult) lookup(path string) (Source, bool) {
	for path != "" {
		if src, ok := r.Sources[path]; ok {
			return src, true
		}
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			break
		}
		path = path[:i]
	}
	return Source{}, false
}

func (r *LoadResult) locate(err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := r.lookup(verr.Path); ok {
		verr.Source = src
	}
	return err
}
