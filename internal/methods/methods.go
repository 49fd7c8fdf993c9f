// Package methods assembles the registry of compiled-in adjustment methods.
package methods

import (
	"fmt"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/backend/dummy"
	"github.com/1broseidon/gammactl/internal/backend/randr"
	"github.com/1broseidon/gammactl/internal/backend/vidmode"
)

// Options configures the methods that take settings.
type Options struct {
	Dummy      dummy.Config
	DRMCardDir string
}

// DefaultOptions returns the settings used when no config file is present.
func DefaultOptions() Options {
	return Options{Dummy: dummy.DefaultConfig()}
}

// NewRegistry registers every method available on this platform.
func NewRegistry(opts Options) (*backend.Registry, error) {
	d, err := dummy.New(opts.Dummy)
	if err != nil {
		return nil, fmt.Errorf("dummy method: %w", err)
	}
	reg := backend.NewRegistry(d, randr.New(), vidmode.New())
	registerPlatform(reg, opts)
	return reg, nil
}
