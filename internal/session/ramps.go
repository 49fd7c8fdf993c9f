package session

import (
	"fmt"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gamma"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

// NewStoreFor allocates a store matching the sizes and depth c reports. A
// CRTC that cannot report its depth gets 16-bit ramps.
func NewStoreFor(c *gamma.CRTC) (ramp.Store, error) {
	info, err := c.Information(method.InfoMacroRamp)
	if info == nil {
		return nil, err
	}
	if info.State(method.InfoGammaSize) != backend.FieldOK {
		if err == nil {
			err = gammaerr.New(fmt.Sprintf("query gamma size of crtc %d", c.Index), gammaerr.GammaRampsSizeQueryFailed, info.Err(method.InfoGammaSize))
		}
		return nil, err
	}
	depth := ramp.Depth16
	if info.State(method.InfoGammaDepth) == backend.FieldOK {
		depth = info.GammaDepth
	}
	return ramp.NewStore(depth, info.Sizes())
}

// CurrentRamps reads the ramps c applies now.
func CurrentRamps(c *gamma.CRTC) (ramp.Store, error) {
	store, err := NewStoreFor(c)
	if err != nil {
		return nil, err
	}
	if err := c.GetGamma(store); err != nil {
		return nil, err
	}
	return store, nil
}
