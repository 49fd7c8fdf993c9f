//go:build linux

package methods

import (
	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/backend/drm"
)

func registerPlatform(reg *backend.Registry, opts Options) {
	reg.Register(drm.New(opts.DRMCardDir))
}
