//go:build !linux

package methods

import "github.com/1broseidon/gammactl/internal/backend"

func registerPlatform(*backend.Registry, Options) {}
