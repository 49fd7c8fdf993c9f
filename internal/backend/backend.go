// Package backend defines the contract every adjustment method implements
// and the registry the object model uses to find them.
//
// A method hands out native resources in three levels: a Site, its
// Partitions and their CRTCs. Each native value owns its handle and is
// released by Close exactly once; the object model in package gamma takes
// care of pairing every successful open with one Close.
package backend

import (
	"fmt"

	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

// Method is one adjustment method.
type Method interface {
	ID() method.ID
	Capabilities() method.Capabilities

	// DefaultSiteVariable names the environment variable that selects the
	// default site, or "" when the method has no sites.
	DefaultSiteVariable() string
	// DefaultSite returns the site used when none is named.
	DefaultSite() (string, bool)
	// Suggested reports whether the environment suggests the method will
	// work, e.g. a display server is advertised.
	Suggested() bool

	// OpenSite connects to a site. An empty name selects the default site.
	// It returns the number of partitions in the site.
	OpenSite(name string) (Site, int, error)
}

// Site is a method's native connection to one display environment.
type Site interface {
	// OpenPartition opens partition index and returns its CRTC count.
	OpenPartition(index int) (Partition, int, error)
	Restore() error
	Close() error
}

// Partition is a native group of CRTCs, such as an X screen or a graphics
// card.
type Partition interface {
	OpenCRTC(index int) (CRTC, error)
	Restore() error
	Close() error
}

// CRTC is a native handle on one CRTC.
type CRTC interface {
	Restore() error

	// Information fills the requested fields. Fields the method cannot
	// provide may be left unattempted; the caller marks them unsupported.
	// The error is reserved for failures that prevented any query at all.
	Information(fields method.InfoField) (*Information, error)

	// ReadRamps and WriteRamps exchange a store whose depth and sizes have
	// already been checked against the CRTC's own.
	ReadRamps(dst ramp.Store) error
	WriteRamps(src ramp.Store) error

	Close() error
}

// CheckIndex validates a child index against its parent's count.
func CheckIndex(op string, index, count int, code gammaerr.Code) error {
	if index < 0 || index >= count {
		return gammaerr.New(op, code, fmt.Errorf("index %d not in [0,%d)", index, count))
	}
	return nil
}
