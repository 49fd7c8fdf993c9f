package gamma

import (
	"fmt"
	"syscall"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

// CRTC is one CRTC within a partition.
type CRTC struct {
	Partition *Partition
	Index     int

	h handle
}

func (c *CRTC) native() (backend.CRTC, error) {
	if c == nil || c.Partition == nil || c.Partition.Site == nil || c.Partition.Site.arena == nil {
		return nil, ErrClosed
	}
	n, err := c.Partition.Site.arena.lookup(c.h)
	if err != nil {
		return nil, err
	}
	return n.(backend.CRTC), nil
}

func (c *CRTC) op(verb string) string {
	return fmt.Sprintf("%s crtc %d of partition %d", verb, c.Index, c.Partition.Index)
}

func (c *CRTC) caps() method.Capabilities { return c.Partition.Site.caps }

// Restore returns the CRTC to its saved or system ramps.
func (c *CRTC) Restore() error {
	native, err := c.native()
	if err != nil {
		return err
	}
	if !c.caps().CRTCRestore {
		return gammaerr.New(c.op("restore"), gammaerr.Code(syscall.ENOTSUP), nil)
	}
	if err := native.Restore(); err != nil {
		return wrap(c.op("restore"), err, gammaerr.GammaRampWriteFailed)
	}
	c.Partition.Site.log.Debug("crtc restored", "partition", c.Partition.Index, "crtc", c.Index)
	return nil
}

// Information queries the fields selected by fields. Each field is
// attempted and reports its own outcome; fields the method could not
// provide fail with CRTC_INFO_NOT_SUPPORTED.
//
// The returned error is nil unless the query could not be made at all, or
// a requested field the method advertises failed. A non-nil Information is
// returned alongside such an error.
func (c *CRTC) Information(fields method.InfoField) (*Information, error) {
	native, err := c.native()
	if err != nil {
		return nil, err
	}
	fields &= method.InfoAll
	if fields == 0 {
		return backend.NewInformation(), nil
	}

	info, err := native.Information(fields)
	if info == nil {
		info = backend.NewInformation()
	}
	if err != nil {
		err = wrap(c.op("query"), err, gammaerr.StateUnknown)
		for _, f := range fields.Fields() {
			if info.State(f) == backend.FieldNotRequested {
				info.Fail(f, err)
			}
		}
		return info, err
	}

	for _, f := range fields.Fields() {
		if info.State(f) == backend.FieldNotRequested {
			info.Fail(f, gammaerr.CRTCInfoNotSupported)
		}
	}

	failed := info.Failed() & fields & c.caps().CRTCInformation
	if failed == 0 {
		return info, nil
	}
	first := failed.Fields()[0]
	return info, gammaerr.New(c.op("query"), info.Code(first), fmt.Errorf("failed fields: %s", failed))
}

// GetGamma reads the CRTC's current ramps into store.
func (c *CRTC) GetGamma(store ramp.Store) error {
	native, err := c.native()
	if err != nil {
		return err
	}
	if err := c.checkStore(c.op("read ramps of"), native, store); err != nil {
		return err
	}
	return wrap(c.op("read ramps of"), native.ReadRamps(store), gammaerr.GammaRampReadFailed)
}

// SetGamma applies store to the CRTC. The ramps stay in effect until the
// next write or restore, or until the method's session ends.
func (c *CRTC) SetGamma(store ramp.Store) error {
	native, err := c.native()
	if err != nil {
		return err
	}
	if err := c.checkStore(c.op("write ramps of"), native, store); err != nil {
		return err
	}
	if err := native.WriteRamps(store); err != nil {
		return wrap(c.op("write ramps of"), err, gammaerr.GammaRampWriteFailed)
	}
	c.Partition.Site.log.Debug("ramps written", "partition", c.Partition.Index, "crtc", c.Index,
		"sizes", store.Sizes().String(), "depth", store.Depth().String())
	return nil
}

// checkStore rejects a store whose sizes or depth differ from what the CRTC
// reports. Values the method cannot report are left to the backend.
func (c *CRTC) checkStore(op string, native backend.CRTC, store ramp.Store) error {
	sizes := store.Sizes()
	if c.caps().IdenticalGammaSizes && !sizes.Identical() {
		return gammaerr.New(op, gammaerr.MixedGammaRampSize, fmt.Errorf("store sizes %s", sizes))
	}

	want := method.InfoMacroRamp & c.caps().CRTCInformation
	if want == 0 {
		return nil
	}
	info, err := native.Information(want)
	if err != nil {
		return wrap(op, err, gammaerr.GammaRampsSizeQueryFailed)
	}

	if info.State(method.InfoGammaSize) == backend.FieldOK {
		have := info.Sizes()
		if have.Red < 2 || have.Green < 2 || have.Blue < 2 {
			return gammaerr.New(op, gammaerr.SingletonGammaRamp, fmt.Errorf("crtc sizes %s", have))
		}
		if have != sizes {
			return gammaerr.New(op, gammaerr.WrongGammaRampSize, fmt.Errorf("store sizes %s, crtc sizes %s", sizes, have))
		}
	}
	if info.State(method.InfoGammaDepth) == backend.FieldOK && info.GammaDepth != store.Depth() {
		return gammaerr.New(op, gammaerr.WrongGammaRampSize, fmt.Errorf("store depth %s, crtc depth %s", store.Depth(), info.GammaDepth))
	}
	return nil
}

// Close releases the CRTC. Closing twice does nothing.
func (c *CRTC) Close() error {
	if c == nil || c.Partition == nil || c.Partition.Site == nil || c.Partition.Site.arena == nil {
		return nil
	}
	return c.Partition.Site.arena.release(c.h)
}
