package dummy

import (
	"fmt"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

type site struct {
	m      *Method
	index  int
	closed bool
}

func (s *site) OpenPartition(index int) (backend.Partition, int, error) {
	parts := s.m.crtcs[s.index]
	if err := backend.CheckIndex("open dummy partition", index, len(parts), gammaerr.NoSuchPartition); err != nil {
		return nil, 0, err
	}
	s.m.acquire()
	return &partition{m: s.m, crtcs: parts[index]}, len(parts[index]), nil
}

func (s *site) Restore() error {
	var all []*crtcState
	for _, part := range s.m.crtcs[s.index] {
		all = append(all, part...)
	}
	return s.m.restore(all...)
}

func (s *site) Close() error { return s.m.release(&s.closed) }

type partition struct {
	m      *Method
	crtcs  []*crtcState
	closed bool
}

func (p *partition) OpenCRTC(index int) (backend.CRTC, error) {
	if err := backend.CheckIndex("open dummy crtc", index, len(p.crtcs), gammaerr.NoSuchCRTC); err != nil {
		return nil, err
	}
	p.m.acquire()
	return &crtc{m: p.m, st: p.crtcs[index]}, nil
}

func (p *partition) Restore() error { return p.m.restore(p.crtcs...) }

func (p *partition) Close() error { return p.m.release(&p.closed) }

type crtc struct {
	m      *Method
	st     *crtcState
	closed bool
}

func (c *crtc) Restore() error { return c.m.restore(c.st) }

func (c *crtc) Close() error { return c.m.release(&c.closed) }

// Information reports every requested field the method advertises. Fields
// outside the advertised set are left unattempted.
func (c *crtc) Information(fields method.InfoField) (*backend.Information, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	st := c.st
	cfg := st.cfg
	info := backend.NewInformation()
	wanted := fields & c.m.caps.CRTCInformation

	for _, f := range wanted.Fields() {
		if code, ok := st.fail[f]; ok {
			info.Fail(f, gammaerr.New("read "+f.String(), code, nil))
			continue
		}
		switch f {
		case method.InfoEDID:
			if st.edid == nil {
				info.Fail(f, gammaerr.EDIDNotFound)
				continue
			}
			info.EDID = append([]byte(nil), st.edid...)
		case method.InfoWidthMM:
			info.WidthMM = cfg.WidthMM
		case method.InfoHeightMM:
			info.HeightMM = cfg.HeightMM
		case method.InfoWidthMMEDID:
			if st.edid == nil {
				info.Fail(f, gammaerr.EDIDNotFound)
				continue
			}
			info.WidthMMEDID = cfg.WidthMMEDID
		case method.InfoHeightMMEDID:
			if st.edid == nil {
				info.Fail(f, gammaerr.EDIDNotFound)
				continue
			}
			info.HeightMMEDID = cfg.HeightMMEDID
		case method.InfoGammaSize:
			sizes := st.current.Sizes()
			info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = sizes.Red, sizes.Green, sizes.Blue
		case method.InfoGammaDepth:
			info.GammaDepth = st.current.Depth()
		case method.InfoGammaSupport:
			info.GammaSupport = !cfg.NoGamma
		case method.InfoSubpixelOrder:
			info.SubpixelOrder = st.subpixel
		case method.InfoActive:
			info.Active = !cfg.Inactive
		case method.InfoConnectorName:
			if cfg.ConnectorName == "" {
				info.Fail(f, gammaerr.ConnectorUnknown)
				continue
			}
			info.ConnectorName = cfg.ConnectorName
		case method.InfoConnectorType:
			info.ConnectorType = st.conn
		case method.InfoGamma:
			if st.edid == nil {
				info.Fail(f, gammaerr.EDIDNotFound)
				continue
			}
			if len(cfg.EDIDGamma) > 0 {
				g := gammaTriple(cfg.EDIDGamma)
				info.GammaRed, info.GammaGreen, info.GammaBlue = g[0], g[1], g[2]
			}
		}
		info.Succeed(f)
	}
	return info, nil
}

// gammaTriple pads a configured gamma list so a single value applies to
// every channel.
func gammaTriple(vals []float64) [3]float64 {
	var g [3]float64
	for i := range g {
		g[i] = vals[min(i, len(vals)-1)]
	}
	return g
}

func (c *crtc) ReadRamps(dst ramp.Store) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.st.cfg.NoGamma {
		return gammaerr.New("read dummy ramps", gammaerr.GammaRampReadFailed, nil)
	}
	if err := ramp.Convert(dst, c.st.current); err != nil {
		return gammaerr.New("read dummy ramps", gammaerr.WrongGammaRampSize, err)
	}
	return nil
}

func (c *crtc) WriteRamps(src ramp.Store) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.st.cfg.NoGamma {
		return gammaerr.New("write dummy ramps", gammaerr.GammaRampWriteFailed, nil)
	}
	if err := ramp.Convert(c.st.current, src); err != nil {
		return gammaerr.New("write dummy ramps", gammaerr.WrongGammaRampSize, fmt.Errorf("store %s: %w", src.Sizes(), err))
	}
	return nil
}
