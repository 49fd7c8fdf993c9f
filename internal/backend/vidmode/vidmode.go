// Package vidmode adjusts gamma through the XFree86 VidMode extension. Each
// X screen is a partition holding exactly one CRTC.
package vidmode

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xf86vidmode"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
	"github.com/1broseidon/gammactl/internal/x11"
)

const supported = method.InfoMacroRamp | method.InfoGammaSupport

// Method is the X VidMode adjustment method.
type Method struct {
	connect func(display string) (*x11.Connection, error)
}

var _ backend.Method = (*Method)(nil)

// New returns the VidMode method.
func New() *Method {
	return &Method{connect: x11.Connect}
}

func (m *Method) ID() method.ID { return method.XVidMode }

func (m *Method) Capabilities() method.Capabilities {
	_, known := x11.DefaultDisplay()
	return method.Capabilities{
		CRTCInformation:     supported,
		DefaultSiteKnown:    known,
		MultipleSites:       true,
		MultiplePartitions:  true,
		SiteRestore:         true,
		PartitionRestore:    true,
		CRTCRestore:         true,
		IdenticalGammaSizes: true,
		FixedGammaDepth:     true,
		Real:                true,
	}
}

func (m *Method) DefaultSiteVariable() string { return x11.DisplayVariable }
func (m *Method) DefaultSite() (string, bool) { return x11.DefaultDisplay() }
func (m *Method) Suggested() bool {
	_, ok := x11.DefaultDisplay()
	return ok
}

func (m *Method) OpenSite(name string) (backend.Site, int, error) {
	op := "open vidmode site"
	if name != "" {
		op += " " + name
	}
	conn, err := m.connect(name)
	if err != nil {
		return nil, 0, gammaerr.New(op, gammaerr.OpenSiteFailed, err)
	}
	if err := xf86vidmode.Init(conn.Conn()); err != nil {
		conn.Close()
		return nil, 0, gammaerr.New(op, gammaerr.ProtocolVersionQueryFailed, err)
	}
	v, err := xf86vidmode.QueryVersion(conn.Conn()).Reply()
	if err != nil {
		conn.Close()
		return nil, 0, gammaerr.New(op, gammaerr.ProtocolVersionQueryFailed, err)
	}
	if v.MajorVersion < 2 {
		conn.Close()
		return nil, 0, gammaerr.New(op, gammaerr.ProtocolVersionNotSupported,
			fmt.Errorf("server has vidmode %d.%d", v.MajorVersion, v.MinorVersion))
	}
	s := &site{conn: conn, saved: backend.NewSavedRamps()}
	for screen := 0; screen < conn.ScreenCount(); screen++ {
		r, err := s.read(screen)
		s.saved.SavePartition(screen, err)
		if err == nil {
			s.saved.Save(backend.Key{Partition: screen}, r)
		}
	}
	return s, conn.ScreenCount(), nil
}

type site struct {
	conn  *x11.Connection
	saved *backend.SavedRamps

	mu sync.Mutex
}

func (s *site) OpenPartition(index int) (backend.Partition, int, error) {
	op := fmt.Sprintf("open vidmode screen %d", index)
	if err := backend.CheckIndex(op, index, s.conn.ScreenCount(), gammaerr.NoSuchPartition); err != nil {
		return nil, 0, err
	}
	return &partition{site: s, screen: index}, 1, nil
}

func (s *site) read(screen int) (backend.Wire16, error) {
	size, err := xf86vidmode.GetGammaRampSize(s.conn.Conn(), uint16(screen)).Reply()
	if err != nil {
		return backend.Wire16{}, gammaerr.New("query vidmode ramp size", gammaerr.GammaRampsSizeQueryFailed, err)
	}
	reply, err := xf86vidmode.GetGammaRamp(s.conn.Conn(), uint16(screen), size.Size).Reply()
	if err != nil {
		return backend.Wire16{}, gammaerr.New("read vidmode ramps", gammaerr.GammaRampReadFailed, err)
	}
	return backend.Wire16{reply.Red, reply.Green, reply.Blue}, nil
}

func (s *site) write(screen int, r backend.Wire16) error {
	err := xf86vidmode.SetGammaRampChecked(s.conn.Conn(), uint16(screen), uint16(len(r[0])), r[0], r[1], r[2]).Check()
	if err != nil {
		return gammaerr.New(fmt.Sprintf("write vidmode ramps of screen %d", screen), gammaerr.GammaRampWriteFailed, err)
	}
	return nil
}

// restore writes back the ramps saved when the site was opened, screen by
// screen, and stops at the first failure.
func (s *site) restore(scope backend.Scope) error {
	return s.saved.Restore(scope, func(k backend.Key, r backend.Wire16) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.write(k.Partition, r)
	})
}

func (s *site) Restore() error { return s.restore(backend.SiteScope()) }

func (s *site) Close() error {
	s.conn.Close()
	return nil
}

type partition struct {
	site   *site
	screen int
}

func (p *partition) OpenCRTC(index int) (backend.CRTC, error) {
	if err := backend.CheckIndex("open vidmode crtc", index, 1, gammaerr.NoSuchCRTC); err != nil {
		return nil, err
	}
	return &crtc{site: p.site, screen: p.screen}, nil
}

func (p *partition) Restore() error { return p.site.restore(backend.PartitionScope(p.screen)) }
func (p *partition) Close() error   { return nil }

type crtc struct {
	site   *site
	screen int
}

func (c *crtc) Information(fields method.InfoField) (*backend.Information, error) {
	info := backend.NewInformation()
	fields &= supported
	if fields&(method.InfoGammaSize|method.InfoGammaSupport) != 0 {
		reply, err := xf86vidmode.GetGammaRampSize(c.site.conn.Conn(), uint16(c.screen)).Reply()
		if err != nil {
			info.Fail(fields&(method.InfoGammaSize|method.InfoGammaSupport),
				gammaerr.New("query vidmode ramp size", gammaerr.GammaRampsSizeQueryFailed, err))
		} else {
			size := int(reply.Size)
			info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = size, size, size
			info.GammaSupport = size > 1
			info.Succeed(fields & (method.InfoGammaSize | method.InfoGammaSupport))
		}
	}
	if fields.Has(method.InfoGammaDepth) {
		info.GammaDepth = ramp.Depth16
		info.Succeed(method.InfoGammaDepth)
	}
	return info, nil
}

func (c *crtc) ReadRamps(dst ramp.Store) error {
	c.site.mu.Lock()
	defer c.site.mu.Unlock()
	r, err := c.site.read(c.screen)
	if err != nil {
		return err
	}
	return backend.FromWire16(dst, r[0], r[1], r[2])
}

func (c *crtc) WriteRamps(src ramp.Store) error {
	red, green, blue, err := backend.ToWire16(src)
	if err != nil {
		return gammaerr.New("write vidmode ramps", gammaerr.WrongGammaRampSize, err)
	}
	c.site.mu.Lock()
	defer c.site.mu.Unlock()
	return c.site.write(c.screen, backend.Wire16{red, green, blue})
}

func (c *crtc) Restore() error {
	return c.site.restore(backend.CRTCScope(backend.Key{Partition: c.screen}))
}
func (c *crtc) Close() error { return nil }
