// Package randr adjusts gamma through the X RandR extension. A site is an X
// display, a partition is one of its screens and a CRTC is a RandR CRTC.
package randr

import (
	"fmt"
	"sync"

	xrandr "github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/x11"
)

// Information fields the method reads. The EDID-derived fields need EDID
// parsing and are not offered.
const supported = method.InfoEDID | method.InfoMacroViewport | method.InfoMacroRamp |
	method.InfoGammaSupport | method.InfoSubpixelOrder | method.InfoActive | method.InfoMacroConnector

// Method is the X RandR adjustment method.
type Method struct {
	connect func(display string) (*x11.Connection, error)
}

var _ backend.Method = (*Method)(nil)

// New returns the RandR method.
func New() *Method {
	return &Method{connect: x11.Connect}
}

func (m *Method) ID() method.ID { return method.XRandR }

func (m *Method) Capabilities() method.Capabilities {
	_, known := x11.DefaultDisplay()
	return method.Capabilities{
		CRTCInformation:     supported,
		DefaultSiteKnown:    known,
		MultipleSites:       true,
		MultiplePartitions:  true,
		MultipleCRTCs:       true,
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

// OpenSite connects to display name and checks that the server speaks
// RandR 1.2 or later.
func (m *Method) OpenSite(name string) (backend.Site, int, error) {
	op := "open randr site"
	if name != "" {
		op += " " + name
	}
	conn, err := m.connect(name)
	if err != nil {
		return nil, 0, gammaerr.New(op, gammaerr.OpenSiteFailed, err)
	}
	major, minor, err := conn.InitRandR()
	if err != nil {
		conn.Close()
		return nil, 0, gammaerr.New(op, gammaerr.ProtocolVersionQueryFailed, err)
	}
	if major < 1 || (major == 1 && minor < 2) {
		conn.Close()
		return nil, 0, gammaerr.New(op, gammaerr.ProtocolVersionNotSupported, fmt.Errorf("server has randr %d.%d", major, minor))
	}
	s := &site{conn: conn, saved: backend.NewSavedRamps(), ids: make(map[backend.Key]xrandr.Crtc)}
	for screen := 0; screen < conn.ScreenCount(); screen++ {
		s.snapshot(screen)
	}
	return s, conn.ScreenCount(), nil
}

type site struct {
	conn  *x11.Connection
	saved *backend.SavedRamps

	mu  sync.Mutex
	ids map[backend.Key]xrandr.Crtc
}

func (s *site) crtcs(screen int) ([]x11.CRTC, error) {
	op := fmt.Sprintf("open randr screen %d", screen)
	root, err := s.conn.Root(screen)
	if err != nil {
		return nil, gammaerr.New(op, gammaerr.NullPartition, err)
	}
	crtcs, err := s.conn.CRTCs(root)
	if err != nil {
		return nil, gammaerr.New(op, gammaerr.ListCRTCsFailed, err)
	}
	return crtcs, nil
}

// snapshot remembers the ramps every CRTC of screen has now, so the screen
// can be restored later in the session.
func (s *site) snapshot(screen int) {
	crtcs, err := s.crtcs(screen)
	s.saved.SavePartition(screen, err)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range crtcs {
		k := backend.Key{Partition: screen, CRTC: i}
		s.ids[k] = c.ID
		reply, err := xrandr.GetCrtcGamma(s.conn.Conn(), c.ID).Reply()
		if err != nil {
			s.saved.Miss(k, gammaerr.New(fmt.Sprintf("read randr crtc %d of screen %d", i, screen), gammaerr.GammaRampReadFailed, err))
			continue
		}
		if reply.Size == 0 {
			// Without a gamma ramp there is nothing to restore.
			continue
		}
		s.saved.Save(k, backend.Wire16{reply.Red, reply.Green, reply.Blue})
	}
}

func (s *site) OpenPartition(index int) (backend.Partition, int, error) {
	op := fmt.Sprintf("open randr screen %d", index)
	if err := backend.CheckIndex(op, index, s.conn.ScreenCount(), gammaerr.NoSuchPartition); err != nil {
		return nil, 0, err
	}
	crtcs, err := s.crtcs(index)
	if err != nil {
		return nil, 0, err
	}
	return &partition{site: s, screen: index, crtcs: crtcs}, len(crtcs), nil
}

// restore writes back the ramps saved when the site was opened.
func (s *site) restore(scope backend.Scope) error {
	return s.saved.Restore(scope, func(k backend.Key, r backend.Wire16) error {
		s.mu.Lock()
		id := s.ids[k]
		s.mu.Unlock()
		return xrandr.SetCrtcGammaChecked(s.conn.Conn(), id, uint16(len(r[0])), r[0], r[1], r[2]).Check()
	})
}

func (s *site) Restore() error {
	return s.restore(backend.SiteScope())
}

func (s *site) Close() error {
	s.conn.Close()
	return nil
}

type partition struct {
	site   *site
	screen int
	crtcs  []x11.CRTC
}

func (p *partition) OpenCRTC(index int) (backend.CRTC, error) {
	op := fmt.Sprintf("open randr crtc %d", index)
	if err := backend.CheckIndex(op, index, len(p.crtcs), gammaerr.NoSuchCRTC); err != nil {
		return nil, err
	}
	return &crtc{site: p.site, key: backend.Key{Partition: p.screen, CRTC: index}, info: p.crtcs[index]}, nil
}

func (p *partition) Restore() error {
	return p.site.restore(backend.PartitionScope(p.screen))
}

func (p *partition) Close() error { return nil }
