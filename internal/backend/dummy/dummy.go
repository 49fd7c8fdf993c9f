// Package dummy is an in-memory adjustment method. Its topology, CRTC
// properties and injected failures are configured up front, which makes it
// the fixture for exercising callers' error handling.
package dummy

import (
	"fmt"
	"sync"
	"syscall"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/edid"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

// CRTCConfig describes one simulated CRTC.
type CRTCConfig struct {
	RedSize   int        `yaml:"red_size,omitempty"`
	GreenSize int        `yaml:"green_size,omitempty"`
	BlueSize  int        `yaml:"blue_size,omitempty"`
	Depth     ramp.Depth `yaml:"depth,omitempty"`

	EDID          string    `yaml:"edid,omitempty"`
	WidthMM       int       `yaml:"width_mm,omitempty"`
	HeightMM      int       `yaml:"height_mm,omitempty"`
	WidthMMEDID   int       `yaml:"width_mm_edid,omitempty"`
	HeightMMEDID  int       `yaml:"height_mm_edid,omitempty"`
	NoGamma       bool      `yaml:"no_gamma,omitempty"`
	SubpixelOrder string    `yaml:"subpixel_order,omitempty"`
	Inactive      bool      `yaml:"inactive,omitempty"`
	ConnectorName string    `yaml:"connector_name,omitempty"`
	ConnectorType string    `yaml:"connector_type,omitempty"`
	EDIDGamma     []float64 `yaml:"edid_gamma,omitempty,flow"`

	// Fail maps information field names to the error name each should fail
	// with, e.g. {"edid": "EDID_NOT_FOUND"}.
	Fail map[string]string `yaml:"fail,omitempty"`
}

// PartitionConfig describes one simulated partition.
type PartitionConfig struct {
	CRTCs []CRTCConfig `yaml:"crtcs"`
}

// SiteConfig describes one simulated site.
type SiteConfig struct {
	Name       string            `yaml:"name"`
	Partitions []PartitionConfig `yaml:"partitions"`
}

// Config is the whole simulated environment.
type Config struct {
	Sites       []SiteConfig `yaml:"sites"`
	DefaultSite string       `yaml:"default_site,omitempty"`

	// Capabilities overrides the method's advertised capabilities.
	Capabilities *method.Capabilities `yaml:"-"`
}

// DefaultConfig is one site with one partition holding two CRTCs.
func DefaultConfig() Config {
	return Config{
		Sites: []SiteConfig{{
			Name: "dummy",
			Partitions: []PartitionConfig{{
				CRTCs: []CRTCConfig{
					{ConnectorName: "DUMMY-0", ConnectorType: "Virtual"},
					{ConnectorName: "DUMMY-1", ConnectorType: "Virtual"},
				},
			}},
		}},
	}
}

// DefaultCapabilities is what the dummy method advertises unless overridden.
func DefaultCapabilities() method.Capabilities {
	return method.Capabilities{
		CRTCInformation:    method.InfoAll,
		DefaultSiteKnown:   true,
		MultipleSites:      true,
		MultiplePartitions: true,
		MultipleCRTCs:      true,
		SiteRestore:        true,
		PartitionRestore:   true,
		CRTCRestore:        true,
	}
}

type crtcState struct {
	cfg      CRTCConfig
	edid     []byte
	subpixel method.SubpixelOrder
	conn     method.ConnectorType
	fail     map[method.InfoField]gammaerr.Code
	current  ramp.Store
	saved    ramp.Store
}

// Method is the dummy adjustment method.
type Method struct {
	caps        method.Capabilities
	defaultSite string
	siteNames   []string

	mu      sync.Mutex
	crtcs   [][][]*crtcState // site, partition, crtc
	open    int
	doubles int
}

var _ backend.Method = (*Method)(nil)

// New validates cfg and builds the simulated environment. Every CRTC starts
// with an identity ramp, which is also what Restore returns to.
func New(cfg Config) (*Method, error) {
	if len(cfg.Sites) == 0 {
		cfg = DefaultConfig()
	}
	m := &Method{caps: DefaultCapabilities()}
	if cfg.Capabilities != nil {
		m.caps = *cfg.Capabilities
	}

	for si, site := range cfg.Sites {
		name := site.Name
		if name == "" {
			name = fmt.Sprintf("dummy-%d", si)
		}
		m.siteNames = append(m.siteNames, name)

		parts := make([][]*crtcState, len(site.Partitions))
		for pi, part := range site.Partitions {
			for ci, cc := range part.CRTCs {
				st, err := newCRTCState(cc)
				if err != nil {
					return nil, fmt.Errorf("dummy site %q partition %d crtc %d: %w", name, pi, ci, err)
				}
				parts[pi] = append(parts[pi], st)
			}
		}
		m.crtcs = append(m.crtcs, parts)
	}

	m.defaultSite = cfg.DefaultSite
	if m.defaultSite == "" {
		m.defaultSite = m.siteNames[0]
	}
	return m, nil
}

func newCRTCState(cc CRTCConfig) (*crtcState, error) {
	if cc.RedSize == 0 {
		cc.RedSize = 256
	}
	if cc.GreenSize == 0 {
		cc.GreenSize = cc.RedSize
	}
	if cc.BlueSize == 0 {
		cc.BlueSize = cc.GreenSize
	}
	if cc.Depth == 0 {
		cc.Depth = ramp.Depth16
	}
	st := &crtcState{cfg: cc, fail: make(map[method.InfoField]gammaerr.Code)}

	if cc.EDID != "" {
		raw, err := edid.Unhex(cc.EDID)
		if err != nil {
			return nil, err
		}
		st.edid = raw
	}
	if cc.SubpixelOrder != "" {
		order, ok := method.ParseSubpixelOrder(cc.SubpixelOrder)
		if !ok {
			return nil, fmt.Errorf("unknown subpixel order %q", cc.SubpixelOrder)
		}
		st.subpixel = order
	}
	if cc.ConnectorType != "" {
		ct, ok := method.ParseConnectorType(cc.ConnectorType)
		if !ok {
			return nil, fmt.Errorf("unknown connector type %q", cc.ConnectorType)
		}
		st.conn = ct
	}
	for field, code := range cc.Fail {
		f, err := method.ParseInfoFields(field)
		if err != nil {
			return nil, err
		}
		c := gammaerr.ValueOf(code)
		if c == gammaerr.OK {
			return nil, fmt.Errorf("unknown error name %q for field %s", code, field)
		}
		for _, single := range f.Fields() {
			st.fail[single] = c
		}
	}

	sizes := ramp.NewSizes(cc.RedSize, cc.GreenSize, cc.BlueSize)
	var err error
	if st.current, err = ramp.NewStore(cc.Depth, sizes); err != nil {
		return nil, err
	}
	if st.saved, err = ramp.NewStore(cc.Depth, sizes); err != nil {
		return nil, err
	}
	ramp.Identity(st.current)
	ramp.Identity(st.saved)
	return st, nil
}

func (m *Method) ID() method.ID                     { return method.Dummy }
func (m *Method) Capabilities() method.Capabilities { return m.caps }
func (m *Method) DefaultSiteVariable() string       { return "" }
func (m *Method) DefaultSite() (string, bool)       { return m.defaultSite, true }
func (m *Method) Suggested() bool                   { return true }

// OpenHandles returns the number of native handles currently open.
func (m *Method) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// DoubleCloses counts Close calls on handles that were already closed.
func (m *Method) DoubleCloses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doubles
}

// Current returns a copy of the ramps currently applied to a CRTC.
func (m *Method) Current(site, partition, crtc int) (ramp.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.crtcs[site][partition][crtc]
	out, err := ramp.NewStore(st.current.Depth(), st.current.Sizes())
	if err != nil {
		return nil, err
	}
	return out, ramp.Convert(out, st.current)
}

func (m *Method) OpenSite(name string) (backend.Site, int, error) {
	if name == "" {
		name = m.defaultSite
	}
	for i, n := range m.siteNames {
		if n == name {
			m.acquire()
			return &site{m: m, index: i}, len(m.crtcs[i]), nil
		}
	}
	return nil, 0, gammaerr.New("open dummy site "+name, gammaerr.NoSuchSite, nil)
}

func (m *Method) acquire() {
	m.mu.Lock()
	m.open++
	m.mu.Unlock()
}

// release closes one handle; closed points at the handle's own flag.
func (m *Method) release(closed *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *closed {
		m.doubles++
		return gammaerr.New("close dummy handle", gammaerr.Code(syscall.EBADF), nil)
	}
	*closed = true
	m.open--
	return nil
}

func (m *Method) restore(states ...*crtcState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range states {
		if err := ramp.Convert(st.current, st.saved); err != nil {
			return err
		}
	}
	return nil
}
