package dummy

import (
	"errors"
	"syscall"
	"testing"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

func openFirstCRTC(t *testing.T, m *Method) (backend.Site, backend.Partition, backend.CRTC) {
	t.Helper()
	s, parts, err := m.OpenSite("")
	if err != nil {
		t.Fatalf("OpenSite: %v", err)
	}
	if parts != 1 {
		t.Fatalf("partitions = %d, want 1", parts)
	}
	p, crtcs, err := s.OpenPartition(0)
	if err != nil {
		t.Fatalf("OpenPartition: %v", err)
	}
	if crtcs != 2 {
		t.Fatalf("crtcs = %d, want 2", crtcs)
	}
	c, err := p.OpenCRTC(0)
	if err != nil {
		t.Fatalf("OpenCRTC: %v", err)
	}
	return s, p, c
}

func TestDefaultTopology(t *testing.T) {
	m, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if site, ok := m.DefaultSite(); !ok || site != "dummy" {
		t.Fatalf("DefaultSite = %q, %v", site, ok)
	}
	s, p, c := openFirstCRTC(t, m)
	if got := m.OpenHandles(); got != 3 {
		t.Fatalf("OpenHandles = %d, want 3", got)
	}
	for _, closer := range []interface{ Close() error }{c, p, s} {
		if err := closer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
	if got := m.OpenHandles(); got != 0 {
		t.Fatalf("OpenHandles after close = %d", got)
	}
}

func TestIndexBounds(t *testing.T) {
	m, _ := New(Config{})
	if _, _, err := m.OpenSite("nowhere"); !errors.Is(err, gammaerr.NoSuchSite) {
		t.Fatalf("unknown site err = %v", err)
	}
	s, _, _ := m.OpenSite("")
	defer s.Close()
	for _, i := range []int{-1, 1} {
		if _, _, err := s.OpenPartition(i); !errors.Is(err, gammaerr.NoSuchPartition) {
			t.Fatalf("OpenPartition(%d) err = %v", i, err)
		}
	}
	p, n, _ := s.OpenPartition(0)
	defer p.Close()
	if _, err := p.OpenCRTC(n); !errors.Is(err, gammaerr.NoSuchCRTC) {
		t.Fatalf("OpenCRTC(%d) err = %v", n, err)
	}
	if _, err := p.OpenCRTC(n - 1); err != nil {
		t.Fatalf("OpenCRTC(%d): %v", n-1, err)
	}
}

func TestDoubleCloseIsCounted(t *testing.T) {
	m, _ := New(Config{})
	s, _, _ := m.OpenSite("")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); !errors.Is(err, syscall.EBADF) {
		t.Fatalf("second Close err = %v, want EBADF", err)
	}
	if m.DoubleCloses() != 1 {
		t.Fatalf("DoubleCloses = %d", m.DoubleCloses())
	}
}

func TestInformation(t *testing.T) {
	cfg := Config{Sites: []SiteConfig{{
		Name: "panel",
		Partitions: []PartitionConfig{{CRTCs: []CRTCConfig{{
			RedSize:       1024,
			Depth:         ramp.Depth32,
			EDID:          "00ffffffffffff00",
			WidthMM:       310,
			HeightMM:      170,
			SubpixelOrder: "horizontal-rgb",
			ConnectorName: "eDP-1",
			ConnectorType: "eDP",
			EDIDGamma:     []float64{2.2},
			Fail:          map[string]string{"width_mm_edid": "EDID_CHECKSUM_ERROR"},
		}, {}}}},
	}}}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, _, c := openFirstCRTC(t, m)

	info, err := c.Information(method.InfoAll)
	if err != nil {
		t.Fatalf("Information: %v", err)
	}
	if info.Attempted() != method.InfoAll {
		t.Fatalf("Attempted = %v", info.Attempted())
	}
	if info.Failed() != method.InfoWidthMMEDID {
		t.Fatalf("Failed = %v", info.Failed())
	}
	if info.Code(method.InfoWidthMMEDID) != gammaerr.EDIDChecksumError {
		t.Fatalf("width_mm_edid code = %v", info.Code(method.InfoWidthMMEDID))
	}
	if len(info.EDID) != 8 || info.EDID[1] != 0xff {
		t.Fatalf("EDID = %x", info.EDID)
	}
	if info.Sizes() != ramp.NewSizes(1024) || info.GammaDepth != ramp.Depth32 {
		t.Fatalf("ramp info = %v depth %v", info.Sizes(), info.GammaDepth)
	}
	if !info.GammaSupport || !info.Active {
		t.Fatalf("support=%v active=%v", info.GammaSupport, info.Active)
	}
	if info.ConnectorType != method.ConnectorEDP || info.ConnectorName != "eDP-1" {
		t.Fatalf("connector = %v %q", info.ConnectorType, info.ConnectorName)
	}
	if info.SubpixelOrder != method.SubpixelHorizontalRGB {
		t.Fatalf("subpixel = %v", info.SubpixelOrder)
	}
	if info.GammaRed != 2.2 || info.GammaBlue != 2.2 {
		t.Fatalf("gamma = %v/%v/%v", info.GammaRed, info.GammaGreen, info.GammaBlue)
	}
}

func TestInformationOnlyAdvertisedFields(t *testing.T) {
	caps := DefaultCapabilities()
	caps.CRTCInformation = method.InfoMacroRamp
	m, _ := New(Config{Sites: DefaultConfig().Sites, Capabilities: &caps})
	_, _, c := openFirstCRTC(t, m)

	info, err := c.Information(method.InfoGammaSize | method.InfoEDID)
	if err != nil {
		t.Fatalf("Information: %v", err)
	}
	if info.State(method.InfoGammaSize) != backend.FieldOK {
		t.Fatalf("gamma_size state = %v", info.State(method.InfoGammaSize))
	}
	if info.State(method.InfoEDID) != backend.FieldNotRequested {
		t.Fatalf("edid state = %v", info.State(method.InfoEDID))
	}
	if info.State(method.InfoGammaDepth) != backend.FieldNotRequested {
		t.Fatalf("unrequested gamma_depth state = %v", info.State(method.InfoGammaDepth))
	}
}

func TestMissingEDID(t *testing.T) {
	m, _ := New(Config{})
	_, _, c := openFirstCRTC(t, m)
	info, _ := c.Information(method.InfoMacroEDID)
	if info.Failed() != method.InfoMacroEDID {
		t.Fatalf("Failed = %v", info.Failed())
	}
	if info.Code(method.InfoEDID) != gammaerr.EDIDNotFound {
		t.Fatalf("edid code = %v", info.Code(method.InfoEDID))
	}
}

func TestRampsWriteReadRestore(t *testing.T) {
	m, _ := New(Config{})
	s, p, c := openFirstCRTC(t, m)

	r, _ := ramp.New[uint16](ramp.NewSizes(256))
	ramp.Identity(r)
	ramp.Scale(r, 0.5)
	if err := c.WriteRamps(r); err != nil {
		t.Fatalf("WriteRamps: %v", err)
	}

	back, _ := ramp.New[uint16](ramp.NewSizes(256))
	if err := c.ReadRamps(back); err != nil {
		t.Fatalf("ReadRamps: %v", err)
	}
	if v, _ := back.Red().At(255); v != 32768 {
		t.Fatalf("read back top = %d", v)
	}

	for name, restore := range map[string]func() error{"crtc": c.Restore, "partition": p.Restore, "site": s.Restore} {
		if err := c.WriteRamps(r); err != nil {
			t.Fatalf("WriteRamps: %v", err)
		}
		if err := restore(); err != nil {
			t.Fatalf("%s Restore: %v", name, err)
		}
		cur, _ := m.Current(0, 0, 0)
		if v := ramp.UnitValues(cur, ramp.Red)[255]; v != 1 {
			t.Fatalf("%s Restore left top at %v", name, v)
		}
	}
}

func TestNoGamma(t *testing.T) {
	m, _ := New(Config{Sites: []SiteConfig{{Partitions: []PartitionConfig{{CRTCs: []CRTCConfig{{NoGamma: true}, {}}}}}}})
	_, _, c := openFirstCRTC(t, m)
	r, _ := ramp.New[uint16](ramp.NewSizes(256))
	if err := c.ReadRamps(r); !errors.Is(err, gammaerr.GammaRampReadFailed) {
		t.Fatalf("ReadRamps err = %v", err)
	}
	if err := c.WriteRamps(r); !errors.Is(err, gammaerr.GammaRampWriteFailed) {
		t.Fatalf("WriteRamps err = %v", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := map[string]CRTCConfig{
		"edid":      {EDID: "zz"},
		"subpixel":  {SubpixelOrder: "diagonal"},
		"connector": {ConnectorType: "SCART"},
		"fail":      {Fail: map[string]string{"edid": "NOT_A_CODE"}},
		"field":     {Fail: map[string]string{"colour": "EDID_NOT_FOUND"}},
	}
	for name, cc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Config{Sites: []SiteConfig{{Partitions: []PartitionConfig{{CRTCs: []CRTCConfig{cc}}}}}}
			if _, err := New(cfg); err == nil {
				t.Fatalf("New accepted %+v", cc)
			}
		})
	}
}
