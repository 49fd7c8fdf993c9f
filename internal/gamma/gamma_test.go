package gamma

import (
	"errors"
	"syscall"
	"testing"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/backend/dummy"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

func newDummy(t *testing.T, cfg dummy.Config) (*dummy.Method, *backend.Registry) {
	t.Helper()
	m, err := dummy.New(cfg)
	if err != nil {
		t.Fatalf("dummy.New: %v", err)
	}
	return m, backend.NewRegistry(m)
}

func openCRTC(t *testing.T, reg *backend.Registry) (*Site, *Partition, *CRTC) {
	t.Helper()
	s, err := OpenSite(reg, method.Dummy, "")
	if err != nil {
		t.Fatalf("OpenSite: %v", err)
	}
	p, err := s.OpenPartition(0)
	if err != nil {
		t.Fatalf("OpenPartition: %v", err)
	}
	c, err := p.OpenCRTC(0)
	if err != nil {
		t.Fatalf("OpenCRTC: %v", err)
	}
	return s, p, c
}

func TestOpenSite_Failures(t *testing.T) {
	m, reg := newDummy(t, dummy.Config{})
	if _, err := OpenSite(reg, method.XRandR, ""); !errors.Is(err, gammaerr.NoSuchAdjustmentMethod) {
		t.Fatalf("missing method err = %v", err)
	}
	s, err := OpenSite(reg, method.Dummy, "elsewhere")
	if !errors.Is(err, gammaerr.NoSuchSite) {
		t.Fatalf("unknown site err = %v", err)
	}
	if s != nil {
		t.Fatalf("failed OpenSite returned a site")
	}
	if m.OpenHandles() != 0 {
		t.Fatalf("failed OpenSite leaked %d handles", m.OpenHandles())
	}
}

func TestCounts(t *testing.T) {
	_, reg := newDummy(t, dummy.Config{})
	s, p, _ := openCRTC(t, reg)
	defer s.Close()
	if s.PartitionsAvailable() != 1 || p.CRTCsAvailable() != 2 {
		t.Fatalf("counts = %d partitions, %d crtcs", s.PartitionsAvailable(), p.CRTCsAvailable())
	}
	for _, i := range []int{-1, 1} {
		if _, err := s.OpenPartition(i); !errors.Is(err, gammaerr.NoSuchPartition) {
			t.Fatalf("OpenPartition(%d) err = %v", i, err)
		}
	}
	for _, i := range []int{-1, 2} {
		if _, err := p.OpenCRTC(i); !errors.Is(err, gammaerr.NoSuchCRTC) {
			t.Fatalf("OpenCRTC(%d) err = %v", i, err)
		}
	}
}

func TestClose_CascadesOnce(t *testing.T) {
	m, reg := newDummy(t, dummy.Config{})
	s, p, c := openCRTC(t, reg)
	if s.OpenHandles() != 3 || m.OpenHandles() != 3 {
		t.Fatalf("open handles = %d/%d, want 3", s.OpenHandles(), m.OpenHandles())
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.OpenHandles() != 0 {
		t.Fatalf("site close left %d native handles", m.OpenHandles())
	}

	for name, closeFn := range map[string]func() error{"crtc": c.Close, "partition": p.Close, "site": s.Close} {
		if err := closeFn(); err != nil {
			t.Fatalf("second %s Close: %v", name, err)
		}
	}
	if m.DoubleCloses() != 0 {
		t.Fatalf("native handles released %d extra times", m.DoubleCloses())
	}

	if err := c.Restore(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Restore after close err = %v", err)
	}
	if _, err := c.Information(method.InfoAll); !errors.Is(err, ErrClosed) {
		t.Fatalf("Information after close err = %v", err)
	}
	if _, err := p.OpenCRTC(0); !errors.Is(err, ErrClosed) {
		t.Fatalf("OpenCRTC after close err = %v", err)
	}
	if _, err := s.OpenPartition(0); !errors.Is(err, ErrClosed) {
		t.Fatalf("OpenPartition after close err = %v", err)
	}
}

func TestClose_NeverOpened(t *testing.T) {
	var nilSite *Site
	if err := nilSite.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
	if err := (&Site{}).Close(); err != nil {
		t.Fatalf("zero Close: %v", err)
	}
	if err := (&Site{}).Restore(); !errors.Is(err, ErrClosed) {
		t.Fatalf("zero Restore err = %v", err)
	}
	if err := (&CRTC{}).Close(); err != nil {
		t.Fatalf("zero CRTC Close: %v", err)
	}
}

func TestClose_PartitionLeavesSiteOpen(t *testing.T) {
	m, reg := newDummy(t, dummy.Config{})
	s, p, c := openCRTC(t, reg)
	defer s.Close()

	if err := p.Close(); err != nil {
		t.Fatalf("partition Close: %v", err)
	}
	if m.OpenHandles() != 1 {
		t.Fatalf("open native handles = %d, want 1", m.OpenHandles())
	}
	if _, err := c.Information(method.InfoGammaSize); !errors.Is(err, ErrClosed) {
		t.Fatalf("crtc survived its partition: %v", err)
	}
	if _, err := s.OpenPartition(0); err != nil {
		t.Fatalf("site unusable after partition close: %v", err)
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	_, reg := newDummy(t, dummy.Config{})
	s, p, c := openCRTC(t, reg)
	defer s.Close()

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	fresh, err := p.OpenCRTC(1)
	if err != nil {
		t.Fatalf("OpenCRTC: %v", err)
	}
	if fresh.h.index != c.h.index {
		t.Fatalf("slot not reused: %d vs %d", fresh.h.index, c.h.index)
	}
	if _, err := c.Information(method.InfoGammaSize); !errors.Is(err, ErrClosed) {
		t.Fatalf("stale handle reached the new crtc: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("stale Close: %v", err)
	}
	if _, err := fresh.Information(method.InfoGammaSize); err != nil {
		t.Fatalf("stale Close released the new crtc: %v", err)
	}
}

func TestPartitionsAndCRTCs(t *testing.T) {
	m, reg := newDummy(t, dummy.Config{Sites: []dummy.SiteConfig{{
		Name: "multi",
		Partitions: []dummy.PartitionConfig{
			{CRTCs: []dummy.CRTCConfig{{}, {}, {}}},
			{CRTCs: []dummy.CRTCConfig{{}}},
		},
	}}})
	s, err := OpenSite(reg, method.Dummy, "multi")
	if err != nil {
		t.Fatalf("OpenSite: %v", err)
	}
	defer s.Close()

	parts, err := s.Partitions()
	if err != nil || len(parts) != 2 {
		t.Fatalf("Partitions = %d, %v", len(parts), err)
	}
	total := 0
	for _, p := range parts {
		crtcs, err := p.CRTCs()
		if err != nil {
			t.Fatalf("CRTCs: %v", err)
		}
		total += len(crtcs)
	}
	if total != 4 || m.OpenHandles() != 7 {
		t.Fatalf("crtcs = %d, native handles = %d", total, m.OpenHandles())
	}
}

func TestInformation_EmptyMask(t *testing.T) {
	_, reg := newDummy(t, dummy.Config{})
	s, _, c := openCRTC(t, reg)
	defer s.Close()

	info, err := c.Information(0)
	if err != nil {
		t.Fatalf("Information(0): %v", err)
	}
	if info.Attempted() != 0 {
		t.Fatalf("Information(0) attempted %v", info.Attempted())
	}
	for _, f := range method.InfoAll.Fields() {
		if info.State(f) != backend.FieldNotRequested {
			t.Fatalf("field %s state = %v", f, info.State(f))
		}
	}
}

func TestInformation_UnadvertisedFieldsReportNotSupported(t *testing.T) {
	caps := dummy.DefaultCapabilities()
	caps.CRTCInformation = method.InfoMacroRamp
	_, reg := newDummy(t, dummy.Config{Sites: dummy.DefaultConfig().Sites, Capabilities: &caps})
	s, _, c := openCRTC(t, reg)
	defer s.Close()

	info, err := c.Information(method.InfoMacroRamp | method.InfoEDID | method.InfoActive)
	if err != nil {
		t.Fatalf("Information: %v", err)
	}
	if info.State(method.InfoGammaSize) != backend.FieldOK || info.State(method.InfoGammaDepth) != backend.FieldOK {
		t.Fatalf("ramp fields not read")
	}
	for _, f := range []method.InfoField{method.InfoEDID, method.InfoActive} {
		if info.Code(f) != gammaerr.CRTCInfoNotSupported {
			t.Fatalf("%s code = %v", f, info.Code(f))
		}
	}
	if info.State(method.InfoConnectorName) != backend.FieldNotRequested {
		t.Fatalf("unrequested field attempted")
	}
}

func TestInformation_AdvertisedFailureIsReported(t *testing.T) {
	_, reg := newDummy(t, dummy.Config{})
	s, _, c := openCRTC(t, reg)
	defer s.Close()

	info, err := c.Information(method.InfoEDID | method.InfoConnectorName)
	if !errors.Is(err, gammaerr.EDIDNotFound) {
		t.Fatalf("err = %v, want EDID_NOT_FOUND", err)
	}
	if info == nil || info.State(method.InfoConnectorName) != backend.FieldOK || info.ConnectorName != "DUMMY-0" {
		t.Fatalf("successful field lost alongside the failure: %+v", info)
	}
}

func TestGamma_RoundTrip(t *testing.T) {
	m, reg := newDummy(t, dummy.Config{})
	s, _, c := openCRTC(t, reg)
	defer s.Close()

	r, _ := ramp.New[uint16](ramp.NewSizes(256))
	r.Red().MapUnit(func(pos float64) float64 { return pos * pos })
	r.Green().MapUnit(func(pos float64) float64 { return pos })
	r.Blue().MapUnit(func(pos float64) float64 { return 1 - pos })
	if err := c.SetGamma(r); err != nil {
		t.Fatalf("SetGamma: %v", err)
	}

	got, _ := ramp.New[uint16](ramp.NewSizes(256))
	if err := c.GetGamma(got); err != nil {
		t.Fatalf("GetGamma: %v", err)
	}
	if v, _ := got.Blue().At(0); v != 0xffff {
		t.Fatalf("blue[0] = %#x", v)
	}
	if v, _ := got.Red().At(128); v != r.Red().Values()[128] {
		t.Fatalf("red[128] = %d", v)
	}

	if err := c.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	cur, _ := m.Current(0, 0, 0)
	if v := ramp.UnitValues(cur, ramp.Blue)[0]; v != 0 {
		t.Fatalf("restore left blue[0] at %v", v)
	}
}

func TestGamma_RejectsMismatchedStores(t *testing.T) {
	caps := dummy.DefaultCapabilities()
	caps.IdenticalGammaSizes = true
	m, reg := newDummy(t, dummy.Config{Sites: dummy.DefaultConfig().Sites, Capabilities: &caps})
	s, _, c := openCRTC(t, reg)
	defer s.Close()
	before, _ := m.Current(0, 0, 0)

	wrongSize, _ := ramp.New[uint16](ramp.NewSizes(255))
	wrongDepth, _ := ramp.New[uint8](ramp.NewSizes(256))
	mixed, _ := ramp.New[uint16](ramp.NewSizes(256, 128))
	ramp.Scale(wrongSize, 0)
	ramp.Scale(wrongDepth, 0)

	tests := []struct {
		name  string
		store ramp.Store
		code  gammaerr.Code
	}{
		{"size", wrongSize, gammaerr.WrongGammaRampSize},
		{"depth", wrongDepth, gammaerr.WrongGammaRampSize},
		{"mixed", mixed, gammaerr.MixedGammaRampSize},
	}
	for _, tt := range tests {
		if err := c.SetGamma(tt.store); !errors.Is(err, tt.code) {
			t.Errorf("SetGamma(%s) err = %v, want %v", tt.name, err, tt.code)
		}
		if err := c.GetGamma(tt.store); !errors.Is(err, tt.code) {
			t.Errorf("GetGamma(%s) err = %v, want %v", tt.name, err, tt.code)
		}
	}

	after, _ := m.Current(0, 0, 0)
	if ramp.UnitValues(after, ramp.Red)[255] != ramp.UnitValues(before, ramp.Red)[255] {
		t.Fatalf("rejected store reached the crtc")
	}
}

func TestRestore_RequiresCapability(t *testing.T) {
	caps := dummy.DefaultCapabilities()
	caps.SiteRestore = false
	caps.PartitionRestore = false
	caps.CRTCRestore = false
	_, reg := newDummy(t, dummy.Config{Sites: dummy.DefaultConfig().Sites, Capabilities: &caps})
	s, p, c := openCRTC(t, reg)
	defer s.Close()

	for name, restore := range map[string]func() error{"site": s.Restore, "partition": p.Restore, "crtc": c.Restore} {
		err := restore()
		if !errors.Is(err, syscall.ENOTSUP) {
			t.Errorf("%s Restore err = %v, want ENOTSUP", name, err)
		}
		if cl := gammaerr.Classify(gammaerr.Of(err, gammaerr.OK)); cl.Kind != gammaerr.KindErrno {
			t.Errorf("%s Restore classified as %v", name, cl.Kind)
		}
	}
}
