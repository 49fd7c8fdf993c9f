package randr

import (
	"errors"
	"testing"

	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/x11"
)

func TestCapabilities(t *testing.T) {
	caps := New().Capabilities()
	if !caps.Real || caps.Fake {
		t.Fatalf("real=%v fake=%v", caps.Real, caps.Fake)
	}
	if caps.CRTCInformation&(method.InfoMacroEDIDViewport|method.InfoGamma) != 0 {
		t.Fatalf("advertises EDID-derived fields: %v", caps.CRTCInformation)
	}
	if !caps.CRTCInformation.Has(method.InfoMacroRamp | method.InfoMacroConnector) {
		t.Fatalf("missing ramp or connector fields: %v", caps.CRTCInformation)
	}
}

func TestDefaultSiteFollowsDisplay(t *testing.T) {
	m := New()
	t.Setenv("DISPLAY", "")
	if m.Suggested() || m.Capabilities().DefaultSiteKnown {
		t.Fatalf("suggested without DISPLAY")
	}
	t.Setenv("DISPLAY", ":7")
	if site, ok := m.DefaultSite(); !ok || site != ":7" {
		t.Fatalf("DefaultSite = %q, %v", site, ok)
	}
	if !m.Suggested() || m.DefaultSiteVariable() != "DISPLAY" {
		t.Fatalf("DISPLAY not honoured")
	}
}

func TestOpenSite_ConnectFailure(t *testing.T) {
	m := &Method{connect: func(string) (*x11.Connection, error) {
		return nil, errors.New("no display")
	}}
	if _, _, err := m.OpenSite(":99"); !errors.Is(err, gammaerr.OpenSiteFailed) {
		t.Fatalf("OpenSite err = %v, want OPEN_SITE_FAILED", err)
	}
}

func TestSubpixelOrders(t *testing.T) {
	seen := make(map[method.SubpixelOrder]bool)
	for _, o := range subpixelOrders {
		if seen[o] {
			t.Fatalf("subpixel order %v mapped twice", o)
		}
		seen[o] = true
	}
	if len(seen) != method.SubpixelOrderCount {
		t.Fatalf("mapped %d orders, want %d", len(seen), method.SubpixelOrderCount)
	}
}
