//go:build linux

package drm

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"unsafe"

	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
)

func TestIoctlRequests(t *testing.T) {
	tests := []struct {
		name string
		nr   uintptr
		size uintptr
		want uintptr
	}{
		{"GETRESOURCES", nrGetResources, unsafe.Sizeof(cardRes{}), 0xC04064A0},
		{"GETCRTC", nrGetCRTC, unsafe.Sizeof(modeCRTC{}), 0xC06864A1},
		{"GETGAMMA", nrGetGamma, unsafe.Sizeof(crtcLUT{}), 0xC02064A4},
		{"SETGAMMA", nrSetGamma, unsafe.Sizeof(crtcLUT{}), 0xC02064A5},
		{"GETENCODER", nrGetEncoder, unsafe.Sizeof(getEncoder{}), 0xC01464A6},
		{"GETCONNECTOR", nrGetConnector, unsafe.Sizeof(getConnector{}), 0xC05064A7},
		{"GETPROPERTY", nrGetProperty, unsafe.Sizeof(getProperty{}), 0xC04064AA},
		{"GETPROPBLOB", nrGetPropBlob, unsafe.Sizeof(getBlob{}), 0xC01064AC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iowr(tt.nr, tt.size); got != tt.want {
				t.Fatalf("iowr = %#x, want %#x", got, tt.want)
			}
		})
	}
	if got := unsafe.Sizeof(modeInfo{}); got != 68 {
		t.Fatalf("sizeof(modeInfo) = %d, want 68", got)
	}
}

func TestListCards(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"card10", "card2", "renderD128", "card0", "cardX", "controlD64"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := listCards(dir)
	if err != nil {
		t.Fatalf("listCards: %v", err)
	}
	want := []string{filepath.Join(dir, "card0"), filepath.Join(dir, "card2"), filepath.Join(dir, "card10")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("listCards = %v, want %v", got, want)
	}
}

func TestOpenSite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "card0"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	m := New(dir)
	if !m.Suggested() {
		t.Fatalf("Suggested = false with a card present")
	}
	s, n, err := m.OpenSite("")
	if err != nil || n != 1 {
		t.Fatalf("OpenSite = %d, %v", n, err)
	}
	if _, _, err := s.OpenPartition(1); !errors.Is(err, gammaerr.NoSuchPartition) {
		t.Fatalf("OpenPartition(1) err = %v", err)
	}
	// A regular file accepts open but rejects mode-setting ioctls.
	if _, _, err := s.OpenPartition(0); !errors.Is(err, gammaerr.AcquiringModeResourcesFailed) {
		t.Fatalf("OpenPartition(0) err = %v", err)
	}
	if _, _, err := m.OpenSite(filepath.Join(dir, "missing")); !errors.Is(err, gammaerr.NoSuchSite) {
		t.Fatalf("OpenSite(missing) err = %v", err)
	}
}

func TestOpenCardPermissions(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	tests := []struct {
		name string
		mode os.FileMode
		want gammaerr.Code
	}{
		{"group writable", 0o060, gammaerr.DeviceRequireGroup},
		{"restricted", 0o000, gammaerr.DeviceRestricted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "card0")
			if err := os.WriteFile(path, nil, 0o600); err != nil {
				t.Fatal(err)
			}
			if err := os.Chmod(path, tt.mode); err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { _ = os.Remove(path) })
			if _, err := openCard("open", path); !errors.Is(err, tt.want) {
				t.Fatalf("openCard err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := openCard("open", filepath.Join(dir, "card9")); !errors.Is(err, gammaerr.GraphicsCardRemoved) {
		t.Fatalf("openCard(missing) err = %v", err)
	}
}

func TestConnectorName(t *testing.T) {
	ci := &connectorInfo{getConnector: getConnector{ConnectorType: 14, ConnectorTypeID: 1}}
	if got := ci.name(); got != "eDP-1" {
		t.Fatalf("name = %q", got)
	}
	ci.ConnectorType = 99
	if got := ci.name(); got != "Unknown-1" {
		t.Fatalf("name = %q", got)
	}
	if connectorTypes[14] != method.ConnectorEDP || subpixelOrders[6] != method.SubpixelNone {
		t.Fatalf("kernel value tables out of order")
	}
}

func TestCString(t *testing.T) {
	var b [32]byte
	copy(b[:], "EDID")
	if got := cstring(b[:]); got != "EDID" {
		t.Fatalf("cstring = %q", got)
	}
}

func TestRestoreUnopenedCardFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "card0"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	s, n, err := New(dir).OpenSite("")
	if err != nil || n != 1 {
		t.Fatalf("OpenSite = %d, %v", n, err)
	}
	// The card was snapshotted when the site opened, but a regular file
	// has no mode resources, so there is nothing to write back.
	err = s.Restore()
	if !errors.Is(err, gammaerr.GammaRampReadFailed) {
		t.Fatalf("site Restore err = %v, want GAMMA_RAMP_READ_FAILED", err)
	}
	if !errors.Is(err, gammaerr.AcquiringModeResourcesFailed) {
		t.Fatalf("site Restore err = %v does not carry the snapshot failure", err)
	}
}
