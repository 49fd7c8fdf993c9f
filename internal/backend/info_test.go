package backend

import (
	"errors"
	"reflect"
	"testing"

	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
)

func TestInformationStates(t *testing.T) {
	info := NewInformation()
	info.Succeed(method.InfoMacroRamp)
	info.Fail(method.InfoEDID, gammaerr.EDIDNotFound)
	info.Record(method.InfoActive, nil)
	info.Fail(method.InfoGamma, nil)

	if got := info.Attempted(); got != method.InfoMacroRamp|method.InfoEDID|method.InfoActive|method.InfoGamma {
		t.Fatalf("Attempted = %v", got)
	}
	if got := info.Failed(); got != method.InfoEDID|method.InfoGamma {
		t.Fatalf("Failed = %v", got)
	}
	if info.State(method.InfoGammaSize) != FieldOK || info.State(method.InfoWidthMM) != FieldNotRequested {
		t.Fatalf("unexpected states")
	}
	if info.Code(method.InfoEDID) != gammaerr.EDIDNotFound {
		t.Fatalf("Code(edid) = %v", info.Code(method.InfoEDID))
	}
	if !errors.Is(info.Err(method.InfoGamma), gammaerr.StateUnknown) {
		t.Fatalf("nil failure should record STATE_UNKNOWN, got %v", info.Err(method.InfoGamma))
	}
	if info.Code(method.InfoActive) != gammaerr.OK {
		t.Fatalf("Code(active) = %v", info.Code(method.InfoActive))
	}
}

func TestInformationValue(t *testing.T) {
	info := NewInformation()
	info.EDID = []byte{0x00, 0xff}
	info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = 256, 256, 128
	info.GammaDepth = ramp.Depth16
	info.ConnectorType = method.ConnectorHDMI
	info.Succeed(method.InfoEDID | method.InfoMacroRamp | method.InfoConnectorType)
	info.Fail(method.InfoActive, gammaerr.NotConnected)

	tests := []struct {
		field method.InfoField
		want  any
	}{
		{method.InfoEDID, "00ff"},
		{method.InfoGammaSize, []int{256, 256, 128}},
		{method.InfoGammaDepth, "16-bit"},
		{method.InfoConnectorType, method.ConnectorHDMI.String()},
		{method.InfoActive, nil},
		{method.InfoWidthMM, nil},
	}
	for _, tt := range tests {
		if got := info.Value(tt.field); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Value(%v) = %#v, want %#v", tt.field, got, tt.want)
		}
	}
	if info.Sizes() != ramp.NewSizes(256, 256, 128) {
		t.Fatalf("Sizes = %v", info.Sizes())
	}
}
