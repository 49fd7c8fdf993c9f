package method

import "testing"

func TestFromBits_DecodesEachFlag(t *testing.T) {
	tests := []struct {
		bit  uint
		pick func(Capabilities) bool
	}{
		{0, func(c Capabilities) bool { return c.DefaultSiteKnown }},
		{1, func(c Capabilities) bool { return c.MultipleSites }},
		{2, func(c Capabilities) bool { return c.MultiplePartitions }},
		{3, func(c Capabilities) bool { return c.MultipleCRTCs }},
		{4, func(c Capabilities) bool { return c.PartitionsAreGraphicsCards }},
		{5, func(c Capabilities) bool { return c.SiteRestore }},
		{6, func(c Capabilities) bool { return c.PartitionRestore }},
		{7, func(c Capabilities) bool { return c.CRTCRestore }},
		{8, func(c Capabilities) bool { return c.IdenticalGammaSizes }},
		{9, func(c Capabilities) bool { return c.FixedGammaSize }},
		{10, func(c Capabilities) bool { return c.FixedGammaDepth }},
		{11, func(c Capabilities) bool { return c.Real }},
		{12, func(c Capabilities) bool { return c.Fake }},
	}
	for _, tt := range tests {
		caps := FromBits(0, 1<<tt.bit)
		if !tt.pick(caps) {
			t.Errorf("bit %d did not set its flag", tt.bit)
		}
		if got := caps.Bits(); got != 1<<tt.bit {
			t.Errorf("bit %d round trip = %b", tt.bit, got)
		}
	}
}

func TestFromBits_IgnoresReservedBits(t *testing.T) {
	all := ^uint64(0)
	caps := FromBits(InfoGammaSize, all<<13)
	if caps != (Capabilities{CRTCInformation: InfoGammaSize}) {
		t.Fatalf("reserved bits leaked into capabilities: %+v", caps)
	}
}

func TestInfoField_FieldsAndString(t *testing.T) {
	m := InfoMacroRamp | InfoActive
	fields := m.Fields()
	if len(fields) != 3 || fields[0] != InfoGammaSize || fields[1] != InfoGammaDepth || fields[2] != InfoActive {
		t.Fatalf("Fields() = %v", fields)
	}
	if got := m.String(); got != "gamma_size|gamma_depth|active" {
		t.Fatalf("String() = %q", got)
	}
	if got := InfoField(0).String(); got != "none" {
		t.Fatalf("String() of zero = %q", got)
	}
	if InfoAll != 0x1fff {
		t.Fatalf("InfoAll = %#x", uint32(InfoAll))
	}
}

func TestParseInfoFields(t *testing.T) {
	tests := []struct {
		in   string
		want InfoField
	}{
		{"", 0},
		{"none", 0},
		{"all", InfoAll},
		{"ramp", InfoMacroRamp},
		{"edid,active", InfoEDID | InfoActive},
		{"connector_name|gamma", InfoConnectorName | InfoGamma},
		{"active_all", InfoMacroActive},
	}
	for _, tt := range tests {
		got, err := ParseInfoFields(tt.in)
		if err != nil {
			t.Fatalf("ParseInfoFields(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseInfoFields(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseInfoFields("bogus"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{"randr", XRandR},
		{"DRM", LinuxDRM},
		{"0", Dummy},
		{"5", QuartzCoreGraphics},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("Parse(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"6", "-1", "wayland"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestConnectorAndSubpixelNames(t *testing.T) {
	if got, ok := ParseConnectorType("hdmia"); !ok || got != ConnectorHDMIA {
		t.Fatalf("ParseConnectorType(hdmia) = %v, %v", got, ok)
	}
	if ConnectorLFP.String() != "LFP" || ConnectorType(20).String() != "ConnectorType(20)" {
		t.Fatalf("unexpected connector names")
	}
	for i := 0; i < SubpixelOrderCount; i++ {
		got, ok := ParseSubpixelOrder(SubpixelOrder(i).String())
		if !ok || got != SubpixelOrder(i) {
			t.Errorf("subpixel %d did not round trip", i)
		}
	}
}

func TestConnectorTypeFromName(t *testing.T) {
	tests := map[string]ConnectorType{
		"HDMI-A-1":  ConnectorHDMIA,
		"HDMI1":     ConnectorHDMI,
		"eDP-1":     ConnectorEDP,
		"DP-2":      ConnectorDisplayPort,
		"DVI-I-1":   ConnectorDVII,
		"VGA-0":     ConnectorVGA,
		"Virtual1":  ConnectorVirtual,
		"DUMMY-0":   ConnectorUnknown,
		"Unknown-1": ConnectorUnknown,
	}
	for name, want := range tests {
		got, ok := ConnectorTypeFromName(name)
		if got != want || ok != (want != ConnectorUnknown) {
			t.Errorf("ConnectorTypeFromName(%q) = %v, %v", name, got, ok)
		}
	}
}
