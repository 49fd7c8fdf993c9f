package method

import (
	"fmt"
	"math/bits"
	"strings"
)

// InfoField is a bitmask selecting CRTC information fields.
type InfoField uint32

const (
	InfoEDID InfoField = 1 << iota
	InfoWidthMM
	InfoHeightMM
	InfoWidthMMEDID
	InfoHeightMMEDID
	InfoGammaSize
	InfoGammaDepth
	InfoGammaSupport
	InfoSubpixelOrder
	InfoActive
	InfoConnectorName
	InfoConnectorType
	InfoGamma

	// InfoCount is the number of defined fields.
	InfoCount = 13
	// InfoAll selects every defined field.
	InfoAll InfoField = 1<<InfoCount - 1
)

// Field groups.
const (
	InfoMacroEDIDViewport = InfoWidthMMEDID | InfoHeightMMEDID
	InfoMacroEDID         = InfoEDID | InfoMacroEDIDViewport | InfoGamma
	InfoMacroViewport     = InfoWidthMM | InfoHeightMM
	InfoMacroRamp         = InfoGammaSize | InfoGammaDepth
	InfoMacroConnector    = InfoConnectorName | InfoConnectorType
	InfoMacroActive       = InfoMacroEDID | InfoMacroViewport | InfoSubpixelOrder | InfoActive
)

var infoNames = [InfoCount]string{
	"edid",
	"width_mm",
	"height_mm",
	"width_mm_edid",
	"height_mm_edid",
	"gamma_size",
	"gamma_depth",
	"gamma_support",
	"subpixel_order",
	"active",
	"connector_name",
	"connector_type",
	"gamma",
}

// Has reports whether every bit of f is set in m.
func (m InfoField) Has(f InfoField) bool { return m&f == f }

// Fields splits m into its single-bit fields in bit order. Reserved bits are
// dropped.
func (m InfoField) Fields() []InfoField {
	m &= InfoAll
	out := make([]InfoField, 0, bits.OnesCount32(uint32(m)))
	for m != 0 {
		low := m & -m
		out = append(out, low)
		m &^= low
	}
	return out
}

func (m InfoField) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for _, f := range m.Fields() {
		names = append(names, infoNames[bits.TrailingZeros32(uint32(f))])
	}
	if extra := m &^ InfoAll; extra != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(extra)))
	}
	return strings.Join(names, "|")
}

// ParseInfoFields parses a "|" or "," separated list of field names. The
// words "all" and "none" are accepted, as are the macro names "edid_viewport",
// "edid_all", "viewport", "ramp", "connector" and "active_all".
func ParseInfoFields(s string) (InfoField, error) {
	var m InfoField
	for _, word := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' || r == ' ' }) {
		switch word = strings.ToLower(word); word {
		case "all":
			m |= InfoAll
		case "none":
		case "edid_viewport":
			m |= InfoMacroEDIDViewport
		case "edid_all":
			m |= InfoMacroEDID
		case "viewport":
			m |= InfoMacroViewport
		case "ramp":
			m |= InfoMacroRamp
		case "connector":
			m |= InfoMacroConnector
		case "active_all":
			m |= InfoMacroActive
		default:
			found := false
			for i, name := range infoNames {
				if name == word {
					m |= 1 << uint(i)
					found = true
					break
				}
			}
			if !found {
				return 0, fmt.Errorf("unknown CRTC information field %q", word)
			}
		}
	}
	return m, nil
}

// ConnectorType is the kind of connector driven by a CRTC.
type ConnectorType int

const (
	ConnectorUnknown ConnectorType = iota
	ConnectorVGA
	ConnectorDVI
	ConnectorDVII
	ConnectorDVID
	ConnectorDVIA
	ConnectorComposite
	ConnectorSVideo
	ConnectorLVDS
	ConnectorComponent
	Connector9PinDIN
	ConnectorDisplayPort
	ConnectorHDMI
	ConnectorHDMIA
	ConnectorHDMIB
	ConnectorTV
	ConnectorEDP
	ConnectorVirtual
	ConnectorDSI
	ConnectorLFP

	ConnectorTypeCount = 20
)

var connectorNames = [ConnectorTypeCount]string{
	"Unknown", "VGA", "DVI", "DVI-I", "DVI-D", "DVI-A", "Composite", "S-Video",
	"LVDS", "Component", "9PinDIN", "DisplayPort", "HDMI", "HDMI-A", "HDMI-B",
	"TV", "eDP", "Virtual", "DSI", "LFP",
}

func (c ConnectorType) String() string {
	if c < 0 || int(c) >= ConnectorTypeCount {
		return fmt.Sprintf("ConnectorType(%d)", int(c))
	}
	return connectorNames[c]
}

// ParseConnectorType matches names case-insensitively and ignores dashes.
func ParseConnectorType(s string) (ConnectorType, bool) {
	norm := func(v string) string { return strings.ToLower(strings.ReplaceAll(v, "-", "")) }
	want := norm(s)
	for i, name := range connectorNames {
		if norm(name) == want {
			return ConnectorType(i), true
		}
	}
	return ConnectorUnknown, false
}

// connectorAliases maps abbreviations display servers use in output names.
var connectorAliases = map[string]ConnectorType{
	"dp":   ConnectorDisplayPort,
	"din":  Connector9PinDIN,
	"lvds": ConnectorLVDS,
}

// ConnectorTypeFromName derives the connector type from an output name such
// as "HDMI-A-1", "eDP1" or "DP-2".
func ConnectorTypeFromName(name string) (ConnectorType, bool) {
	base := strings.TrimRight(name, "0123456789")
	base = strings.TrimRight(base, "-_")
	if base == "" {
		return ConnectorUnknown, false
	}
	if ct, ok := connectorAliases[strings.ToLower(base)]; ok {
		return ct, true
	}
	ct, ok := ParseConnectorType(base)
	if !ok || ct == ConnectorUnknown {
		return ConnectorUnknown, false
	}
	return ct, true
}

// SubpixelOrder is the physical layout of a monitor's subpixels.
type SubpixelOrder int

const (
	SubpixelUnknown SubpixelOrder = iota
	SubpixelNone
	SubpixelHorizontalRGB
	SubpixelHorizontalBGR
	SubpixelVerticalRGB
	SubpixelVerticalBGR

	SubpixelOrderCount = 6
)

var subpixelNames = [SubpixelOrderCount]string{
	"unknown", "none", "horizontal-rgb", "horizontal-bgr", "vertical-rgb", "vertical-bgr",
}

func (s SubpixelOrder) String() string {
	if s < 0 || int(s) >= SubpixelOrderCount {
		return fmt.Sprintf("SubpixelOrder(%d)", int(s))
	}
	return subpixelNames[s]
}

// ParseSubpixelOrder is the inverse of SubpixelOrder.String.
func ParseSubpixelOrder(s string) (SubpixelOrder, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range subpixelNames {
		if name == s {
			return SubpixelOrder(i), true
		}
	}
	return SubpixelUnknown, false
}
