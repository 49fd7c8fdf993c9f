// Package method describes adjustment methods: their identifiers, their
// static capabilities and the CRTC information fields they can report.
package method

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies an adjustment method.
type ID int

const (
	Dummy ID = iota
	XRandR
	XVidMode
	LinuxDRM
	W32GDI
	QuartzCoreGraphics

	// Max is the highest method id known to this build; methods up to and
	// including it may still be compiled out.
	Max = QuartzCoreGraphics
	// Count is the number of method ids, including compiled-out ones.
	Count = int(Max) + 1
)

var idNames = [Count]string{
	Dummy:              "dummy",
	XRandR:             "randr",
	XVidMode:           "vidmode",
	LinuxDRM:           "drm",
	W32GDI:             "gdi",
	QuartzCoreGraphics: "quartz",
}

func (id ID) String() string {
	if id < 0 || int(id) >= Count {
		return fmt.Sprintf("method(%d)", int(id))
	}
	return idNames[id]
}

// Parse accepts either a method name ("randr") or its numeric id ("1").
func Parse(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= Count {
			return 0, fmt.Errorf("method id %d out of range [0,%d]", n, Max)
		}
		return ID(n), nil
	}
	for i, name := range idNames {
		if name == s {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown adjustment method %q", s)
}

// Capabilities are the static facts about an adjustment method. The value is
// never mutated after construction.
type Capabilities struct {
	// CRTCInformation holds the fields that may (but can still fail to) be
	// read by the method.
	CRTCInformation InfoField

	DefaultSiteKnown           bool
	MultipleSites              bool
	MultiplePartitions         bool
	MultipleCRTCs              bool
	PartitionsAreGraphicsCards bool
	SiteRestore                bool
	PartitionRestore           bool
	CRTCRestore                bool
	IdenticalGammaSizes        bool
	FixedGammaSize             bool
	FixedGammaDepth            bool
	Real                       bool
	Fake                       bool
}

// Bit positions of the boolean capabilities. Positions above 12 are reserved.
const (
	bitDefaultSiteKnown = iota
	bitMultipleSites
	bitMultiplePartitions
	bitMultipleCRTCs
	bitPartitionsAreGraphicsCards
	bitSiteRestore
	bitPartitionRestore
	bitCRTCRestore
	bitIdenticalGammaSizes
	bitFixedGammaSize
	bitFixedGammaDepth
	bitReal
	bitFake

	boolBits
)

// FromBits decodes capabilities from a field mask and a packed boolean word.
func FromBits(crtcInformation InfoField, booleans uint64) Capabilities {
	bit := func(n uint) bool { return booleans&(1<<n) != 0 }
	return Capabilities{
		CRTCInformation:            crtcInformation,
		DefaultSiteKnown:           bit(bitDefaultSiteKnown),
		MultipleSites:              bit(bitMultipleSites),
		MultiplePartitions:         bit(bitMultiplePartitions),
		MultipleCRTCs:              bit(bitMultipleCRTCs),
		PartitionsAreGraphicsCards: bit(bitPartitionsAreGraphicsCards),
		SiteRestore:                bit(bitSiteRestore),
		PartitionRestore:           bit(bitPartitionRestore),
		CRTCRestore:                bit(bitCRTCRestore),
		IdenticalGammaSizes:        bit(bitIdenticalGammaSizes),
		FixedGammaSize:             bit(bitFixedGammaSize),
		FixedGammaDepth:            bit(bitFixedGammaDepth),
		Real:                       bit(bitReal),
		Fake:                       bit(bitFake),
	}
}

// Bits packs the boolean capabilities back into the FromBits layout.
func (c Capabilities) Bits() uint64 {
	flags := [boolBits]bool{
		c.DefaultSiteKnown,
		c.MultipleSites,
		c.MultiplePartitions,
		c.MultipleCRTCs,
		c.PartitionsAreGraphicsCards,
		c.SiteRestore,
		c.PartitionRestore,
		c.CRTCRestore,
		c.IdenticalGammaSizes,
		c.FixedGammaSize,
		c.FixedGammaDepth,
		c.Real,
		c.Fake,
	}
	var out uint64
	for i, set := range flags {
		if set {
			out |= 1 << uint(i)
		}
	}
	return out
}
