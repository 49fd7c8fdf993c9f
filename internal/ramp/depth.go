package ramp

import (
	"fmt"
	"strconv"
	"strings"
)

// Depth tags the numeric representation of every value in a store. Positive
// depths are unsigned integer bit widths; negative depths are floating point.
type Depth int

const (
	Depth8      Depth = 8
	Depth16     Depth = 16
	Depth32     Depth = 32
	Depth64     Depth = 64
	DepthFloat  Depth = -1
	DepthDouble Depth = -2
)

// Depths lists every supported depth.
var Depths = []Depth{Depth8, Depth16, Depth32, Depth64, DepthFloat, DepthDouble}

// Valid reports whether d is one of the six supported depths.
func (d Depth) Valid() bool {
	switch d {
	case Depth8, Depth16, Depth32, Depth64, DepthFloat, DepthDouble:
		return true
	}
	return false
}

// IsFloat reports whether d is a floating point depth.
func (d Depth) IsFloat() bool { return d == DepthFloat || d == DepthDouble }

// Max is the largest value an integer depth can hold. It is zero for floating
// point depths.
func (d Depth) Max() uint64 {
	if d.IsFloat() || !d.Valid() {
		return 0
	}
	return ^uint64(0) >> (64 - uint(d))
}

func (d Depth) String() string {
	switch d {
	case DepthFloat:
		return "float"
	case DepthDouble:
		return "double"
	default:
		if d.Valid() {
			return strconv.Itoa(int(d)) + "-bit"
		}
		return fmt.Sprintf("Depth(%d)", int(d))
	}
}

// ParseDepth accepts "8", "16", "32", "64", "-1", "-2", "float" and "double".
func ParseDepth(s string) (Depth, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "-bit")
	switch s {
	case "float", "single":
		return DepthFloat, nil
	case "double":
		return DepthDouble, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Depth(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDepth, s)
	}
	return Depth(n), nil
}

// Sample is the set of element types a channel can hold, one per Depth.
type Sample interface {
	uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// DepthOf returns the depth tag of T.
func DepthOf[T Sample]() Depth {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Depth8
	case uint16:
		return Depth16
	case uint32:
		return Depth32
	case uint64:
		return Depth64
	case float32:
		return DepthFloat
	default:
		return DepthDouble
	}
}

// MarshalText renders d the way ParseDepth reads it. Invalid depths render
// as their String form, which ParseDepth rejects.
func (d Depth) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Depth) UnmarshalText(text []byte) error {
	v, err := ParseDepth(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
