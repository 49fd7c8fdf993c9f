// Package ramp stores gamma ramps: three independently sized colour
// channels sharing one numeric depth.
//
// The depth is a closed set of six tags. Each tag has its own typed store,
// Ramps[uint8] through Ramps[float64]; code that does not care about the
// element type handles them through the Store interface and switches on
// Depth once.
package ramp

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDepth    = errors.New("invalid gamma ramp depth")
	ErrInvalidSize     = errors.New("invalid gamma ramp size")
	ErrIndexOutOfRange = errors.New("gamma ramp index out of range")
	ErrLengthMismatch  = errors.New("gamma ramp value count mismatch")
	ErrSizeMismatch    = errors.New("gamma ramp sizes differ")
)

// Colour selects one of the three channels.
type Colour int

const (
	Red Colour = iota
	Green
	Blue
)

func (c Colour) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("Colour(%d)", int(c))
}

// Sizes holds the stop count of each channel.
type Sizes struct {
	Red, Green, Blue int
}

// NewSizes builds Sizes the way callers usually specify them: green defaults
// to red's size and blue defaults to green's.
func NewSizes(red int, rest ...int) Sizes {
	s := Sizes{Red: red, Green: red, Blue: red}
	if len(rest) > 0 {
		s.Green, s.Blue = rest[0], rest[0]
	}
	if len(rest) > 1 {
		s.Blue = rest[1]
	}
	return s
}

// Identical reports whether all three channels have the same size.
func (s Sizes) Identical() bool { return s.Red == s.Green && s.Green == s.Blue }

func (s Sizes) of(c Colour) int {
	switch c {
	case Green:
		return s.Green
	case Blue:
		return s.Blue
	}
	return s.Red
}

func (s Sizes) validate() error {
	if s.Red < 0 || s.Green < 0 || s.Blue < 0 {
		return fmt.Errorf("%w: %d/%d/%d", ErrInvalidSize, s.Red, s.Green, s.Blue)
	}
	return nil
}

func (s Sizes) String() string { return fmt.Sprintf("%d/%d/%d", s.Red, s.Green, s.Blue) }

// Store is any of the six typed ramp stores.
type Store interface {
	Depth() Depth
	Sizes() Sizes

	channel(c Colour) sampler
}

type sampler interface {
	Len() int
	unitAt(i int) float64
	setUnit(i int, x float64)
	bitsAt(i int) uint64
	setBits(i int, u uint64)
}

// Ramps is a store whose element type is T.
type Ramps[T Sample] struct {
	depth    Depth
	channels [3]Channel[T]
}

var (
	_ Store = (*Ramps[uint8])(nil)
	_ Store = (*Ramps[float64])(nil)
)

// New allocates zeroed ramps of element type T.
func New[T Sample](sizes Sizes) (*Ramps[T], error) {
	if err := sizes.validate(); err != nil {
		return nil, err
	}
	d := DepthOf[T]()
	r := &Ramps[T]{depth: d}
	for c := Red; c <= Blue; c++ {
		r.channels[c] = Channel[T]{values: make([]T, sizes.of(c)), depth: d}
	}
	return r, nil
}

// NewStore allocates a store for a runtime depth tag.
func NewStore(depth Depth, sizes Sizes) (Store, error) {
	switch depth {
	case Depth8:
		return New[uint8](sizes)
	case Depth16:
		return New[uint16](sizes)
	case Depth32:
		return New[uint32](sizes)
	case Depth64:
		return New[uint64](sizes)
	case DepthFloat:
		return New[float32](sizes)
	case DepthDouble:
		return New[float64](sizes)
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, int(depth))
}

func (r *Ramps[T]) Depth() Depth { return r.depth }

func (r *Ramps[T]) Sizes() Sizes {
	return Sizes{Red: r.channels[Red].Len(), Green: r.channels[Green].Len(), Blue: r.channels[Blue].Len()}
}

func (r *Ramps[T]) Red() *Channel[T]   { return &r.channels[Red] }
func (r *Ramps[T]) Green() *Channel[T] { return &r.channels[Green] }
func (r *Ramps[T]) Blue() *Channel[T]  { return &r.channels[Blue] }

// Channel returns the channel for c.
func (r *Ramps[T]) Channel(c Colour) *Channel[T] {
	if c < Red || c > Blue {
		panic(fmt.Sprintf("ramp: invalid colour %d", int(c)))
	}
	return &r.channels[c]
}

func (r *Ramps[T]) channel(c Colour) sampler { return &r.channels[c] }

// Convert copies src into dst, translating between depths. Integer depths are
// widened by bit replication and narrowed by truncation, so 0 and the maximum
// map onto 0 and the maximum. Sizes must match exactly.
func Convert(dst, src Store) error {
	if dst.Sizes() != src.Sizes() {
		return fmt.Errorf("%w: %s into %s", ErrSizeMismatch, src.Sizes(), dst.Sizes())
	}
	from, to := src.Depth(), dst.Depth()
	for c := Red; c <= Blue; c++ {
		in, out := src.channel(c), dst.channel(c)
		for i := 0; i < in.Len(); i++ {
			if from.IsFloat() || to.IsFloat() {
				out.setUnit(i, in.unitAt(i))
				continue
			}
			out.setBits(i, rescaleBits(in.bitsAt(i), uint(from), uint(to)))
		}
	}
	return nil
}

func rescaleBits(v uint64, from, to uint) uint64 {
	if from >= to {
		return v >> (from - to)
	}
	var out uint64
	for shift := int(to) - int(from); shift > -int(from); shift -= int(from) {
		if shift >= 0 {
			out |= v << uint(shift)
		} else {
			out |= v >> uint(-shift)
		}
	}
	return out
}

// Identity fills every channel of s with a linear ramp from 0 to the depth's
// maximum (1.0 for floating point depths).
func Identity(s Store) {
	for c := Red; c <= Blue; c++ {
		ch := s.channel(c)
		n := ch.Len()
		for i := 0; i < n; i++ {
			pos := 0.0
			if n > 1 {
				pos = float64(i) / float64(n-1)
			}
			ch.setUnit(i, pos)
		}
	}
}

// Scale multiplies every value of s by factor, clipping integer depths.
func Scale(s Store, factor float64) {
	for c := Red; c <= Blue; c++ {
		ch := s.channel(c)
		for i := 0; i < ch.Len(); i++ {
			ch.setUnit(i, ch.unitAt(i)*factor)
		}
	}
}

// UnitValues returns channel c of s as values on the unit interval (floating
// point depths are returned unchanged).
func UnitValues(s Store, c Colour) []float64 {
	ch := s.channel(c)
	out := make([]float64, ch.Len())
	for i := range out {
		out[i] = ch.unitAt(i)
	}
	return out
}

// SetUnitValues is the inverse of UnitValues; len(values) must equal the
// channel size.
func SetUnitValues(s Store, c Colour, values []float64) error {
	ch := s.channel(c)
	if len(values) != ch.Len() {
		return fmt.Errorf("%w: channel %s holds %d values, got %d", ErrLengthMismatch, c, ch.Len(), len(values))
	}
	for i, v := range values {
		ch.setUnit(i, v)
	}
	return nil
}
