package ramp

import (
	"fmt"
	"iter"
	"math"
)

// Channel is one colour's ramp. Its length is fixed at construction.
type Channel[T Sample] struct {
	values []T
	depth  Depth
}

// Len returns the number of stops in the ramp.
func (c *Channel[T]) Len() int { return len(c.values) }

// index resolves a possibly negative index against the channel length.
func (c *Channel[T]) index(i int) (int, error) {
	n := len(c.values)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d not in [%d,%d)", ErrIndexOutOfRange, i, -n, n)
	}
	return i, nil
}

// bounds resolves a half-open [start,end) range; negative values count from
// the end.
func (c *Channel[T]) bounds(start, end int) (int, int, error) {
	n := len(c.values)
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 || end > n || start > end {
		return 0, 0, fmt.Errorf("%w: range [%d,%d) of %d", ErrIndexOutOfRange, start, end, n)
	}
	return start, end, nil
}

// At returns the value at index i. Negative indices count from the end.
func (c *Channel[T]) At(i int) (T, error) {
	i, err := c.index(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.values[i], nil
}

// Set stores v at index i. Negative indices count from the end.
func (c *Channel[T]) Set(i int, v T) error {
	i, err := c.index(i)
	if err != nil {
		return err
	}
	c.values[i] = v
	return nil
}

// Range returns a copy of the values in [start,end).
func (c *Channel[T]) Range(start, end int) ([]T, error) {
	start, end, err := c.bounds(start, end)
	if err != nil {
		return nil, err
	}
	out := make([]T, end-start)
	copy(out, c.values[start:end])
	return out, nil
}

// SetRange overwrites [start,end) with values. The number of values must
// equal the range length; on mismatch nothing is written.
func (c *Channel[T]) SetRange(start, end int, values []T) error {
	start, end, err := c.bounds(start, end)
	if err != nil {
		return err
	}
	if len(values) != end-start {
		return fmt.Errorf("%w: range holds %d values, got %d", ErrLengthMismatch, end-start, len(values))
	}
	copy(c.values[start:end], values)
	return nil
}

// Values returns a copy of the whole ramp.
func (c *Channel[T]) Values() []T {
	out := make([]T, len(c.values))
	copy(out, c.values)
	return out
}

// SetValues overwrites the whole ramp; len(values) must equal Len.
func (c *Channel[T]) SetValues(values []T) error {
	return c.SetRange(0, len(c.values), values)
}

// All yields every (index, value) pair in order. Each call starts over.
func (c *Channel[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range c.values {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Position returns the normalised position of index i, i/(N-1). A single-stop
// ramp has its only stop at 0.
func (c *Channel[T]) Position(i int) float64 {
	n := len(c.values)
	if n <= 1 {
		return 0
	}
	if i == n-1 {
		return 1
	}
	return float64(i) / float64(n-1)
}

// Map sets every stop to fn(position) where position runs evenly from 0 at
// the first stop to 1 at the last.
func (c *Channel[T]) Map(fn func(position float64) T) {
	for i := range c.values {
		c.values[i] = fn(c.Position(i))
	}
}

// MapUnit is Map for transforms that produce values on the unit interval.
// The result is scaled to the channel's integer range and clipped; floating
// point channels store it unchanged.
func (c *Channel[T]) MapUnit(fn func(position float64) float64) {
	for i := range c.values {
		c.values[i] = fromUnit[T](c.depth, fn(c.Position(i)))
	}
}

func (c *Channel[T]) unitAt(i int) float64 { return toUnit(c.depth, c.values[i]) }

func (c *Channel[T]) setUnit(i int, x float64) { c.values[i] = fromUnit[T](c.depth, x) }

func (c *Channel[T]) bitsAt(i int) uint64 { return uint64(c.values[i]) }

func (c *Channel[T]) setBits(i int, u uint64) { c.values[i] = T(u) }

func toUnit[T Sample](d Depth, v T) float64 {
	if d.IsFloat() {
		return float64(v)
	}
	return float64(v) / float64(d.Max())
}

func fromUnit[T Sample](d Depth, x float64) T {
	if d.IsFloat() {
		return T(x)
	}
	top := d.Max()
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= 1:
		return T(top)
	}
	scaled := math.Round(x * float64(top))
	if scaled >= float64(top) {
		return T(top)
	}
	return T(uint64(scaled))
}
