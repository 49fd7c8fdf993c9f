package backend

import (
	"github.com/1broseidon/gammactl/internal/ramp"
)

// FromWire16 copies 16-bit channel values received from a display server or
// kernel into dst, converting to dst's depth.
func FromWire16(dst ramp.Store, red, green, blue []uint16) error {
	r, err := ramp.New[uint16](ramp.NewSizes(len(red), len(green), len(blue)))
	if err != nil {
		return err
	}
	if err := r.Red().SetValues(red); err != nil {
		return err
	}
	if err := r.Green().SetValues(green); err != nil {
		return err
	}
	if err := r.Blue().SetValues(blue); err != nil {
		return err
	}
	return ramp.Convert(dst, r)
}

// ToWire16 returns src as three 16-bit channels ready to send.
func ToWire16(src ramp.Store) (red, green, blue []uint16, err error) {
	r, err := ramp.New[uint16](src.Sizes())
	if err != nil {
		return nil, nil, nil, err
	}
	if err := ramp.Convert(r, src); err != nil {
		return nil, nil, nil, err
	}
	return r.Red().Values(), r.Green().Values(), r.Blue().Values(), nil
}
