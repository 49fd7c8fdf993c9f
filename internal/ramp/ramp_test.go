package ramp

import (
	"errors"
	"math"
	"testing"
)

func TestNewSizes_Defaults(t *testing.T) {
	if got := NewSizes(256); got != (Sizes{256, 256, 256}) {
		t.Fatalf("NewSizes(256) = %v", got)
	}
	if got := NewSizes(256, 128); got != (Sizes{256, 128, 128}) {
		t.Fatalf("NewSizes(256, 128) = %v", got)
	}
	if got := NewSizes(256, 128, 64); got != (Sizes{256, 128, 64}) {
		t.Fatalf("NewSizes(256, 128, 64) = %v", got)
	}
}

func TestNewStore_AllDepths(t *testing.T) {
	for _, d := range Depths {
		s, err := NewStore(d, NewSizes(256, 128, 64))
		if err != nil {
			t.Fatalf("NewStore(%v): %v", d, err)
		}
		if s.Depth() != d {
			t.Errorf("NewStore(%v).Depth() = %v", d, s.Depth())
		}
		if s.Sizes() != (Sizes{256, 128, 64}) {
			t.Errorf("NewStore(%v).Sizes() = %v", d, s.Sizes())
		}
	}
}

func TestNewStore_RejectsBadInput(t *testing.T) {
	for _, d := range []Depth{0, 1, 24, -3} {
		if _, err := NewStore(d, NewSizes(4)); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("NewStore(%d) err = %v, want ErrInvalidDepth", int(d), err)
		}
	}
	if _, err := NewStore(Depth16, NewSizes(-1)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("negative size err = %v, want ErrInvalidSize", err)
	}
}

func TestChannel_NegativeIndices(t *testing.T) {
	r, err := New[uint16](NewSizes(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ch := r.Red()
	if err := ch.Set(-1, 7); err != nil {
		t.Fatalf("Set(-1): %v", err)
	}
	if v, _ := ch.At(3); v != 7 {
		t.Fatalf("At(3) = %d, want 7", v)
	}
	if _, err := ch.At(4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("At(4) err = %v", err)
	}
	if _, err := ch.At(-5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("At(-5) err = %v", err)
	}
}

func TestChannel_SetRangeLengthMustMatch(t *testing.T) {
	r, _ := New[uint8](NewSizes(8))
	ch := r.Green()
	before := ch.Values()

	for _, n := range []int{2, 4} {
		vals := make([]uint8, n)
		for i := range vals {
			vals[i] = 9
		}
		if err := ch.SetRange(2, 5, vals); !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("SetRange with %d values err = %v, want ErrLengthMismatch", n, err)
		}
	}
	after := ch.Values()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("failed SetRange mutated index %d", i)
		}
	}

	if err := ch.SetRange(2, 5, []uint8{1, 2, 3}); err != nil {
		t.Fatalf("SetRange exact: %v", err)
	}
	got, err := ch.Range(-6, -3)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Range(-6,-3) = %v", got)
	}
}

func TestChannel_AllIsRestartable(t *testing.T) {
	r, _ := New[float64](NewSizes(3))
	ch := r.Blue()
	_ = ch.SetValues([]float64{0.25, 0.5, 0.75})

	for pass := 0; pass < 2; pass++ {
		sum := 0.0
		count := 0
		for i, v := range ch.All() {
			if i != count {
				t.Fatalf("pass %d: index %d out of order", pass, i)
			}
			sum += v
			count++
		}
		if count != 3 || sum != 1.5 {
			t.Fatalf("pass %d: count=%d sum=%v", pass, count, sum)
		}
	}
}

func TestChannel_MapPositions(t *testing.T) {
	r, _ := New[float64](NewSizes(5))
	var seen []float64
	r.Red().Map(func(pos float64) float64 {
		seen = append(seen, pos)
		return pos
	})
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("position %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestChannel_MapSingleStop(t *testing.T) {
	r, _ := New[uint16](NewSizes(1))
	called := 0
	r.Red().Map(func(pos float64) uint16 {
		called++
		if pos != 0 {
			t.Fatalf("single stop position = %v, want 0", pos)
		}
		return 42
	})
	if v, _ := r.Red().At(0); called != 1 || v != 42 {
		t.Fatalf("single stop Map: called=%d value=%d", called, v)
	}
}

func TestChannel_MapUnitClipsIntegers(t *testing.T) {
	r, _ := New[uint8](NewSizes(3))
	r.Red().MapUnit(func(pos float64) float64 { return pos*2 - 0.5 })
	got := r.Red().Values()
	if got[0] != 0 || got[1] != 128 || got[2] != 255 {
		t.Fatalf("MapUnit clip = %v", got)
	}

	f, _ := New[float32](NewSizes(2))
	f.Red().MapUnit(func(pos float64) float64 { return pos * 2 })
	if v, _ := f.Red().At(1); v != 2 {
		t.Fatalf("float MapUnit should not clip, got %v", v)
	}
}

func TestIdentityAndConvert(t *testing.T) {
	src, _ := New[uint8](NewSizes(256))
	Identity(src)
	if v, _ := src.Red().At(255); v != 255 {
		t.Fatalf("identity top = %d", v)
	}

	dst, _ := New[uint16](NewSizes(256))
	if err := Convert(dst, src); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if v, _ := dst.Red().At(255); v != 0xffff {
		t.Fatalf("widened top = %#x", v)
	}
	if v, _ := dst.Red().At(1); v != 0x0101 {
		t.Fatalf("widened 1 = %#x", v)
	}

	back, _ := New[uint8](NewSizes(256))
	if err := Convert(back, dst); err != nil {
		t.Fatalf("Convert back: %v", err)
	}
	for i := 0; i < 256; i++ {
		a, _ := src.Green().At(i)
		b, _ := back.Green().At(i)
		if a != b {
			t.Fatalf("round trip differs at %d: %d vs %d", i, a, b)
		}
	}

	fl, _ := New[float64](NewSizes(256))
	if err := Convert(fl, dst); err != nil {
		t.Fatalf("Convert to double: %v", err)
	}
	if v, _ := fl.Blue().At(255); v != 1 {
		t.Fatalf("double top = %v", v)
	}

	wide, _ := New[uint64](NewSizes(2))
	Identity(wide)
	if v, _ := wide.Red().At(1); v != math.MaxUint64 {
		t.Fatalf("64-bit identity top = %d", v)
	}

	small, _ := New[uint8](NewSizes(128))
	if err := Convert(small, src); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("Convert size mismatch err = %v", err)
	}
}

func TestScale(t *testing.T) {
	r, _ := New[uint16](NewSizes(3))
	Identity(r)
	Scale(r, 0.5)
	if v, _ := r.Red().At(2); v != 32768 {
		t.Fatalf("scaled top = %d, want 32768", v)
	}
}

func TestParseDepth(t *testing.T) {
	tests := map[string]Depth{"8": Depth8, "16-bit": Depth16, "-1": DepthFloat, "double": DepthDouble}
	for in, want := range tests {
		got, err := ParseDepth(in)
		if err != nil || got != want {
			t.Errorf("ParseDepth(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDepth("12"); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("ParseDepth(12) err = %v", err)
	}
}

func TestDepthText(t *testing.T) {
	for _, d := range Depths {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", d, err)
		}
		var got Depth
		if err := got.UnmarshalText(text); err != nil || got != d {
			t.Fatalf("UnmarshalText(%q) = %v, %v", text, got, err)
		}
	}
	var d Depth
	if err := d.UnmarshalText([]byte("24")); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("UnmarshalText(24) err = %v", err)
	}
}
