package edid

import (
	"bytes"
	"strings"
	"testing"
)

func TestUnhexBehex_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00},
		[]byte("\x01\x23\x45\x67\x89\xab\xcd\xef"),
	}
	for _, in := range inputs {
		got, err := Unhex(Behex(in))
		if err != nil {
			t.Fatalf("Unhex(Behex(%x)): %v", in, err)
		}
		if !bytes.Equal(got, in) {
			t.Fatalf("round trip = %x, want %x", got, in)
		}
		if strings.ToUpper(Behex(in)) != BehexUpper(in) {
			t.Fatalf("case mismatch for %x", in)
		}
	}
}

func TestUnhex_AcceptsBothCases(t *testing.T) {
	lower, err := Unhex("0123456789abcdef")
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	upper, err := Unhex("0123456789ABCDEF")
	if err != nil {
		t.Fatalf("upper: %v", err)
	}
	if !bytes.Equal(lower, upper) {
		t.Fatalf("%x != %x", lower, upper)
	}
	if Behex(lower) != "0123456789abcdef" {
		t.Fatalf("Behex = %q", Behex(lower))
	}
}

func TestUnhex_RejectsMalformed(t *testing.T) {
	for _, in := range []string{"abc", "zz"} {
		if _, err := Unhex(in); err == nil {
			t.Errorf("Unhex(%q) should fail", in)
		}
	}
}
