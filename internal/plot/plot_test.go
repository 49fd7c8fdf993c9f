package plot

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/tiff"

	"github.com/1broseidon/gammactl/internal/ramp"
)

func identityStore(t *testing.T) ramp.Store {
	t.Helper()
	s, err := ramp.NewStore(ramp.Depth16, ramp.NewSizes(64))
	if err != nil {
		t.Fatal(err)
	}
	ramp.Identity(s)
	return s
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"ramps.png", FormatPNG, false},
		{"RAMPS.PNG", FormatPNG, false},
		{"ramps.tif", FormatTIFF, false},
		{"ramps.tiff", FormatTIFF, false},
		{"ramps.jpg", "", true},
		{"ramps", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestRenderDrawsDiagonal(t *testing.T) {
	img := Render(identityStore(t), Options{Width: 200, Height: 200, Title: "crtc 0"})
	if img.Bounds() != image.Rect(0, 0, 200, 200) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	plotArea := image.Rect(margin, margin, 200-margin, 200-margin)

	// Blue is drawn last, so the identity diagonal ends up blue.
	x, y := toPixel(plotArea, 0.5, 0.5)
	if got := img.RGBAAt(x, y); got != channels[ramp.Blue] {
		t.Fatalf("midpoint colour = %v", got)
	}
	x, y = toPixel(plotArea, 0, 0)
	if x != plotArea.Min.X || y != plotArea.Max.Y-1 {
		t.Fatalf("origin at %d,%d", x, y)
	}
}

func TestRenderDefaultsSize(t *testing.T) {
	img := Render(identityStore(t), Options{})
	if img.Bounds().Dx() != 512 || img.Bounds().Dy() != 512 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestRenderNonFiniteSamples(t *testing.T) {
	s, err := ramp.NewStore(ramp.DepthDouble, ramp.NewSizes(4))
	if err != nil {
		t.Fatal(err)
	}
	values := []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)}
	for c := ramp.Red; c <= ramp.Blue; c++ {
		if err := ramp.SetUnitValues(s, c, values); err != nil {
			t.Fatal(err)
		}
	}

	done := make(chan *image.RGBA, 1)
	go func() { done <- Render(s, Options{Width: 100, Height: 100}) }()
	select {
	case img := <-done:
		if img.Bounds() != image.Rect(0, 0, 100, 100) {
			t.Fatalf("bounds = %v", img.Bounds())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Render did not return for a store holding NaN")
	}
}

func TestToPixelClamps(t *testing.T) {
	r := image.Rect(10, 10, 110, 110)
	_, top := toPixel(r, 0, 5)
	_, bottom := toPixel(r, 0, -1)
	if top != r.Min.Y || bottom != r.Max.Y-1 {
		t.Fatalf("clamped y = %d, %d", top, bottom)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	store := identityStore(t)

	pngPath := filepath.Join(dir, "ramps.png")
	if err := WriteFile(pngPath, store, Options{Width: 100, Height: 80}); err != nil {
		t.Fatalf("WriteFile png: %v", err)
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Fatalf("png bounds = %v", img.Bounds())
	}

	tiffPath := filepath.Join(dir, "ramps.tiff")
	if err := WriteFile(tiffPath, store, Options{Width: 100, Height: 80}); err != nil {
		t.Fatalf("WriteFile tiff: %v", err)
	}
	f, err := os.Open(tiffPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := tiff.Decode(f); err != nil {
		t.Fatalf("tiff.Decode: %v", err)
	}

	if err := WriteFile(filepath.Join(dir, "ramps.gif"), store, Options{}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
