// Package plot renders gamma ramps as a line chart image.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"github.com/1broseidon/gammactl/internal/ramp"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks the encoding from path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported plot format %q (want .png or .tiff)", filepath.Ext(path))
	}
}

// Options controls Render.
type Options struct {
	Width  int
	Height int
	Title  string
}

const margin = 24

var (
	background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	axis       = color.RGBA{0x80, 0x80, 0x80, 0xff}
	grid       = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	text       = color.RGBA{0x20, 0x20, 0x20, 0xff}
	channels   = [3]color.RGBA{
		ramp.Red:   {0xd0, 0x20, 0x20, 0xff},
		ramp.Green: {0x20, 0xa0, 0x20, 0xff},
		ramp.Blue:  {0x20, 0x40, 0xd0, 0xff},
	}
)

// Render draws the three channels of store on a unit square. The x axis is
// the stop position, the y axis the value on [0, 1].
func Render(store ramp.Store, opts Options) *image.RGBA {
	if opts.Width <= 2*margin {
		opts.Width = 512
	}
	if opts.Height <= 2*margin {
		opts.Height = 512
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	plot := image.Rect(margin, margin, opts.Width-margin, opts.Height-margin)
	for i := 1; i < 4; i++ {
		x := plot.Min.X + plot.Dx()*i/4
		y := plot.Min.Y + plot.Dy()*i/4
		line(img, x, plot.Min.Y, x, plot.Max.Y, grid)
		line(img, plot.Min.X, y, plot.Max.X, y, grid)
	}
	line(img, plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y, axis)
	line(img, plot.Min.X, plot.Min.Y, plot.Min.X, plot.Max.Y, axis)

	for c := ramp.Red; c <= ramp.Blue; c++ {
		values := ramp.UnitValues(store, c)
		px, py := -1, -1
		for i, v := range values {
			if math.IsNaN(v) {
				// Leave a gap; there is nothing to place.
				px, py = -1, -1
				continue
			}
			pos := 0.0
			if len(values) > 1 {
				pos = float64(i) / float64(len(values)-1)
			}
			x, y := toPixel(plot, pos, v)
			if px >= 0 {
				line(img, px, py, x, y, channels[c])
			} else {
				img.SetRGBA(x, y, channels[c])
			}
			px, py = x, y
		}
	}

	label(img, plot.Min.X, margin-8, opts.Title)
	label(img, 4, plot.Max.Y+4, "0")
	label(img, 4, plot.Min.Y+4, "1")
	caption := fmt.Sprintf("%s %s", store.Sizes(), store.Depth())
	label(img, plot.Max.X-7*len(caption), opts.Height-6, caption)
	return img
}

// toPixel maps a unit position and value into r. Values outside [0, 1],
// infinities included, are clamped to the plot area. v must not be NaN.
func toPixel(r image.Rectangle, pos, v float64) (int, int) {
	v = min(max(v, 0), 1)
	x := r.Min.X + int(pos*float64(r.Dx()-1)+0.5)
	y := r.Max.Y - 1 - int(v*float64(r.Dy()-1)+0.5)
	return x, y
}

// line draws from (x0, y0) to (x1, y1) inclusive.
func line(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func label(img *image.RGBA, x, y int, s string) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: text},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Encode writes img to w in format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported plot format %q", format)
	}
}

// WriteFile renders store and writes it to path, choosing the encoding from
// the extension.
func WriteFile(path string, store ramp.Store, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	if err := Encode(f, Render(store, opts), format); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	return f.Close()
}
