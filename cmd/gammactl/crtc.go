package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/plot"
	"github.com/1broseidon/gammactl/internal/ramp"
	"github.com/1broseidon/gammactl/internal/session"
)

type fieldJSON struct {
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

func runInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, true)
	fields := fs.String("fields", "all", "Fields to query, e.g. \"edid,gamma_size\" or \"connector|active\"")
	asJSON := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gammactl info [--method M] [--site S] [--partition P] [--crtc C] [--fields LIST] [--json]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Query CRTC information. Each field reports its own outcome.")
		fs.PrintDefaults()
	}
	if code, ok := parse(fs, args); !ok {
		return code
	}
	mask, err := method.ParseInfoFields(*fields)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	crtc, err := e.sess.CRTC(c.target)
	if err != nil {
		return fail(err)
	}
	info, qerr := crtc.Information(mask)
	if info == nil {
		return fail(qerr)
	}

	if *asJSON {
		out := make(map[string]fieldJSON, len(mask.Fields()))
		for _, f := range mask.Fields() {
			fj := fieldJSON{Value: info.Value(f)}
			if ferr := info.Err(f); ferr != nil {
				fj.Error, _ = gammaerr.Name(gammaerr.Of(ferr, gammaerr.StateUnknown))
				if fj.Error == "" {
					fj.Error = ferr.Error()
				}
			}
			out[f.String()] = fj
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		for _, f := range mask.Fields() {
			switch info.State(f) {
			case backend.FieldOK:
				fmt.Fprintf(w, "%s\t%v\n", f, info.Value(f))
			default:
				fmt.Fprintf(w, "%s\t%s %v\n", f, failedLabel, info.Err(f))
			}
		}
		if err := w.Flush(); err != nil {
			return fail(err)
		}
	}

	if qerr != nil {
		return fail(qerr)
	}
	return 0
}

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, true)
	asJSON := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gammactl get [--method M] [--site S] [--partition P] [--crtc C] [--json]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Print the gamma ramps a CRTC applies, as values on [0, 1].")
	}
	if code, ok := parse(fs, args); !ok {
		return code
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	crtc, err := e.sess.CRTC(c.target)
	if err != nil {
		return fail(err)
	}
	store, err := session.CurrentRamps(crtc)
	if err != nil {
		return fail(err)
	}

	if *asJSON {
		out := struct {
			Depth ramp.Depth `json:"depth"`
			Red   []float64  `json:"red"`
			Green []float64  `json:"green"`
			Blue  []float64  `json:"blue"`
		}{
			Depth: store.Depth(),
			Red:   ramp.UnitValues(store, ramp.Red),
			Green: ramp.UnitValues(store, ramp.Green),
			Blue:  ramp.UnitValues(store, ramp.Blue),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	fmt.Fprintf(stdout, "depth %s, sizes %s\n", store.Depth(), store.Sizes())
	for ch := ramp.Red; ch <= ramp.Blue; ch++ {
		values := ramp.UnitValues(store, ch)
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(stdout, "%s: %s\n", ch, strings.Join(parts, " "))
	}
	return 0
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, true)
	identity := fs.Bool("identity", false, "Apply a linear ramp")
	scale := fs.Float64("scale", 0, "Apply a linear ramp scaled by this factor (0..1)")
	hold := fs.Duration("for", 0, "Restore the CRTC's previous ramps after this long (0 keeps the new ramps)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gammactl set [--method M] [--site S] [--partition P] [--crtc C] (--identity | --scale F) [--for D]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Apply new gamma ramps to a CRTC. With --for the ramps the CRTC had before")
		fmt.Fprintln(stderr, "are written back after D, or on interrupt.")
	}
	if code, ok := parse(fs, args); !ok {
		return code
	}
	scaled := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "scale" {
			scaled = true
		}
	})
	if *identity == scaled {
		fmt.Fprintln(stderr, "set requires exactly one of --identity or --scale")
		return 2
	}
	if scaled && (math.IsNaN(*scale) || math.IsInf(*scale, 0) || *scale < 0 || *scale > 1) {
		fmt.Fprintln(stderr, "--scale must be within [0, 1]")
		return 2
	}
	if *hold < 0 {
		fmt.Fprintln(stderr, "--for must not be negative")
		return 2
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	crtc, err := e.sess.CRTC(c.target)
	if err != nil {
		return fail(err)
	}
	store, err := session.NewStoreFor(crtc)
	if err != nil {
		return fail(err)
	}
	ramp.Identity(store)
	if scaled {
		ramp.Scale(store, *scale)
	}
	if err := crtc.SetGamma(store); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "crtc %d/%d: %s\n", c.target.Partition, c.target.CRTC, okLabel)
	if *hold == 0 {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	timer := time.NewTimer(*hold)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	if err := e.sess.Restore(c.target, session.LevelCRTC); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "restore crtc %d/%d: %s\n", c.target.Partition, c.target.CRTC, okLabel)
	return 0
}

func runPlot(args []string) int {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, true)
	out := fs.String("out", "", "Output file (.png, .tif or .tiff), or - for PNG on stdout")
	width := fs.Int("width", 0, "Image width in pixels")
	height := fs.Int("height", 0, "Image height in pixels")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gammactl plot --out FILE [--method M] [--site S] [--partition P] [--crtc C]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Render a CRTC's gamma ramps as an image.")
	}
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if *out == "" {
		fmt.Fprintln(stderr, "plot requires --out")
		return 2
	}
	if *out == "-" {
		if stdout == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(stderr, "refusing to write an image to a terminal; redirect stdout or use --out FILE")
			return 2
		}
	} else if _, err := plot.FormatFromPath(*out); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	crtc, err := e.sess.CRTC(c.target)
	if err != nil {
		return fail(err)
	}
	store, err := session.CurrentRamps(crtc)
	if err != nil {
		return fail(err)
	}

	opts := plot.Options{
		Width:  *width,
		Height: *height,
		Title:  fmt.Sprintf("crtc %d/%d %s", c.target.Partition, c.target.CRTC, store.Depth()),
	}
	if *out == "-" {
		if err := plot.Encode(stdout, plot.Render(store, opts), plot.FormatPNG); err != nil {
			return fail(err)
		}
		return 0
	}
	if err := plot.WriteFile(*out, store, opts); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return 0
}
