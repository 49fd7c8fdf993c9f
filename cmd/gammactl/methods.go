package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/method"
)

func runMethods(args []string) int {
	fs := flag.NewFlagSet("methods", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, false)
	filter := fs.Int("filter", int(backend.FilterAll), "0 suggested, 1 suggested incl. translated, 2 real non-translated, 3 real, 4 all")
	asJSON := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gammactl methods [--filter N] [--json]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "List adjustment methods in order of preference.")
		fs.PrintDefaults()
	}
	if code, ok := parse(fs, args); !ok {
		return code
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	ids, err := e.reg.ListMethods(backend.Filter(*filter))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	type entry struct {
		ID           int    `json:"id"`
		Name         string `json:"name"`
		DefaultSite  string `json:"default_site,omitempty"`
		SiteVariable string `json:"site_variable,omitempty"`
	}
	entries := make([]entry, 0, len(ids))
	for _, id := range ids {
		en := entry{ID: int(id), Name: id.String()}
		en.DefaultSite, _ = e.reg.MethodDefaultSite(id)
		en.SiteVariable, _ = e.reg.MethodDefaultSiteVariable(id)
		entries = append(entries, en)
	}

	if *asJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEFAULT SITE\tVARIABLE")
	for _, en := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", en.ID, en.Name, orDash(en.DefaultSite), orDash(en.SiteVariable))
	}
	return flushOr(w)
}

func runCaps(args []string) int {
	fs := flag.NewFlagSet("caps", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, false)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gammactl caps [--method M]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Show what an adjustment method supports.")
	}
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() > 0 && c.target.Method == "" {
		c.target.Method = fs.Arg(0)
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	id, err := e.sess.ResolveMethod(c.target.Method)
	if err != nil {
		return fail(err)
	}
	caps, err := e.reg.MethodCapabilities(id)
	if err != nil {
		return fail(err)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "method\t%s (%d)\n", id, int(id))
	fmt.Fprintf(w, "crtc_information\t%s\n", caps.CRTCInformation)
	for _, row := range capabilityRows(caps) {
		fmt.Fprintf(w, "%s\t%s\n", row.name, yesNo(row.value))
	}
	return flushOr(w)
}

type capabilityRow struct {
	name  string
	value bool
}

func capabilityRows(caps method.Capabilities) []capabilityRow {
	return []capabilityRow{
		{"default_site_known", caps.DefaultSiteKnown},
		{"multiple_sites", caps.MultipleSites},
		{"multiple_partitions", caps.MultiplePartitions},
		{"multiple_crtcs", caps.MultipleCRTCs},
		{"partitions_are_graphics_cards", caps.PartitionsAreGraphicsCards},
		{"site_restore", caps.SiteRestore},
		{"partition_restore", caps.PartitionRestore},
		{"crtc_restore", caps.CRTCRestore},
		{"identical_gamma_sizes", caps.IdenticalGammaSizes},
		{"fixed_gamma_size", caps.FixedGammaSize},
		{"fixed_gamma_depth", caps.FixedGammaDepth},
		{"real", caps.Real},
		{"fake", caps.Fake},
	}
}

func runSite(args []string) int {
	fs := flag.NewFlagSet("site", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, false)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gammactl site [--method M] [--site S]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Open a site and list its partitions and CRTCs.")
	}
	if code, ok := parse(fs, args); !ok {
		return code
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	site, err := e.sess.Site(c.target.Method, c.target.Site)
	if err != nil {
		return fail(err)
	}
	name := site.Name
	if name == "" {
		name = "(default)"
	}
	fmt.Fprintf(stdout, "method %s site %s: %d partition(s)\n", site.Method, name, site.PartitionsAvailable())

	status := 0
	for p := 0; p < site.PartitionsAvailable(); p++ {
		t := c.target
		t.Partition = p
		part, err := e.sess.Partition(t)
		if err != nil {
			fmt.Fprintf(stdout, "  partition %d: %s %v\n", p, failedLabel, err)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "  partition %d: %d crtc(s) %s\n", p, part.CRTCsAvailable(), okLabel)
	}
	return status
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func flushOr(w *tabwriter.Writer) int {
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return 0
}
