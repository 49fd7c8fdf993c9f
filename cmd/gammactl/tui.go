package main

import (
	"flag"
	"fmt"

	"github.com/1broseidon/gammactl/internal/tui"
)

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(stderr, "Usage: gammactl tui [--config PATH] [--method M] [--site S]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Interactive gamma adjuster for the CRTCs of one site.")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Keybindings:")
		fmt.Fprintln(stderr, "  1/2/3, tab    Switch between CRTCs, Adjust and Settings")
		fmt.Fprintln(stderr, "  ↑/↓           Select CRTC or channel")
		fmt.Fprintln(stderr, "  Enter         Adjust the selected CRTC / apply the gains")
		fmt.Fprintln(stderr, "  ←/→           Change the selected channel's gain")
		fmt.Fprintln(stderr, "  i             Reset gains to identity")
		fmt.Fprintln(stderr, "  r             Restore the selected CRTC")
		fmt.Fprintln(stderr, "  R             Restore the whole site")
		fmt.Fprintln(stderr, "  e             Edit settings")
		fmt.Fprintln(stderr, "  Ctrl+S        Save settings to the config file")
		fmt.Fprintln(stderr, "  q, Ctrl+C     Quit")
		return 0
	}

	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, false)
	if code, ok := parse(fs, args); !ok {
		return code
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	if err := tui.Run(e.sess, c.target, e.res, c.configPath); err != nil {
		return fail(err)
	}
	return 0
}
