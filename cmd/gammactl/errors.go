package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/gammactl/internal/edid"
	"github.com/1broseidon/gammactl/internal/gammaerr"
)

func printErrorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gammactl error name <code>       Print the name of a library error code")
	fmt.Fprintln(w, "  gammactl error value <NAME>      Print the code of an error name")
	fmt.Fprintln(w, "  gammactl error report <code>     Print a perror-style description")
}

func runError(args []string) int {
	if isHelp(args) {
		printErrorUsage(stderr)
		return 2
	}
	if len(args) != 2 {
		printErrorUsage(stderr)
		return 2
	}

	switch args[0] {
	case "name":
		code, err := parseCode(args[1])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		name, ok := gammaerr.Name(code)
		if !ok {
			fmt.Fprintf(stderr, "%d is not a library error code\n", int(code))
			return 1
		}
		fmt.Fprintln(stdout, name)
		return 0

	case "value":
		code := gammaerr.ValueOf(strings.ToUpper(strings.TrimSpace(args[1])))
		if code == gammaerr.OK {
			fmt.Fprintf(stderr, "unknown error name %q\n", args[1])
			return 1
		}
		fmt.Fprintln(stdout, int(code))
		return 0

	case "report":
		code, err := parseCode(args[1])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		gammaerr.Report(stdout, "gammactl", code)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown error subcommand: %s\n", args[0])
		return 2
	}
}

func parseCode(s string) (gammaerr.Code, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid error code %q", s)
	}
	return gammaerr.Code(n), nil
}

func runHex(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  gammactl hex behex [--upper] [FILE]    Print a binary EDID as hex (stdin when FILE is - or absent)")
		fmt.Fprintln(stderr, "  gammactl hex unhex [--out FILE] HEX    Decode a hex EDID to binary")
		return 2
	}

	switch args[0] {
	case "behex":
		fs := flag.NewFlagSet("behex", flag.ContinueOnError)
		fs.SetOutput(stderr)
		upper := fs.Bool("upper", false, "Use uppercase digits")
		if code, ok := parse(fs, args[1:]); !ok {
			return code
		}
		var (
			raw []byte
			err error
		)
		if fs.NArg() == 0 || fs.Arg(0) == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(fs.Arg(0))
		}
		if err != nil {
			return fail(err)
		}
		if *upper {
			fmt.Fprintln(stdout, edid.BehexUpper(raw))
		} else {
			fmt.Fprintln(stdout, edid.Behex(raw))
		}
		return 0

	case "unhex":
		fs := flag.NewFlagSet("unhex", flag.ContinueOnError)
		fs.SetOutput(stderr)
		out := fs.String("out", "", "Output file (default: stdout)")
		if code, ok := parse(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "unhex requires exactly one HEX argument")
			return 2
		}
		raw, err := edid.Unhex(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		if *out == "" {
			if _, err := stdout.Write(raw); err != nil {
				return fail(err)
			}
			return 0
		}
		if err := os.WriteFile(*out, raw, 0644); err != nil {
			return fail(err)
		}
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown hex subcommand: %s\n", args[0])
		return 2
	}
}
