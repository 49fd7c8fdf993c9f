package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/config"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/methods"
	"github.com/1broseidon/gammactl/internal/session"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "methods":
		os.Exit(runMethods(os.Args[2:]))
	case "caps":
		os.Exit(runCaps(os.Args[2:]))
	case "site":
		os.Exit(runSite(os.Args[2:]))
	case "info":
		os.Exit(runInfo(os.Args[2:]))
	case "get":
		os.Exit(runGet(os.Args[2:]))
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "plot":
		os.Exit(runPlot(os.Args[2:]))
	case "error":
		os.Exit(runError(os.Args[2:]))
	case "hex":
		os.Exit(runHex(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gammactl <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  methods             List adjustment methods")
	fmt.Fprintln(w, "  caps <method>       Show a method's capabilities")
	fmt.Fprintln(w, "  site                Show the partitions and CRTCs of a site")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  info                Query CRTC information")
	fmt.Fprintln(w, "  get                 Print a CRTC's gamma ramps")
	fmt.Fprintln(w, "  set                 Apply identity or scaled gamma ramps, optionally for a while")
	fmt.Fprintln(w, "  plot                Render a CRTC's gamma ramps to PNG or TIFF")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  error name|value|report")
	fmt.Fprintln(w, "                      Translate error codes and names")
	fmt.Fprintln(w, "  hex behex|unhex     Convert EDIDs between binary and hex")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive gamma adjuster")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'gammactl <command> --help' for command-specific options.")
}

// commonFlags are accepted by every command that opens a site.
type commonFlags struct {
	configPath string
	verbose    bool
	target     session.Target
}

func addCommonFlags(fs *flag.FlagSet, withCRTC bool) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", "", "Config file path (default: ~/.config/gammactl/config.yaml)")
	fs.BoolVar(&c.verbose, "v", false, "Log debug output to stderr")
	fs.StringVar(&c.target.Method, "method", "", "Adjustment method name or id (default: from config)")
	fs.StringVar(&c.target.Site, "site", "", "Site name (default: the method's default site)")
	if withCRTC {
		fs.IntVar(&c.target.Partition, "partition", 0, "Partition index")
		fs.IntVar(&c.target.CRTC, "crtc", 0, "CRTC index")
	}
	return c
}

// env is what a command needs to reach the hardware.
type env struct {
	res  *config.LoadResult
	log  *slog.Logger
	reg  *backend.Registry
	sess *session.Session
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func newEnv(c *commonFlags) (*env, error) {
	res, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	cfg := res.Config

	level := cfg.SlogLevel()
	if c.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reg, err := methods.NewRegistry(methods.Options{Dummy: cfg.Dummy, DRMCardDir: cfg.DRMCardDir})
	if err != nil {
		return nil, err
	}
	return &env{
		res:  res,
		log:  log,
		reg:  reg,
		sess: session.New(reg, cfg, log),
	}, nil
}

func (e *env) close() {
	if err := e.sess.Close(); err != nil {
		e.log.Warn("failed to close gamma objects", "error", err)
	}
}

var (
	okLabel     = color.New(color.FgGreen).Sprint("ok")
	failedLabel = color.New(color.FgRed).Sprint("failed")
)

// fail reports err and returns the exit code for an operation failure.
// Errors carrying a gamma error code are also reported by name.
func fail(err error) int {
	fmt.Fprintf(stderr, "%s: %v\n", failedLabel, err)
	if code := gammaerr.Of(err, gammaerr.OK); code != gammaerr.OK {
		gammaerr.Report(stderr, "gammactl", code)
	}
	return 1
}

// parse parses args and maps the outcome to an exit code; ok is false when
// the caller should return code.
func parse(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func isHelp(args []string) bool {
	return len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help"
}
