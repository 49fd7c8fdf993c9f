package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/gammactl/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gammactl mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'gammactl mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(stdout, "Usage: gammactl mcp serve [--config PATH] [-v]")
		fmt.Fprintln(stdout, "")
		fmt.Fprintln(stdout, "Start the MCP server on stdio. Gamma objects opened by tool calls stay")
		fmt.Fprintln(stdout, "open until the server exits, so restore returns to the ramps in effect")
		fmt.Fprintln(stdout, "when a site was first opened.")
		return 0
	}

	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs, false)
	if code, ok := parse(fs, args); !ok {
		return code
	}

	e, err := newEnv(c)
	if err != nil {
		return fail(err)
	}
	server := mcp.NewServer(e.sess, e.log)
	defer func() {
		if err := server.Close(); err != nil {
			e.log.Warn("failed to close gamma objects", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	e.log.Info("mcp server starting", "transport", "stdio")
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return fail(fmt.Errorf("mcp server: %w", err))
	}
	return 0
}
