package mcp

import (
	"context"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gammactl/internal/session"
)

const (
	ServerName    = "gammactl"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing gamma ramp inspection and control.
// Objects it opens stay open until Close, so restore returns to the ramps
// that were in effect when a site was first opened.
type Server struct {
	mcpServer *mcpsdk.Server
	log       *slog.Logger

	// mu serializes every use of session and the gamma objects it holds;
	// tool calls may arrive concurrently.
	mu      sync.Mutex
	session *session.Session
}

// NewServer creates a new MCP server over sess.
func NewServer(sess *session.Session, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		session: sess,
		log:     log,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases every object the server opened.
func (s *Server) Close() error {
	if s == nil || s.session == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Close()
}

// serialized runs h with the server's lock held.
func serialized[In, Out any](s *Server, h mcpsdk.ToolHandlerFor[In, Out]) mcpsdk.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, Out, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return h(ctx, req, in)
	}
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_methods",
		Description: "List the gamma adjustment methods compiled into gammactl, in order of preference, with each method's default site.",
	}, s.handleListMethods)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "method_capabilities",
		Description: "Describe what an adjustment method supports: which CRTC information fields it can report, whether it can restore ramps, and whether it drives real hardware.",
	}, s.handleMethodCapabilities)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "crtc_information",
		Description: "Query information about one CRTC (EDID, physical size, gamma ramp size and depth, subpixel order, connector). Each field reports its own value or error.",
	}, serialized(s, s.handleCRTCInformation))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_ramps",
		Description: "Read the gamma ramps a CRTC currently applies, as values on [0, 1].",
	}, serialized(s, s.handleGetRamps))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_ramps",
		Description: "Apply gamma ramps to a CRTC: either an identity ramp scaled by a factor, or explicit per-channel values on [0, 1]. Use restore to undo.",
	}, serialized(s, s.handleSetRamps))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore",
		Description: "Restore the ramps that were in effect when gammactl first opened the CRTC, its partition, or the whole site.",
	}, serialized(s, s.handleRestore))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "error_name",
		Description: "Translate a gammactl error code to its name and description, or a name to its code.",
	}, s.handleErrorName)
}
