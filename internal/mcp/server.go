// Package mcp provides the MCP (Model Context Protocol) server implementation.
//
// This package implements an MCP server that exposes tweakctl functionality
// (tweak toggles, performance mode, app profiles, the game list, FPS and a
// root shell) as tools that can be called by AI agents via the MCP protocol.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/javapro/tweakctl/internal/app"
)

// Server wraps the MCP server with tweakctl-specific functionality.
type Server struct {
	mcpServer *mcp.Server
	app       *app.App
	version   string
}

// NewServer creates a new tweakctl MCP server.
//
// Parameters:
//   - a: The wired application the tools operate on
//   - version: The CLI version string
//
// Returns:
//   - *Server: A new server instance with every tool registered
func NewServer(a *app.App, version string) *Server {
	s := &Server{
		app:     a,
		version: version,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "tweakctl",
			Version: version,
		},
		nil,
	)

	s.registerTweakTools()
	s.registerDeviceTools()

	return s
}

// Run starts the MCP server over stdio.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Any error that occurred during execution
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// boolPtr returns a pointer to a bool value. Used for ToolAnnotations fields.
func boolPtr(b bool) *bool { return &b }
