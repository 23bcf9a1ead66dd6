package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/manualsite/internal/site"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the manuals to AI agents.
type Server struct {
	manuals map[string]*site.Manual
	order   []string
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over the given manuals.
func NewServer(manuals []*site.Manual) *Server {
	s := &Server{manuals: make(map[string]*site.Manual, len(manuals))}
	for _, m := range manuals {
		s.manuals[m.Entry.Name] = m
		s.order = append(s.order, m.Entry.Name)
	}

	s.mcp = server.NewMCPServer(
		"manualsite",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listManualsTool, s.handleListManuals)
	s.mcp.AddTool(listVersionsTool, s.handleListVersions)
	s.mcp.AddTool(tableOfContentsTool, s.handleTableOfContents)
	s.mcp.AddTool(readPageTool, s.handleReadPage)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
