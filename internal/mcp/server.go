package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docnav/internal/navstore"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes navigation tree tools.
type Server struct {
	tree     *navtree.Tree
	resolver *navtree.Resolver
	store    *navstore.Store
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over a loaded tree.
func NewServer(tree *navtree.Tree) *Server {
	s := &Server{
		tree:     tree,
		resolver: navtree.NewResolver(tree),
	}

	s.mcp = server.NewMCPServer(
		"docnav",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(resolvePageTool, s.handleResolvePage)
	s.mcp.AddTool(getSubtreeTool, s.handleGetSubtree)
	s.mcp.AddTool(checkNavtreeTool, s.handleCheckNavtree)
	s.mcp.AddTool(getOutlineTool, s.handleGetOutline)
	s.mcp.AddTool(searchNavtreeTool, s.handleSearchNavtree)
}

// SetStore attaches exported documentation sets and registers the tools that
// query them.
func (s *Server) SetStore(store *navstore.Store) {
	s.store = store
	s.mcp.AddTool(lookupExportedTool, s.handleLookupExported)
	s.mcp.AddTool(searchExportedTool, s.handleSearchExported)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
