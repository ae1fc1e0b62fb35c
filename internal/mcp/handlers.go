package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

// handleResolvePage maps a page URL to its node and expansion path.
func (s *Server) handleResolvePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}

	res := s.resolver.Resolve(url)
	if !res.Active() {
		if res.IndexPos < 0 {
			return mcp.NewToolResultText(fmt.Sprintf("%q is not listed in NAVTREEINDEX, so no navigation entry is selected for it.", res.URL)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%q matches NAVTREEINDEX entry %d (%s) but no node links to it.", res.URL, res.IndexPos, res.Entry)), nil
	}
	return mcp.NewToolResultText(formatResolution(res)), nil
}

// handleGetSubtree prints the subtree at an index path.
func (s *Server) handleGetSubtree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := navtree.ParsePath(request.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	depth := request.GetInt("depth", 0)
	if depth < 0 {
		depth = 0
	}

	nodes := s.tree.Roots
	if len(path) > 0 {
		n, ok := s.tree.NodeAt(path)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no entry at %s", navtree.FormatPath(path))), nil
		}
		nodes = []*navtree.Node{n}
	}
	if len(nodes) == 0 {
		return mcp.NewToolResultText("The navigation tree is empty."), nil
	}

	var sb strings.Builder
	if err := site.WriteText(&sb, nodes, site.TextOptions{Depth: depth, Links: true}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering subtree: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleCheckNavtree runs the consistency check.
func (s *Server) handleCheckNavtree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep := s.tree.Check()

	var sb strings.Builder
	mode := "flat"
	if rep.Chunked {
		mode = "chunked"
	}
	fmt.Fprintf(&sb, "Nodes: %d\nPages: %d\nIndex entries: %d (%s)\n", rep.Nodes, rep.Pages, rep.IndexEntries, mode)
	if rep.OK() {
		sb.WriteString("\nNo problems found.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	findings := rep.Findings()
	fmt.Fprintf(&sb, "\n%d problem(s):\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(&sb, "- %s\n", f)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetOutline returns the Markdown outline of the whole tree.
func (s *Server) handleGetOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(site.Outline(s.tree)), nil
}

// handleSearchNavtree searches titles in the loaded tree.
func (s *Server) handleSearchNavtree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	results := site.Search(s.tree, query, limit)
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(results))
	for _, r := range results {
		fmt.Fprintf(&sb, "\n%s\nPath: %s\n", r.Trail, navtree.FormatPath(r.Indices))
		if r.Link != "" {
			fmt.Fprintf(&sb, "Link: %s\n", r.Link)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatResolution describes a resolved page for AI agent consumption.
func formatResolution(res navtree.Resolution) string {
	var sb strings.Builder
	n := res.Node()
	fmt.Fprintf(&sb, "Page: %s\n", res.URL)
	fmt.Fprintf(&sb, "Entry: %s (%s)\n", n.Title, n.Link)
	fmt.Fprintf(&sb, "Path: %s\n", navtree.FormatPath(res.Indices))
	fmt.Fprintf(&sb, "Index position: %d (%s)\n", res.IndexPos, res.Entry)
	sb.WriteString("\nExpansion path:\n")
	for i, title := range res.Titles() {
		fmt.Fprintf(&sb, "%s- %s\n", strings.Repeat("  ", i), title)
	}
	return sb.String()
}
