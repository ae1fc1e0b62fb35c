package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docnav/internal/navstore"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

// lookupExportedTool defines the lookup_exported MCP tool.
var lookupExportedTool = mcp.NewTool("lookup_exported",
	mcp.WithDescription("Find a page in every exported documentation set."),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("Page URL, e.g. group_x.html#anchor1"),
	),
)

// searchExportedTool defines the search_exported MCP tool.
var searchExportedTool = mcp.NewTool("search_exported",
	mcp.WithDescription("Search navigation titles across every exported documentation set."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Title substring to look for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 20)"),
	),
)

func (s *Server) handleLookupExported(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}
	entries, err := s.store.Lookup(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No exported documentation set links to %q. Run `docnav export` to refresh the database.", url)), nil
	}
	return mcp.NewToolResultText(formatEntries(entries)), nil
}

func (s *Server) handleSearchExported(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}
	return mcp.NewToolResultText(formatEntries(entries)), nil
}

func formatEntries(entries []navstore.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d entr%s:\n", len(entries), plural(len(entries), "y", "ies"))
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n[%s] %s\n", e.Source, e.Trail)
		fmt.Fprintf(&sb, "Path: %s\n", navtree.FormatPath(e.Indices))
		if e.Link != "" {
			fmt.Fprintf(&sb, "Link: %s\n", e.Link)
		}
		if e.IndexPos >= 0 {
			fmt.Fprintf(&sb, "Index position: %d\n", e.IndexPos)
		}
	}
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
