package mcp

import "github.com/mark3labs/mcp-go/mcp"

// resolvePageTool defines the resolve_page MCP tool.
var resolvePageTool = mcp.NewTool("resolve_page",
	mcp.WithDescription("Find where a documentation page sits in the navigation tree. Returns the expansion path from the root and the matched NAVTREEINDEX entry."),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("Page URL relative to the documentation root, e.g. UserManual.html#Debugging"),
	),
)

// getSubtreeTool defines the get_subtree MCP tool.
var getSubtreeTool = mcp.NewTool("get_subtree",
	mcp.WithDescription("Print part of the navigation tree as an indented outline with links."),
	mcp.WithString("path",
		mcp.Description("Index path of the subtree root, e.g. [0,1] or 0/1. Empty prints the whole forest."),
	),
	mcp.WithNumber("depth",
		mcp.Description("Number of levels to print (default: all)"),
	),
)

// checkNavtreeTool defines the check_navtree MCP tool.
var checkNavtreeTool = mcp.NewTool("check_navtree",
	mcp.WithDescription("Check that NAVTREEINDEX agrees with the navigation tree and report every inconsistency found while loading."),
)

// getOutlineTool defines the get_outline MCP tool.
var getOutlineTool = mcp.NewTool("get_outline",
	mcp.WithDescription("Get the whole navigation tree as a Markdown outline."),
)

// searchNavtreeTool defines the search_navtree MCP tool.
var searchNavtreeTool = mcp.NewTool("search_navtree",
	mcp.WithDescription("Find navigation entries whose title contains the query, ignoring case."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Title substring to look for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 20)"),
	),
)
